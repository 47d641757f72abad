//go:build !tinygo

// embergen compiles the declarative tables.yaml into the static Go tables
// the runtime links against. Run via `go generate ./app`.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type tablesFile struct {
	Tasks []struct {
		Name     string `yaml:"name"`
		Priority string `yaml:"priority"`
		Stack    uint32 `yaml:"stack"`
	} `yaml:"tasks"`
	Events []struct {
		Task string `yaml:"task"`
		Name string `yaml:"name"`
	} `yaml:"events"`
	IO []struct {
		ID     uint32   `yaml:"id"`
		Name   string   `yaml:"name"`
		Type   string   `yaml:"type"`
		Dirs   []string `yaml:"dirs"`
		Handle uint32   `yaml:"handle"`
		Port   uint32   `yaml:"port"`
		Pin    uint32   `yaml:"pin"`
		Active string   `yaml:"active"`
	} `yaml:"io"`
	Settings []struct {
		ID         string `yaml:"id"`
		Type       string `yaml:"type"`
		Module     string `yaml:"module"`
		Permission string `yaml:"permission"`
		Default    string `yaml:"default"`
	} `yaml:"settings"`
	Controls []struct {
		Name    string `yaml:"name"`
		Enabled bool   `yaml:"enabled"`
	} `yaml:"controls"`
	Periodics []struct {
		Name     string `yaml:"name"`
		PeriodMs uint32 `yaml:"period_ms"`
	} `yaml:"periodics"`
}

func main() {
	var in, out string
	flag.StringVar(&in, "in", "tables.yaml", "Input table definition.")
	flag.StringVar(&out, "out", "tables_gen.go", "Output Go file.")
	flag.Parse()

	raw, err := os.ReadFile(in)
	if err != nil {
		fatal(err)
	}

	var tf tablesFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		fatal(fmt.Errorf("parse %s: %w", in, err))
	}

	var buf bytes.Buffer
	emit(&buf, &tf, in)

	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "embergen:", err)
	os.Exit(1)
}

func emit(buf *bytes.Buffer, tf *tablesFile, in string) {
	p := func(format string, args ...any) {
		fmt.Fprintf(buf, format, args...)
	}

	p("// Code generated by embergen from %s. DO NOT EDIT.\n\n", in)
	p("//go:generate go run ember/cmd/embergen -in %s -out tables_gen.go\n\n", in)
	p("package app\n\n")
	p("import (\n")
	for _, imp := range []string{
		"ember/emberos/cli",
		"ember/emberos/control",
		"ember/emberos/event",
		"ember/emberos/io",
		"ember/emberos/settings",
		"ember/emberos/task",
		"ember/hal",
	} {
		p("\t%q\n", imp)
	}
	p(")\n\n")

	emitIOIDs(p, tf)
	emitIOElems(p, tf)
	emitEvents(p, tf)
	emitTasks(p, tf)
	emitSettings(p, tf)
	emitControls(p, tf)
}

func ioConst(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	out := "IO"
	for _, part := range parts {
		out += strings.ToUpper(part[:1]) + part[1:]
	}
	return out
}

func varName(name string) string {
	c := ioConst(name)
	return strings.ToLower(c[2:3]) + c[3:]
}

func emitIOIDs(p func(string, ...any), tf *tablesFile) {
	p("// IO element IDs. ID 0 is reserved for failed numeric parses.\n")
	p("const (\n")
	for _, e := range tf.IO {
		p("\t%s io.ID = %d\n", ioConst(e.Name), e.ID)
	}
	p(")\n\n")
}

func emitIOElems(p func(string, ...any), tf *tablesFile) {
	var inputs, outputs []string

	for _, e := range tf.IO {
		name := varName(e.Name)
		isIn := hasDir(e.Dirs, "in")
		isOut := hasDir(e.Dirs, "out")

		switch e.Type {
		case "uart":
			name = "Console" // exported: the ISR pump needs it
			p("// Console is the CLI's UART element.\n")
			p("var Console = &io.UART{\n\tIO:     io.IO{ID: %s, Name: %q},\n\tHandle: %d,\n}\n\n",
				ioConst(e.Name), e.Name, e.Handle)
		case "gpio":
			p("var %s = &io.GPIOPin{\n\tIO:     io.IO{ID: %s, Name: %q},\n\tPort:   %d,\n\tPin:    %d,\n\tActive: %s,\n",
				name, ioConst(e.Name), e.Name, e.Port, e.Pin, activeConst(e.Active))
			if isIn {
				p("\tAsInput: true,\n")
			}
			if isOut {
				p("\tAsOutput: true,\n")
			}
			p("}\n\n")
		case "adc":
			p("var %s = &io.ADCChannel{\n\tIO:   io.IO{ID: %s, Name: %q},\n\tPort: %d,\n\tPin:  %d,\n}\n\n",
				name, ioConst(e.Name), e.Name, e.Port, e.Pin)
		case "temp":
			p("var %s = &io.TempChannel{\n\tADCChannel: io.ADCChannel{\n\t\tIO:   io.IO{ID: %s, Name: %q},\n\t\tPort: %d,\n\t\tPin:  %d,\n\t},\n}\n\n",
				name, ioConst(e.Name), e.Name, e.Port, e.Pin)
		case "pwm":
			p("var %s = &io.PWMOut{\n\tIO:   io.IO{ID: %s, Name: %q},\n\tPort: %d,\n\tPin:  %d,\n}\n\n",
				name, ioConst(e.Name), e.Name, e.Port, e.Pin)
		case "spi":
			p("var %s = &io.SPIPort{\n\tIO: io.IO{ID: %s, Name: %q},\n}\n\n",
				name, ioConst(e.Name), e.Name)
		}

		if isIn {
			inputs = append(inputs, name)
		}
		if isOut {
			outputs = append(outputs, name)
		}
	}

	p("var inputList = []io.Input{%s}\n\n", strings.Join(inputs, ", "))
	p("var outputList = []io.Output{%s}\n\n", strings.Join(outputs, ", "))
}

func emitEvents(p func(string, ...any), tf *tablesFile) {
	p("var eventBindings = []event.Binding{\n")
	for _, e := range tf.Events {
		p("\t{Task: task.%s, Event: event.%s%s},\n", titleCase(e.Task), titleCase(e.Task), e.Name)
	}
	p("}\n\n")
}

func emitTasks(p func(string, ...any), tf *tablesFile) {
	p("func taskTable() []task.Desc {\n\treturn []task.Desc{\n")
	for _, t := range tf.Tasks {
		p("\t\t{ID: task.%s, Name: %q, Priority: task.Priority%s, StackDepth: %d, Entry: %sTaskFunc},\n",
			titleCase(t.Name), t.Name, t.Priority, t.Stack, t.Name)
	}
	p("\t}\n}\n\n")
}

func emitSettings(p func(string, ...any), tf *tablesFile) {
	p("func settingsTable() []settings.Setting {\n\treturn []settings.Setting{\n")
	for _, s := range tf.Settings {
		get, set := moduleFuncs(s.Module)
		p("\t\t{ID: settings.%s, Type: settings.Type%s, Get: %s, Set: %s, Permission: settings.Perm%s, Default: %q},\n",
			s.ID, typeCase(s.Type), get, set, permCase(s.Permission), s.Default)
	}
	p("\t}\n}\n\n")
}

func emitControls(p func(string, ...any), tf *tablesFile) {
	p("func controlList() []control.Control {\n\treturn []control.Control{\n")
	for _, c := range tf.Controls {
		switch c.Name {
		case "CLI":
			p("\t\tcli.New(IOConsole, %v),\n", c.Enabled)
		case "EvtPrint":
			p("\t\tcontrol.NewEvtPrint(IOConsole, %v),\n", c.Enabled)
		}
	}
	p("\t}\n}\n")
}

func moduleFuncs(module string) (get, set string) {
	switch module {
	case "fault":
		return "faultGetParam", "faultSetParam"
	case "app":
		return "appGetParam", "appSetParam"
	case "version":
		return "versionGetParam", "versionSetParam"
	case "io":
		return "io.GetParam", "io.SetParam"
	case "control":
		return "control.GetParam", "control.SetParam"
	}
	return "nil", "nil"
}

func hasDir(dirs []string, d string) bool {
	for _, x := range dirs {
		if x == d {
			return true
		}
	}
	return false
}

func activeConst(a string) string {
	if a == "low" {
		return "hal.ActiveLow"
	}
	return "hal.ActiveHigh"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func typeCase(t string) string {
	switch t {
	case "INT":
		return "Int"
	case "UINT":
		return "Uint"
	case "HEX":
		return "Hex"
	case "STR":
		return "Str"
	case "FLOAT":
		return "Float"
	}
	return t
}

func permCase(perm string) string {
	switch perm {
	case "SET":
		return "Set"
	case "GET":
		return "Get"
	case "SET_GET":
		return "SetGet"
	}
	return perm
}
