// Package command declares the build-time command table the CLI resolves
// against. Handlers take the argument list (command token excluded) and
// return the text to emit on the console.
package command

import (
	"ember/emberos/fault"
)

// Func is a command handler.
type Func func(args []string) string

type entry struct {
	name string
	fn   Func
	desc string
}

var (
	table []entry
	names []string
	funcs []Func
)

func register(name string, fn Func, desc string) {
	table = append(table, entry{name: name, fn: fn, desc: desc})
	names = append(names, name)
	funcs = append(funcs, fn)
}

// Names returns the command names in table order.
func Names() []string {
	fault.Require(len(names) > 0, fault.InvalidLength)
	fault.Ensure(len(names) == len(funcs), fault.InvalidLength)
	return names
}

// Funcs returns the command handlers in table order.
func Funcs() []Func {
	fault.Require(len(funcs) > 0, fault.InvalidLength)
	fault.Ensure(len(funcs) == len(names), fault.InvalidLength)
	return funcs
}
