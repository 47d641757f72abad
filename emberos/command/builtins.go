package command

import (
	"encoding/binary"
	"fmt"
	"strings"

	"ember/emberos/control"
	"ember/emberos/io"
	"ember/emberos/settings"
	"ember/emberos/task"
	"ember/x/strconvx"
)

const (
	newline     = "\r\n"
	invalidArgs = "Invalid Number of Arguments\r\n"
)

func init() {
	register("help", helpFunc, "lists all commands")
	register("control-on", controlOn, "enables the given controls")
	register("control-off", controlOff, "disables the given controls")
	register("control-list", controlList, "lists controls and their state")
	register("io-get", ioGet, "reads the given input")
	register("io-set", ioSet, "writes the given output")
	register("io-print", ioPrint, "prints IO traffic for the given element")
	register("io-quiet", ioQuiet, "silences IO traffic for the given element")
	register("io-list", ioList, "lists all registered IO")
	register("mem", memList, "dumps heap and stack usage")
	register("setting-set", settingSet, "sets the given setting")
	register("setting-get", settingGet, "gets the given setting")
	register("flash-write", flashWrite, "writes a word to flash (hex)")
	register("flash-read", flashRead, "reads a word from flash (hex)")
	register("flash-erase", flashErase, "erases the flash sector (hex)")
	register("reboot", reboot, "resets the system")
}

func helpFunc(args []string) string {
	var sb strings.Builder
	for _, e := range table {
		sb.WriteString(e.name)
		sb.WriteString(": ")
		sb.WriteString(e.desc)
		sb.WriteString(newline)
	}
	return sb.String()
}

//
// Controls
//

func controlOn(args []string) string {
	if len(args) < 1 {
		return invalidArgs
	}
	for _, name := range args {
		if ctrl := control.ByName(name); ctrl != nil {
			ctrl.SetEnabled(true)
		}
	}
	return newline
}

func controlOff(args []string) string {
	if len(args) < 1 {
		return invalidArgs
	}
	for _, name := range args {
		if ctrl := control.ByName(name); ctrl != nil {
			ctrl.SetEnabled(false)
		}
	}
	return newline
}

func controlList(args []string) string {
	return control.List()
}

//
// Typed IO
//

func inputPtr(nameOrID string) io.Input {
	id := io.ID(strconvx.ParseU32(nameOrID, 10))
	if id == io.InvalidID {
		return io.InputByName(nameOrID)
	}
	return io.InputByID(id)
}

func outputPtr(nameOrID string) io.Output {
	id := io.ID(strconvx.ParseU32(nameOrID, 10))
	if id == io.InvalidID {
		return io.OutputByName(nameOrID)
	}
	return io.OutputByID(id)
}

func inputVal(in io.Input) string {
	switch io.InElem(in) {
	case io.ElemF32:
		return fmt.Sprintf("%f\r\n", io.Get[float32](in))
	case io.ElemBool:
		v := 0
		if io.Get[bool](in) {
			v = 1
		}
		return fmt.Sprintf("%1d\r\n", v)
	case io.ElemU32:
		return fmt.Sprintf("%d\r\n", io.Get[uint32](in))
	case io.ElemI32:
		return fmt.Sprintf("%d\r\n", io.Get[int32](in))
	case io.ElemText:
		return fmt.Sprintf("%s\r\n", io.Get[string](in))
	default:
		return in.CmdInput()
	}
}

func ioGet(args []string) string {
	if len(args) < 1 {
		return invalidArgs
	}

	in := inputPtr(args[0])
	if in == nil {
		return "Invalid Input\r\n"
	}

	return inputVal(in)
}

func ioSet(args []string) string {
	if len(args) < 2 {
		return invalidArgs
	}

	out := outputPtr(args[0])
	if out == nil {
		return "Invalid Output\r\n"
	}

	value := strconvx.ParseU32(args[1], 10)
	switch io.OutElem(out) {
	case io.ElemBool:
		io.Set(out, value != 0)
	case io.ElemU32:
		io.Set(out, value)
	case io.ElemI32:
		io.Set(out, int32(value))
	case io.ElemText:
		io.Set(out, args[1])
	default:
		return out.CmdOutput(args[1:])
	}

	return newline
}

func ioElemPtr(args []string) *io.IO {
	if len(args) < 1 {
		return nil
	}
	id := io.ID(strconvx.ParseU32(args[0], 10))
	if id == io.InvalidID {
		return io.ByName(args[0])
	}
	return io.ByID(id)
}

func ioPrint(args []string) string {
	if elem := ioElemPtr(args); elem != nil {
		elem.PrintIO = true
	} else {
		fmt.Printf("Unrecognized I/O\r\n")
	}
	return newline
}

func ioQuiet(args []string) string {
	if elem := ioElemPtr(args); elem != nil {
		elem.PrintIO = false
	} else {
		fmt.Printf("Unrecognized I/O\r\n")
	}
	return newline
}

func ioList(args []string) string {
	var sb strings.Builder
	sb.WriteString("ID    Name\r\n")
	sb.WriteString(newline)

	const spaces = "     "
	for id := io.ID(1); id < io.NumIDs(); id++ {
		elem := io.ByID(id)
		if elem == nil {
			continue // only show IO present in a list
		}
		idStr := fmt.Sprintf("%d", uint32(id))
		sb.WriteString(idStr)
		sb.WriteString(spaces[len(idStr)-1:])
		sb.WriteString(elem.Name)
		sb.WriteString(newline)
	}

	return sb.String()
}

//
// Memory diagnostics
//

func memList(args []string) string {
	dump := len(args) > 0 && args[0] == "dump"

	mem := io.HAL().Mem()
	heap := mem.HeapInfo()
	fmt.Printf("Heap Usage:\r\n")
	fmt.Printf("Heap Start            (addr): 0x%X\r\n", uint64(heap.Base))
	fmt.Printf("Heap End              (addr): 0x%X\r\n", uint64(heap.End))
	fmt.Printf("Heap Size            (bytes): %d\r\n", uint64(heap.End-heap.Base))
	fmt.Printf("Heap Max Used        (bytes): %d\r\n", uint64(heap.Max-heap.Base))
	fmt.Printf("%s", newline)

	task.PrintMaximumStackUsage(dump)

	fmt.Printf("Current Stack Pointer (addr): 0x%X\r\n", uint64(mem.StackPointer()))

	return newline
}

//
// Settings
//

func settingSet(args []string) string {
	if len(args) < 2 {
		return invalidArgs
	}

	id := settings.ID(strconvx.ParseU32(args[0], 10))
	settings.Set(id, args[1], true)

	return newline
}

func settingGet(args []string) string {
	if len(args) < 1 {
		return invalidArgs
	}

	id := settings.ID(strconvx.ParseU32(args[0], 10))
	val, err := settings.Get(id)
	if err != nil {
		return err.Error() + newline
	}

	return val + newline
}

//
// Raw flash access (development aid)
//

func flashWrite(args []string) string {
	if len(args) < 2 {
		return invalidArgs
	}

	data := strconvx.ParseU32(args[0], 16)
	addr := strconvx.ParseU32(args[1], 16)

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], data)
	io.HAL().Flash().Write(addr, buf[:])

	return newline
}

func flashRead(args []string) string {
	if len(args) < 1 {
		return invalidArgs
	}

	addr := strconvx.ParseU32(args[0], 16)

	var buf [4]byte
	io.HAL().Flash().Read(addr, buf[:])
	data := binary.LittleEndian.Uint32(buf[:])

	return fmt.Sprintf("0x%08X \r\n", data)
}

func flashErase(args []string) string {
	if len(args) < 1 {
		return invalidArgs
	}

	addr := strconvx.ParseU32(args[0], 16)
	io.HAL().Flash().Erase(addr)

	return newline
}

func reboot(args []string) string {
	fmt.Printf("\r\n")
	io.HAL().Power().Reset()
	return newline
}
