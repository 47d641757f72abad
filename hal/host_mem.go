//go:build !tinygo

package hal

import (
	"os"
	"runtime"
	"unsafe"
)

// hostMem reports what the Go runtime exposes: the heap figures come from
// runtime.MemStats and the stack pointer from the address of a local.
type hostMem struct{}

func (hostMem) HeapInfo() HeapInfo {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return HeapInfo{
		Base: 0,
		End:  uintptr(ms.HeapSys),
		Max:  uintptr(ms.HeapInuse),
	}
}

func (hostMem) StackPointer() uintptr {
	var probe byte
	return uintptr(unsafe.Pointer(&probe))
}

// hostPower terminates the process; on hardware this would be a system
// reset back into the boot ROM.
type hostPower struct{}

func (hostPower) Reset() {
	println("reset requested")
	os.Exit(0)
}
