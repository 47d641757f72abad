// Package fault implements the design-by-contract checks used across the
// firmware. Every check takes a condition and a Code; how a failed check is
// handled is a process-wide policy selected at runtime (and exposed as the
// error-handler setting).
package fault

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// Policy selects how a failed contract check is handled.
type Policy uint32

const (
	// PolicyPropagate raises the fault as a panic carrying *Fault so the
	// caller (typically a test or a task loop) can intercept it.
	PolicyPropagate Policy = iota
	// PolicyHalt busy-loops on-site, preserving the stack for a debugger.
	PolicyHalt
	// PolicyReboot emits the diagnostic on the console and requests a
	// platform reset.
	PolicyReboot

	numPolicies
)

var (
	policy atomic.Uint32

	// resetFn requests a platform reset; wired at open time to the power
	// HAL. A nil hook degrades Reboot to Halt.
	resetFn atomic.Value // func()
)

func init() {
	policy.Store(uint32(PolicyReboot))
}

// Fault describes a failed contract check.
type Fault struct {
	Code Code
	File string
	Line int
	Func string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s detected at %s:%d (%s)", f.Code, f.File, f.Line, f.Func)
}

// SetPolicy selects the process-wide handling policy.
func SetPolicy(p Policy) {
	if p >= numPolicies {
		p = PolicyReboot
	}
	policy.Store(uint32(p))
}

// CurrentPolicy returns the active handling policy.
func CurrentPolicy() Policy { return Policy(policy.Load()) }

// SetResetHandler installs the platform reset hook used by PolicyReboot.
func SetResetHandler(fn func()) { resetFn.Store(fn) }

// Require verifies a precondition.
func Require(cond bool, code Code) {
	if !cond {
		fail(code)
	}
}

// Invariant verifies an invariant.
func Invariant(cond bool, code Code) {
	if !cond {
		fail(code)
	}
}

// Ensure verifies a postcondition.
func Ensure(cond bool, code Code) {
	if !cond {
		fail(code)
	}
}

// Recover converts a propagated fault back into an error value. Use in a
// deferred call:
//
//	defer fault.Recover(&err)
func Recover(errp *error) {
	if r := recover(); r != nil {
		f, ok := r.(*Fault)
		if !ok {
			panic(r)
		}
		*errp = f
	}
}

func fail(code Code) {
	f := &Fault{Code: code}
	if pc, file, line, ok := runtime.Caller(2); ok {
		f.File = file
		f.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			f.Func = fn.Name()
		}
	}

	switch Policy(policy.Load()) {
	case PolicyPropagate:
		panic(f)
	case PolicyHalt:
		fmt.Printf("%s\r\n", f.Error())
		for {
			// Halt processing, keep the stack for a debugger.
		}
	default:
		fmt.Printf("%s\r\n", f.Error())
		reset()
	}
}

func reset() {
	if fn, ok := resetFn.Load().(func()); ok && fn != nil {
		fn()
		return
	}
	for {
		// No reset hook installed; behave like halt.
	}
}
