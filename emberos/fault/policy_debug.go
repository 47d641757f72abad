//go:build debug

package fault

// Debug builds halt on-site so the stack survives for a debugger.
func init() {
	policy.Store(uint32(PolicyHalt))
}
