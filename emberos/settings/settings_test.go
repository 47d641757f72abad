package settings

import (
	"testing"

	"ember/emberos/fault"
	"ember/hal"
)

// Test stubs standing in for the module callbacks, one slot per setting.
var stubVals [NumSettings]Arg

func stubGet(id ID) (Arg, error) { return stubVals[id], nil }

func stubSet(id ID, v Arg, bootup bool) error {
	stubVals[id] = v
	return nil
}

func stubTable() []Setting {
	return []Setting{
		{ID: ErrorHandler, Type: TypeUint, Get: stubGet, Set: stubSet, Permission: PermSetGet, Default: "2"},
		{ID: DeviceName, Type: TypeStr, Get: stubGet, Set: stubSet, Permission: PermSetGet, Default: "test-dev"},
		{ID: Version, Type: TypeStr, Get: stubGet, Set: stubSet, Permission: PermGet, Default: ""},
		{ID: TempOffset, Type: TypeInt, Get: stubGet, Set: stubSet, Permission: PermSetGet, Default: "0"},
		{ID: TraceMask, Type: TypeHex, Get: stubGet, Set: stubSet, Permission: PermSetGet, Default: "0xFFFFFFFF"},
		{ID: AdcScale, Type: TypeFloat, Get: stubGet, Set: stubSet, Permission: PermSetGet, Default: "1.0"},
	}
}

func freshEngine(t *testing.T) *hal.Sim {
	t.Helper()
	sim := hal.NewSim(nil)
	stubVals = [NumSettings]Arg{}
	Configure(stubTable())
	ConfigureBackend(sim.HAL.Flash())
	return sim
}

func TestMain(m *testing.M) {
	fault.SetPolicy(fault.PolicyPropagate)
	m.Run()
}

func TestRoundTrips(t *testing.T) {
	freshEngine(t)

	cases := []struct {
		name string
		id   ID
		in   string
		want string
	}{
		{"int negative", TempOffset, "-5", "-5"},
		{"int positive", TempOffset, "41", "41"},
		{"uint", ErrorHandler, "2", "2"},
		{"hex upper unpadded", TraceMask, "0xDEAD", "0xDEAD"},
		{"hex bare digits", TraceMask, "ff", "0xFF"},
		{"str", DeviceName, "bench-007", "bench-007"},
		{"float", AdcScale, "1.5", "1.500000"},
	}
	for _, tc := range cases {
		if err := Set(tc.id, tc.in, false); err != nil {
			t.Fatalf("%s: set: %v", tc.name, err)
		}
		got, err := Get(tc.id)
		if err != nil {
			t.Fatalf("%s: get: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestLaxParsing(t *testing.T) {
	freshEngine(t)

	// Unparseable text degrades to zero, C-style.
	if err := Set(TempOffset, "notanumber", false); err != nil {
		t.Fatal(err)
	}
	got, _ := Get(TempOffset)
	if got != "0" {
		t.Fatalf("got %q, want 0", got)
	}
}

func TestPermissions(t *testing.T) {
	freshEngine(t)

	if err := Set(Version, "1.2.3", false); err != fault.WriteFailed {
		t.Fatalf("write to GET-only = %v, want WriteFailed", err)
	}

	Configure(append(stubTable(), Setting{
		ID: AdcScale, Type: TypeFloat, Get: stubGet, Set: stubSet,
		Permission: PermSet, Default: "1.0",
	}))
	if _, err := Get(AdcScale); err != fault.ReadFailed {
		t.Fatalf("read of SET-only = %v, want ReadFailed", err)
	}
}

func TestStrTruncatesToBuffer(t *testing.T) {
	freshEngine(t)

	long := make([]byte, MaxStrLen*2)
	for i := range long {
		long[i] = 'a'
	}
	if err := Set(DeviceName, string(long), false); err != nil {
		t.Fatal(err)
	}
	got, _ := Get(DeviceName)
	if len(got) != MaxStrLen-1 {
		t.Fatalf("len = %d, want %d", len(got), MaxStrLen-1)
	}
}

func TestInitAppliesDefaults(t *testing.T) {
	freshEngine(t)
	Init()

	got, _ := Get(DeviceName)
	if got != "test-dev" {
		t.Fatalf("device name = %q", got)
	}
	got, _ = Get(TraceMask)
	if got != "0xFFFFFFFF" {
		t.Fatalf("trace mask = %q", got)
	}

	// GET-only settings keep their module-side value untouched.
	if stubVals[Version].Str != "" {
		t.Fatalf("version default was applied: %q", stubVals[Version].Str)
	}
}

func TestUnknownIDFaults(t *testing.T) {
	freshEngine(t)

	var err error
	func() {
		defer fault.Recover(&err)
		Set(NumSettings, "1", false)
	}()
	if fault.Of(err) != fault.IDNotFound {
		t.Fatalf("err = %v, want IDNotFound", err)
	}
}
