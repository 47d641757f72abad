// Package settings implements typed named settings with permissions. Text
// is marshalled to and from the binary module callbacks at this boundary;
// persistence goes through the log-structured flash backend.
package settings

import (
	"fmt"

	"ember/emberos/fault"
	"ember/emberos/kernel"
	"ember/x/strconvx"
)

// MaxStrLen bounds STR setting values, terminator included.
const MaxStrLen = 64

// ID names one setting.
type ID uint32

const (
	ErrorHandler ID = iota
	DeviceName
	Version
	TempOffset
	TraceMask
	AdcScale

	NumSettings
)

// Type selects the text representation of a setting.
type Type uint8

const (
	TypeInt Type = iota
	TypeUint
	TypeHex
	TypeStr
	TypeFloat
)

// Permission governs which of set and get a setting allows.
type Permission uint8

const (
	PermSet Permission = iota
	PermGet
	PermSetGet
)

// Arg carries a setting value across the module callback boundary. Exactly
// one field is meaningful, selected by the descriptor's Type.
type Arg struct {
	U32 uint32
	I32 int32
	Str string
	F32 float32
}

// GetFunc reads the module-side value.
type GetFunc func(id ID) (Arg, error)

// SetFunc writes the module-side value. bootup marks default application
// at Init, where modules may skip side effects; flash replay passes false.
type SetFunc func(id ID, v Arg, bootup bool) error

// Setting binds one ID to its module callbacks.
type Setting struct {
	ID         ID
	Type       Type
	Get        GetFunc
	Set        SetFunc
	Permission Permission
	// Default is applied through Set at Init for writable settings.
	Default string

	// STR settings own their buffered copy; FLOAT settings own the box the
	// callback argument points at.
	str      string
	floatVal float32
}

var list [NumSettings]*Setting

// Configure installs the build-time settings table.
func Configure(descs []Setting) {
	for i := range list {
		list[i] = nil
	}
	for i := range descs {
		d := &descs[i]
		fault.Require(d.ID < NumSettings, fault.InvalidID)
		fault.Require(d.Get != nil && d.Set != nil, fault.InvalidPointer)
		s := *d
		list[d.ID] = &s
	}
}

func byID(id ID) *Setting {
	for _, s := range list {
		if s != nil && s.ID == id {
			return s
		}
	}
	return nil
}

// Set parses value per the setting's declared type and hands it to the
// module. With save the new value is persisted through the flash backend.
func Set(id ID, value string, save bool) error {
	fault.Require(id < NumSettings, fault.IDNotFound)

	kernel.MutexTake(kernel.MutexSettings)
	defer kernel.MutexGive(kernel.MutexSettings)

	return setText(id, value, false, save)
}

func setText(id ID, value string, bootup bool, save bool) error {
	s := byID(id)
	fault.Require(s != nil, fault.InvalidIndex)

	if s.Permission == PermGet {
		return fault.WriteFailed
	}

	var arg Arg
	switch s.Type {
	case TypeInt:
		arg.I32 = strconvx.ParseI32(value)
	case TypeUint:
		arg.U32 = strconvx.ParseU32(value, 10)
	case TypeHex:
		arg.U32 = strconvx.ParseU32(value, 16)
	case TypeStr:
		s.str = truncate(value, MaxStrLen-1)
		arg.Str = s.str
	case TypeFloat:
		s.floatVal = strconvx.ParseF32(value)
		arg.F32 = s.floatVal
	default:
		fault.Invariant(false, fault.UnknownType)
	}

	err := s.Set(id, arg, bootup)

	if save && err == nil {
		if serr := SaveSetting(id, value); serr != nil {
			return serr
		}
	}

	return err
}

// Get reads the module-side value and formats it with the type-appropriate
// pattern. The result fits in MaxStrLen bytes.
func Get(id ID) (string, error) {
	fault.Require(id < NumSettings, fault.IDNotFound)

	kernel.MutexTake(kernel.MutexSettings)
	defer kernel.MutexGive(kernel.MutexSettings)

	s := byID(id)
	fault.Require(s != nil, fault.InvalidIndex)

	if s.Permission == PermSet {
		return "", fault.ReadFailed
	}

	arg, err := s.Get(id)
	if err != nil {
		return "", err
	}

	switch s.Type {
	case TypeInt:
		return fmt.Sprintf("%d", arg.I32), nil
	case TypeUint:
		return fmt.Sprintf("%d", arg.U32), nil
	case TypeHex:
		return fmt.Sprintf("0x%X", arg.U32), nil
	case TypeStr:
		return truncate(arg.Str, MaxStrLen-1), nil
	case TypeFloat:
		return fmt.Sprintf("%f", arg.F32), nil
	default:
		fault.Invariant(false, fault.UnknownType)
	}
	return "", fault.UnknownType
}

// Init applies the table defaults through the module callbacks (bootup
// semantics, nothing persisted), brings up the flash backend and replays
// the stored values.
func Init() {
	for _, s := range list {
		if s == nil || s.Permission == PermGet {
			continue
		}
		_ = setText(s.ID, s.Default, true, false)
	}

	backendInit()
	LoadSettings()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
