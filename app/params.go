package app

import (
	"sync"

	"ember/emberos/fault"
	"ember/emberos/settings"
	"ember/internal/buildinfo"
)

// Module get/set callbacks for the settings the app layer owns.

var (
	deviceNameMu sync.Mutex
	deviceName   string
)

// DeviceName returns the configured device name.
func DeviceName() string {
	deviceNameMu.Lock()
	defer deviceNameMu.Unlock()
	return deviceName
}

func appGetParam(id settings.ID) (settings.Arg, error) {
	if id != settings.DeviceName {
		return settings.Arg{}, fault.UnknownType
	}
	return settings.Arg{Str: DeviceName()}, nil
}

func appSetParam(id settings.ID, v settings.Arg, bootup bool) error {
	if id != settings.DeviceName {
		return fault.UnknownType
	}
	deviceNameMu.Lock()
	deviceName = v.Str
	deviceNameMu.Unlock()
	return nil
}

// The error-handler policy is a plain numeric setting over the fault
// package's process-wide state.

func faultGetParam(id settings.ID) (settings.Arg, error) {
	if id != settings.ErrorHandler {
		return settings.Arg{}, fault.UnknownType
	}
	return settings.Arg{U32: uint32(fault.CurrentPolicy())}, nil
}

func faultSetParam(id settings.ID, v settings.Arg, bootup bool) error {
	if id != settings.ErrorHandler {
		return fault.UnknownType
	}
	fault.SetPolicy(fault.Policy(v.U32))
	return nil
}

// Version is read-only; the permission rejects writes before the callback.

func versionGetParam(id settings.ID) (settings.Arg, error) {
	if id != settings.Version {
		return settings.Arg{}, fault.UnknownType
	}
	return settings.Arg{Str: buildinfo.Short()}, nil
}

func versionSetParam(id settings.ID, v settings.Arg, bootup bool) error {
	return fault.WriteFailed
}
