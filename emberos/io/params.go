package io

import (
	"sync/atomic"

	"ember/emberos/fault"
	"ember/emberos/settings"
)

// Settings owned by the IO layer: temp-offset trims the temperature
// reading, adc-scale corrects the converter's full-scale error.

var (
	tempOffsetVal atomic.Int32
	adcScaleBits  atomic.Uint32
)

func init() {
	adcScaleBits.Store(f32bits(1.0))
}

func tempOffset() int32 { return tempOffsetVal.Load() }
func adcScale() float32 { return f32frombits(adcScaleBits.Load()) }

// GetParam serves the IO layer's settings.
func GetParam(id settings.ID) (settings.Arg, error) {
	switch id {
	case settings.TempOffset:
		return settings.Arg{I32: tempOffset()}, nil
	case settings.AdcScale:
		return settings.Arg{F32: adcScale()}, nil
	}
	return settings.Arg{}, fault.UnknownType
}

// SetParam applies the IO layer's settings.
func SetParam(id settings.ID, v settings.Arg, bootup bool) error {
	switch id {
	case settings.TempOffset:
		tempOffsetVal.Store(v.I32)
	case settings.AdcScale:
		adcScaleBits.Store(f32bits(v.F32))
	default:
		return fault.UnknownType
	}
	return nil
}
