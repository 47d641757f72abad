package io

import (
	"ember/emberos/fault"
)

// ADCChannel reads one converter channel as volts:
// Vref × raw / (2^bits − 1), scaled by the adc-scale setting.
type ADCChannel struct {
	IO
	Port uint32
	Pin  uint32
}

var adcOpened bool

func (a *ADCChannel) Produce() Word {
	adc := sys.ADC()
	adc.StartConversion()
	raw := adc.Read(a.Port, a.Pin)
	return F32Word(a.Volts(raw))
}

// Volts converts a raw count to scaled volts.
func (a *ADCChannel) Volts(raw uint32) float32 {
	adc := sys.ADC()
	bits := adc.BitWidth(a.Port, a.Pin)
	full := float32(uint32(1)<<bits - 1)
	return adc.RefVolts() * float32(raw) / full * adcScale()
}

func (a *ADCChannel) Init() {
	if a.guardInit() {
		return
	}
	a.initInputInfo(ElemF32, FamilyADC)

	if !adcOpened {
		err := sys.ADC().Open()
		fault.Ensure(err == nil, fault.DeviceInitFailed)
		adcOpened = true
	}
}

// TempChannel is the on-die temperature sensor behind the converter. The
// reading is degrees Celsius with the temp-offset setting applied.
type TempChannel struct {
	ADCChannel
}

func (t *TempChannel) Produce() Word {
	adc := sys.ADC()
	adc.StartConversion()
	raw := adc.Read(t.Port, t.Pin)
	volts := t.Volts(raw)

	// RP2 sensor characteristic: 27 °C at 0.706 V, −1.721 mV/°C.
	degC := 27.0 - (volts-0.706)/0.001721
	return F32Word(degC + float32(tempOffset()))
}
