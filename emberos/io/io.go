// Package io is the typed abstraction over every input and output the
// firmware exposes: GPIO pins, ADC channels, PWM outputs, UARTs and SPI
// ports. Each element carries a runtime element-type tag that is checked at
// every typed access; commands convert between text and binary at this
// boundary.
package io

import (
	"fmt"
)

// Family is the device family of an IO element.
type Family uint8

const (
	FamilyGPIO Family = iota
	FamilyADC
	FamilyPWM
	FamilyUART
	FamilySPI
)

func (f Family) String() string {
	switch f {
	case FamilyGPIO:
		return "GPIO"
	case FamilyADC:
		return "ADC"
	case FamilyPWM:
		return "PWM"
	case FamilyUART:
		return "UART"
	case FamilySPI:
		return "SPI"
	}
	return "?"
}

// ID identifies an IO element. IDs are a dense enumeration over the IO
// universe; InvalidID is reserved for failed numeric parses.
type ID uint32

const InvalidID ID = 0

// Direction records which capabilities an element was initialised with.
type Direction uint8

const (
	DirNone Direction = iota
	DirInput
	DirOutput
	DirInputOutput
)

// Elem is the runtime type tag of the value an element carries.
type Elem uint8

const (
	ElemNone Elem = iota
	ElemBool
	ElemU32
	ElemI32
	ElemText
	ElemF32
)

// Word carries one element value across the device boundary. Exactly one
// field is meaningful, selected by Elem.
type Word struct {
	Elem Elem
	Bool bool
	U32  uint32
	I32  int32
	Text string
	F32  float32
}

func BoolWord(v bool) Word   { return Word{Elem: ElemBool, Bool: v} }
func U32Word(v uint32) Word  { return Word{Elem: ElemU32, U32: v} }
func I32Word(v int32) Word   { return Word{Elem: ElemI32, I32: v} }
func TextWord(v string) Word { return Word{Elem: ElemText, Text: v} }
func F32Word(v float32) Word { return Word{Elem: ElemF32, F32: v} }

func (w Word) format() string {
	switch w.Elem {
	case ElemBool:
		if w.Bool {
			return "1"
		}
		return "0"
	case ElemU32:
		return fmt.Sprintf("%d", w.U32)
	case ElemI32:
		return fmt.Sprintf("%d", w.I32)
	case ElemText:
		return w.Text
	case ElemF32:
		return fmt.Sprintf("%f", w.F32)
	}
	return ""
}

// IO is the common state every element embeds.
type IO struct {
	Type      Family
	ID        ID
	Name      string
	Direction Direction
	// PrintIO mirrors traffic through the element onto the console.
	PrintIO bool
	Parent  *IO

	inElem  Elem
	outElem Elem

	reentryGuard bool
}

// Base returns the element's common state.
func (b *IO) Base() *IO { return b }

// guardInit returns true when Init already ran; the first call arms the
// guard.
func (b *IO) guardInit() bool {
	if b.reentryGuard {
		return true
	}
	b.reentryGuard = true
	return false
}

// initInputInfo records the input element tag and fuses the direction.
func (b *IO) initInputInfo(e Elem, f Family) {
	b.inElem = e
	b.Type = f

	if b.Direction == DirOutput {
		b.Direction = DirInputOutput
	} else if b.Direction != DirInputOutput {
		b.Direction = DirInput
	}

	b.PrintIO = false
}

// initOutputInfo records the output element tag and fuses the direction.
func (b *IO) initOutputInfo(e Elem, f Family) {
	b.outElem = e
	b.Type = f

	if b.Direction == DirInput {
		b.Direction = DirInputOutput
	} else if b.Direction != DirInputOutput {
		b.Direction = DirOutput
	}

	b.PrintIO = false
}

// CmdInput is the fallback renderer for element types the io-get command
// does not recognise. Elements override it to stay reachable from the CLI.
func (b *IO) CmdInput() string {
	return "Unrecognized Input Type\r\n"
}

// CmdOutput is the fallback writer for element types the io-set command
// does not recognise.
func (b *IO) CmdOutput(args []string) string {
	return "Unrecognized Output Type\r\n"
}

// print emits the IO traffic line for elements with PrintIO set.
func (b *IO) print(data string, dir Direction) {
	if dir == DirInput {
		fmt.Printf("Received Data. IO: %s, Name: %s, ID: %d, Data: %s\r\n",
			b.Type, b.Name, uint32(b.ID), data)
	} else if dir == DirOutput {
		fmt.Printf("Sent Data. IO: %s, Name: %s, ID: %d, Data: %s\r\n",
			b.Type, b.Name, uint32(b.ID), data)
	}
}

// Input is the capability of elements that produce values.
type Input interface {
	Base() *IO
	Produce() Word
	CmdInput() string
}

// Output is the capability of elements that consume values.
type Output interface {
	Base() *IO
	Consume(Word)
	CmdOutput(args []string) string
}

type initable interface {
	Init()
}
