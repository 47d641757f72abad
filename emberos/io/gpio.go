package io

import "ember/hal"

// GPIOPin binds one digital pin into the IO universe. A pin registered in
// both lists serves as input and output with a fused direction.
type GPIOPin struct {
	IO
	Port   uint32
	Pin    uint32
	Active hal.ActiveState

	AsInput  bool
	AsOutput bool
}

func (g *GPIOPin) Produce() Word {
	return BoolWord(sys.GPIO().Read(g.Port, g.Pin))
}

func (g *GPIOPin) Consume(w Word) {
	if w.Bool {
		_ = sys.GPIO().Set(g.Port, g.Pin, g.Active)
	} else {
		_ = sys.GPIO().Reset(g.Port, g.Pin, g.Active)
	}
}

func (g *GPIOPin) Init() {
	if g.guardInit() {
		return
	}
	if g.AsInput {
		g.initInputInfo(ElemBool, FamilyGPIO)
	}
	if g.AsOutput {
		g.initOutputInfo(ElemBool, FamilyGPIO)
	}
}
