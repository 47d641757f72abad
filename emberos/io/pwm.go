package io

// PWMOut drives one duty-cycle channel. Duty is in device counts.
type PWMOut struct {
	IO
	Port uint32
	Pin  uint32
}

func (p *PWMOut) Consume(w Word) {
	_ = sys.PWM().SetDuty(p.Port, p.Pin, w.U32)
}

func (p *PWMOut) Init() {
	if p.guardInit() {
		return
	}
	p.initOutputInfo(ElemU32, FamilyPWM)
}
