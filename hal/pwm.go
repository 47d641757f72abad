package hal

import "sync"

type nullPWM struct{}

func (nullPWM) SetDuty(port, pin, duty uint32) error { return nil }

// VirtualPWM records the last duty written per channel.
type VirtualPWM struct {
	mu   sync.Mutex
	duty map[[2]uint32]uint32
}

func NewVirtualPWM() *VirtualPWM {
	return &VirtualPWM{duty: make(map[[2]uint32]uint32)}
}

func (p *VirtualPWM) SetDuty(port, pin, duty uint32) error {
	p.mu.Lock()
	p.duty[[2]uint32{port, pin}] = duty
	p.mu.Unlock()
	return nil
}

// Duty observes the last duty written.
func (p *VirtualPWM) Duty(port, pin uint32) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duty[[2]uint32{port, pin}]
}
