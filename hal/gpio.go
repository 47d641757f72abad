package hal

import "sync"

type nullGPIO struct{}

func (nullGPIO) Read(port, pin uint32) bool                       { return false }
func (nullGPIO) Set(port, pin uint32, active ActiveState) error   { return nil }
func (nullGPIO) Reset(port, pin uint32, active ActiveState) error { return nil }

// VirtualGPIO is the host pin matrix. Tests and the simulator drive input
// levels with SetLevel and observe outputs with Level.
type VirtualGPIO struct {
	mu     sync.Mutex
	levels map[[2]uint32]bool
}

func NewVirtualGPIO() *VirtualGPIO {
	return &VirtualGPIO{levels: make(map[[2]uint32]bool)}
}

func (g *VirtualGPIO) Read(port, pin uint32) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[[2]uint32{port, pin}]
}

func (g *VirtualGPIO) Set(port, pin uint32, active ActiveState) error {
	g.write(port, pin, active == ActiveHigh)
	return nil
}

func (g *VirtualGPIO) Reset(port, pin uint32, active ActiveState) error {
	g.write(port, pin, active != ActiveHigh)
	return nil
}

// SetLevel drives an input level from the outside world.
func (g *VirtualGPIO) SetLevel(port, pin uint32, level bool) {
	g.write(port, pin, level)
}

// Level observes the last driven level.
func (g *VirtualGPIO) Level(port, pin uint32) bool {
	return g.Read(port, pin)
}

func (g *VirtualGPIO) write(port, pin uint32, level bool) {
	g.mu.Lock()
	g.levels[[2]uint32{port, pin}] = level
	g.mu.Unlock()
}
