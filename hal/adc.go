package hal

import "sync"

const (
	virtualADCBits = 12
	virtualADCRef  = 3.3
)

type nullADC struct{}

func (nullADC) Open() error                      { return nil }
func (nullADC) Read(port, pin uint32) uint32     { return 0 }
func (nullADC) BitWidth(port, pin uint32) uint32 { return virtualADCBits }
func (nullADC) RefVolts() float32                { return virtualADCRef }
func (nullADC) StartConversion()                 {}

// VirtualADC is the host converter. Tests load raw counts per channel.
type VirtualADC struct {
	mu  sync.Mutex
	raw map[[2]uint32]uint32
}

func NewVirtualADC() *VirtualADC {
	return &VirtualADC{raw: make(map[[2]uint32]uint32)}
}

func (a *VirtualADC) Open() error { return nil }

func (a *VirtualADC) Read(port, pin uint32) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.raw[[2]uint32{port, pin}]
}

func (a *VirtualADC) BitWidth(port, pin uint32) uint32 { return virtualADCBits }
func (a *VirtualADC) RefVolts() float32                { return virtualADCRef }
func (a *VirtualADC) StartConversion()                 {}

// SetRaw loads the raw count the next conversion returns.
func (a *VirtualADC) SetRaw(port, pin uint32, raw uint32) {
	a.mu.Lock()
	a.raw[[2]uint32{port, pin}] = raw
	a.mu.Unlock()
}
