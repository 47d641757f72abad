package hal

import (
	"io"
	"sync"
)

type nullUART struct{}

func (nullUART) Open(handle uint32) error           { return nil }
func (nullUART) Send(handle uint32, s string) error { return nil }

// WriterUART sends all handles to one io.Writer. The host console uses
// stdout; tests use a capture buffer.
type WriterUART struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterUART(w io.Writer) *WriterUART { return &WriterUART{w: w} }

func (u *WriterUART) Open(handle uint32) error { return nil }

func (u *WriterUART) Send(handle uint32, s string) error {
	if u.w == nil {
		return nil
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, err := io.WriteString(u.w, s); err != nil {
		return err
	}
	return nil
}
