package io

// SPIPort sends text frames over the auxiliary SPI bus.
type SPIPort struct {
	IO
}

func (s *SPIPort) Consume(w Word) {
	if sys.SPI() == nil {
		return
	}
	_ = sys.SPI().Tx([]byte(w.Text), nil)
}

func (s *SPIPort) Init() {
	if s.guardInit() {
		return
	}
	s.initOutputInfo(ElemText, FamilySPI)
}
