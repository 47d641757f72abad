package io

import (
	"ember/emberos/fault"
	"ember/hal"
)

var (
	sys hal.HAL

	inputs  []Input
	outputs []Output

	numIDs ID
)

// Configure binds the registry to the platform HAL and installs the
// build-time input and output lists.
func Configure(h hal.HAL, in []Input, out []Output) {
	sys = h
	inputs = in
	outputs = out

	numIDs = InvalidID
	for _, e := range in {
		if e.Base().ID > numIDs {
			numIDs = e.Base().ID
		}
	}
	for _, e := range out {
		if e.Base().ID > numIDs {
			numIDs = e.Base().ID
		}
	}
	numIDs++
}

// HAL returns the platform the registry was configured with.
func HAL() hal.HAL { return sys }

// NumIDs returns one past the highest registered ID.
func NumIDs() ID { return numIDs }

// Open initialises both element lists. Each element's Init runs exactly
// once; elements registered as input and output fuse their direction.
func Open() {
	fault.Require(sys != nil, fault.InitFailed)

	for _, e := range inputs {
		if d, ok := e.(initable); ok {
			d.Init()
		}
	}
	for _, e := range outputs {
		if d, ok := e.(initable); ok {
			d.Init()
		}
	}
}

// InputByID finds an input element, or nil.
func InputByID(id ID) Input {
	for _, e := range inputs {
		if e.Base().ID == id {
			return e
		}
	}
	return nil
}

// InputByName finds an input element by name, or nil.
func InputByName(name string) Input {
	for _, e := range inputs {
		if e.Base().Name == name {
			return e
		}
	}
	return nil
}

// OutputByID finds an output element, or nil.
func OutputByID(id ID) Output {
	for _, e := range outputs {
		if e.Base().ID == id {
			return e
		}
	}
	return nil
}

// OutputByName finds an output element by name, or nil.
func OutputByName(name string) Output {
	for _, e := range outputs {
		if e.Base().Name == name {
			return e
		}
	}
	return nil
}

// ByID finds any element, outputs first.
func ByID(id ID) *IO {
	if e := OutputByID(id); e != nil {
		return e.Base()
	}
	if e := InputByID(id); e != nil {
		return e.Base()
	}
	return nil
}

// ByName finds any element by name, outputs first.
func ByName(name string) *IO {
	if e := OutputByName(name); e != nil {
		return e.Base()
	}
	if e := InputByName(name); e != nil {
		return e.Base()
	}
	return nil
}

// GetType returns the element's family tag.
func GetType(id ID) Family {
	fault.Require(id != InvalidID && id < numIDs, fault.InvalidID)
	b := ByID(id)
	fault.Require(b != nil, fault.InvalidID)
	return b.Type
}
