package kernel

import (
	"sync"

	"ember/emberos/fault"
)

// MutexID names one of the fixed kernel mutexes. The set is known at build
// time; takes block with unbounded timeout.
type MutexID uint8

const (
	MutexEventHandle MutexID = iota
	MutexPeriodic
	MutexSettings

	numMutexes
)

var mutexes [numMutexes]sync.Mutex

// MutexTake blocks until the mutex is held.
func MutexTake(id MutexID) error {
	if id >= numMutexes {
		return fault.InvalidID
	}
	mutexes[id].Lock()
	return nil
}

// MutexGive releases the mutex.
func MutexGive(id MutexID) error {
	if id >= numMutexes {
		return fault.InvalidID
	}
	mutexes[id].Unlock()
	return nil
}
