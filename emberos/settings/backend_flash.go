package settings

import (
	"encoding/binary"
	"fmt"

	"ember/emberos/fault"
	"ember/hal"
)

// On-flash record layout, little-endian, followed by the text payload and
// 0xFF padding up to the device write granularity:
//
//	offset  field     size
//	0       id        4
//	4       size      4
//	8       deleted   4  (0xFFFFFFFF live, 0x00000000 tombstoned)
//	12      reserved  4  (0xFFFFFFFF on fresh write)
//
// A header still in the unprogrammed state marks end-of-used-space.
const (
	// MaxSettingSize bounds one record's payload.
	MaxSettingSize = 128

	numSectors     = 2
	startingOffset = 0
	unsetFlash     = 0xFFFFFFFF
	headerSize     = 16

	addrNone = 0xFFFFFFFF
)

type flashHeader struct {
	id       uint32
	size     uint32
	deleted  uint32
	reserved uint32
}

var (
	flashDev hal.Flash

	currSectorAddr uint32

	failSector    uint32
	failSectorSet bool
)

// ConfigureBackend binds the backend to its flash region.
func ConfigureBackend(f hal.Flash) {
	flashDev = f
	currSectorAddr = startingOffset
	failSectorSet = false
}

func sectorSize() uint32 { return flashDev.SectorSize() }

func empty(item uint32) bool { return item == unsetFlash }

// sectorEnd returns the ending offset for the sector containing start.
// Sector sizes are powers of two.
func sectorEnd(start uint32) uint32 {
	return (start + sectorSize()) &^ (sectorSize() - 1)
}

// increment returns the address after the entry at addr.
func increment(addr uint32, h flashHeader) uint32 {
	return flashDev.Align(addr + headerSize + h.size)
}

func readHeader(addr uint32) flashHeader {
	var buf [headerSize]byte
	_ = flashDev.Read(addr, buf[:])
	return flashHeader{
		id:       binary.LittleEndian.Uint32(buf[0:4]),
		size:     binary.LittleEndian.Uint32(buf[4:8]),
		deleted:  binary.LittleEndian.Uint32(buf[8:12]),
		reserved: binary.LittleEndian.Uint32(buf[12:16]),
	}
}

func writeHeader(addr uint32, h flashHeader) error {
	var buf [headerSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.id)
	binary.LittleEndian.PutUint32(buf[4:8], h.size)
	binary.LittleEndian.PutUint32(buf[8:12], h.deleted)
	binary.LittleEndian.PutUint32(buf[12:16], h.reserved)
	return flashDev.Write(addr, buf[:])
}

// nextEntry finds the next live entry at or after startingAddr within its
// sector, or addrNone.
func nextEntry(startingAddr uint32) uint32 {
	h := flashHeader{reserved: unsetFlash}
	for i := startingAddr; i < sectorEnd(startingAddr); i = increment(i, h) {
		h = readHeader(i)
		if empty(h.id) {
			break // reached end of settings
		}
		if empty(h.deleted) {
			return i
		}
	}
	return addrNone
}

// nextEmptyAddr finds the next unprogrammed slot at or after startingAddr
// within its sector, or addrNone.
func nextEmptyAddr(startingAddr uint32) uint32 {
	h := flashHeader{reserved: unsetFlash}
	for i := startingAddr; i < sectorEnd(startingAddr); i = increment(i, h) {
		h = readHeader(i)
		if empty(h.id) {
			return i
		}
	}
	return addrNone
}

// nextSector erases the next sector in rotation, copies every live record
// across, tombstones the sources and moves the active-sector pointer. Erase
// failures rotate onward; a full cycle of failures gives up with a console
// diagnostic.
func nextSector() {
	currSector := currSectorAddr / sectorSize()
	oldSectorAddr := currSectorAddr

	currSector++
	if currSector < numSectors {
		currSectorAddr = currSector * sectorSize()
	} else {
		currSectorAddr = startingOffset
	}

	if !failSectorSet {
		failSectorSet = true
		failSector = currSector // sector being tried first
	}

	for flashDev.Erase(currSectorAddr) != nil {
		currSector++

		if currSector == failSector {
			fmt.Printf("Flash Erase/Write Error: All sectors failed\r\n")
			return
		}

		if currSector < numSectors {
			currSectorAddr = currSector * sectorSize()
		} else {
			currSector = 0
			currSectorAddr = startingOffset
		}
	}

	ptr := currSectorAddr
	h := flashHeader{reserved: unsetFlash}
	for i := nextEntry(oldSectorAddr); i != addrNone; i = nextEntry(increment(i, h)) {
		h = readHeader(i)

		var buf [MaxSettingSize]byte
		_ = flashDev.Read(i+headerSize, buf[:h.size])

		if writeHeader(ptr, h) != nil {
			nextSector()
			return
		}
		if flashDev.Write(ptr+headerSize, buf[:h.size]) != nil {
			nextSector()
			return
		}
		ptr = flashDev.Align(ptr + headerSize + h.size)

		h.deleted = 0
		if writeHeader(i, h) != nil {
			nextSector()
			return
		}
	}

	failSectorSet = false
}

// SaveSetting appends the value as the latest record for id, tombstoning
// any predecessors. A failed tombstone write rotates sectors and restarts
// the whole save; a failed header or payload write rotates sectors without
// rewriting the record, and the call still returns nil.
func SaveSetting(id ID, value string) error {
	fault.Require(id < NumSettings, fault.InvalidID)
	fault.Require(len(value) < MaxSettingSize, fault.InvalidLength)

	nextAddr := nextEmptyAddr(currSectorAddr)
	nextNextAddr := nextAddr + headerSize + uint32(len(value))

	noEmptyAddrs := nextAddr == addrNone
	pastSectorBounds := nextNextAddr > currSectorAddr+sectorSize()
	if noEmptyAddrs || pastSectorBounds {
		nextSector() // sector full, consolidate to next sector
		nextAddr = nextEmptyAddr(currSectorAddr)
		if nextAddr == addrNone {
			return fault.WriteFailed
		}
	}

	// Delete any existing settings with the same ID.
	h := flashHeader{reserved: unsetFlash}
	for i := nextEntry(currSectorAddr); i != addrNone; i = nextEntry(increment(i, h)) {
		h = readHeader(i)

		if h.id == uint32(id) {
			h.deleted = 0
			if writeHeader(i, h) != nil {
				nextSector()
				return SaveSetting(id, value)
			}
		}
	}

	var buf [MaxSettingSize]byte
	for i := range buf {
		buf[i] = 0xFF
	}
	copy(buf[:], value)

	h = flashHeader{
		id:       uint32(id),
		size:     uint32(len(value)),
		deleted:  unsetFlash,
		reserved: unsetFlash,
	}

	if writeHeader(nextAddr, h) != nil {
		nextSector()
	}

	// Pad the payload with 0xFF out to the write granularity.
	n := flashDev.Align(headerSize+h.size) - headerSize
	if flashDev.Write(nextAddr+headerSize, buf[:n]) != nil {
		nextSector()
	}

	return nil
}

// LoadSettings replays every live record from the active sector through the
// front-end. The replay must not save, or it would overwrite the entries it
// is reading.
func LoadSettings() error {
	h := flashHeader{reserved: unsetFlash}
	for i := nextEntry(currSectorAddr); i != addrNone; i = nextEntry(increment(i, h)) {
		h = readHeader(i)

		fault.Invariant(h.size < MaxSettingSize, fault.ReadFailed)

		var buf [MaxSettingSize]byte
		_ = flashDev.Read(i+headerSize, buf[:h.size])

		Set(ID(h.id), string(buf[:h.size]), false)
	}

	return nil
}

// backendInit picks the active sector: the first one where scanning finds
// either a live record or an empty slot, defaulting to sector zero.
func backendInit() {
	currSectorAddr = 0 // default when flash holds no entries

	flashSize := sectorSize() * numSectors
	for i := uint32(startingOffset); i < flashSize; i = sectorEnd(i) {
		if nextEntry(i) != addrNone || nextEmptyAddr(i) != addrNone {
			currSectorAddr = i
			break
		}
	}
}

// CurrSector exposes the active sector base for diagnostics and tests.
func CurrSector() uint32 { return currSectorAddr }
