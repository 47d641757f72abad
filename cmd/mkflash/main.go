//go:build !tinygo

// mkflash builds a host flash image preloaded with settings records, in the
// same log format the firmware writes. Useful for bench setups that need a
// device to boot with known configuration.
//
// The input is a YAML map of setting id to text value:
//
//	settings:
//	  1: "bench-007"
//	  3: "-3"
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"ember/x/mathx"
)

const (
	defaultFlashPath = "ember.flash"
	defaultFlashSize = 8 * 1024

	eraseSize  = 4096
	writeGran  = 4
	headerSize = 16

	maxSettingSize = 128
)

type imageSpec struct {
	Settings map[uint32]string `yaml:"settings"`
}

func main() {
	var in, out string
	var size uint
	flag.StringVar(&in, "in", "", "YAML settings spec (required).")
	flag.StringVar(&out, "out", defaultFlashPath, "Output image path.")
	flag.UintVar(&size, "size", defaultFlashSize, "Image size in bytes.")
	flag.Parse()

	if in == "" {
		fatal(fmt.Errorf("missing -in"))
	}
	if size == 0 || size%eraseSize != 0 {
		fatal(fmt.Errorf("size %d not a multiple of erase size %d", size, eraseSize))
	}

	raw, err := os.ReadFile(in)
	if err != nil {
		fatal(err)
	}
	var spec imageSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		fatal(fmt.Errorf("parse %s: %w", in, err))
	}

	img := make([]byte, size)
	for i := range img {
		img[i] = 0xFF
	}

	// Deterministic record order.
	ids := make([]uint32, 0, len(spec.Settings))
	for id := range spec.Settings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	addr := uint32(0)
	for _, id := range ids {
		value := spec.Settings[id]
		if len(value) >= maxSettingSize {
			fatal(fmt.Errorf("setting %d: value must be shorter than %d bytes", id, maxSettingSize))
		}

		next := mathx.AlignUp(addr+headerSize+uint32(len(value)), writeGran)
		if next > eraseSize {
			fatal(fmt.Errorf("settings do not fit in one sector"))
		}

		binary.LittleEndian.PutUint32(img[addr:], id)
		binary.LittleEndian.PutUint32(img[addr+4:], uint32(len(value)))
		binary.LittleEndian.PutUint32(img[addr+8:], 0xFFFFFFFF)
		binary.LittleEndian.PutUint32(img[addr+12:], 0xFFFFFFFF)
		copy(img[addr+headerSize:], value)

		addr = next
	}

	if err := os.WriteFile(out, img, 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s: %d settings, %d bytes used of %d\n", out, len(ids), addr, size)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "mkflash:", err)
	os.Exit(1)
}
