//go:build baremetal && amd64

// Package main is the freestanding kernel entry. It is linked by a
// toolchain that supplies the multiboot header and rt0; main runs once the
// CPU is in long mode with the text buffer identity-mapped.
package main

import (
	"github.com/dshills/vgashell/internal/hw/pc"
	"github.com/dshills/vgashell/internal/kernel"
)

func main() {
	m := pc.New()
	// The 8042 keyboard never fails, so Main only returns if a reset
	// somehow falls through.
	_ = kernel.Main(m, kernel.WithDelayer(pc.Delayer()))
	m.Reset()
}
