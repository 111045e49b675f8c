// Package monitor drives the 5-byte debug command window watched by an
// external simulator or monitor process. A command is issued by
// writing the payload bytes first and the opcode byte last, so a
// watcher triggered by the opcode write always observes a complete
// command. Multi-byte payloads are little-endian.
//
// The window is a pure output sink. On a hosted build there is no
// hardware watcher, so a tap function can be installed to play that
// role; see SetTap and Decode.
package monitor

import (
	"fmt"
	"os"

	"github.com/fmstephe/flib/funsafe"
)

const (
	opPrintU16Hex = 0x01
	opPrintU16    = 0x03
	opPrintU32Hex = 0x04
	opPrintU32    = 0x05
	opPrintRAMStr = 0x06
	opPrintI16    = 0x08
	opPrintI32    = 0x09
	opPrintStatus = 0x0C
	opPrintSP     = 0x0D
	opPrintRegs   = 0x0E
	opPrintROMStr = 0x0F
	opPrintPC     = 0x12
)

// The command window. Byte 0 is the opcode, bytes 1..4 the payload.
var window [5]byte

// Byte images backing the two string commands. A RAM string command
// carries a 16-bit offset into ram; a ROM string command carries a
// 32-bit offset into rom. Strings are stored NUL-terminated, as the
// watcher reads them.
var (
	ram []byte
	rom []byte
)

var tap func(op byte, payload [4]byte)

// Installs fn as the watcher called after every opcode write. Pass nil
// to remove the watcher. Returns the previously installed tap.
func SetTap(fn func(op byte, payload [4]byte)) func(op byte, payload [4]byte) {
	old := tap
	tap = fn
	return old
}

// Clears the window and both string images. Test helper.
func Reset() {
	window = [5]byte{}
	ram = ram[:0]
	rom = rom[:0]
}

// All window stores go through here. The indirection keeps the stores
// in program order and observable, standing in for the volatile writes
// the hardware build uses.
//
//go:noinline
func volatileStore(p *byte, v byte) {
	*p = v
}

func signal(op byte) {
	volatileStore(&window[0], op)
	if tap != nil {
		tap(op, [4]byte{window[1], window[2], window[3], window[4]})
	}
}

func signal16(op byte, payload uint16) {
	volatileStore(&window[1], byte(payload))
	volatileStore(&window[2], byte(payload>>8))
	signal(op)
}

func signal32(op byte, payload uint32) {
	volatileStore(&window[1], byte(payload))
	volatileStore(&window[2], byte(payload>>8))
	volatileStore(&window[3], byte(payload>>16))
	volatileStore(&window[4], byte(payload>>24))
	signal(op)
}

// Prints a 16 bit unsigned int as hex.
func PrintU16Hex(val uint16) {
	signal16(opPrintU16Hex, val)
}

// Prints a 16 bit unsigned int.
func PrintU16(val uint16) {
	signal16(opPrintU16, val)
}

// Prints a 16 bit signed int.
func PrintI16(val int16) {
	signal16(opPrintI16, uint16(val))
}

// Prints a 32 bit unsigned int as hex.
func PrintU32Hex(val uint32) {
	signal32(opPrintU32Hex, val)
}

// Prints a 32 bit unsigned int.
func PrintU32(val uint32) {
	signal32(opPrintU32, val)
}

// Prints a 32 bit signed int.
func PrintI32(val int32) {
	signal32(opPrintI32, uint32(val))
}

// Prints a string from RAM. The command payload is the 16-bit offset
// of the NUL-terminated bytes in the ram image.
func PrintStr(s string) {
	if len(ram)+len(s)+1 > 0xFFFF {
		ram = ram[:0]
	}
	addr := uint16(len(ram))
	ram = append(ram, funsafe.StringToBytes(s)...)
	ram = append(ram, 0)
	signal16(opPrintRAMStr, addr)
}

// Prints a string from read-only memory. The command payload is the
// 32-bit offset of the NUL-terminated bytes in the rom image.
func PrintROMStr(s string) {
	addr := uint32(len(rom))
	rom = append(rom, funsafe.StringToBytes(s)...)
	rom = append(rom, 0)
	signal32(opPrintROMStr, addr)
}

// Prints the contents of status register #1.
func PrintStatusReg() {
	signal(opPrintStatus)
}

// Prints the contents of the stack pointer.
func PrintSP() {
	signal(opPrintSP)
}

// Prints the program counter.
func PrintPC() {
	signal(opPrintPC)
}

// Prints the contents of all general purpose registers.
func PrintAllRegs() {
	signal(opPrintRegs)
}

// Halts the device. On a hosted build the process exits instead of
// spinning.
func Exit(code int) {
	os.Exit(code)
}

// Emits the failure tag over the channel, then halts.
func Fatal(msg string) {
	PrintStr(msg)
	Exit(1)
}

// Renders a command the way the external monitor would, reporting
// whether the opcode is known. Used by hosted watchers and tests.
func Decode(op byte, payload [4]byte) (string, bool) {
	u16 := uint16(payload[0]) | uint16(payload[1])<<8
	u32 := uint32(payload[0]) | uint32(payload[1])<<8 | uint32(payload[2])<<16 | uint32(payload[3])<<24

	switch op {
	case opPrintU16Hex:
		return fmt.Sprintf("0x%04X", u16), true
	case opPrintU16:
		return fmt.Sprintf("%d", u16), true
	case opPrintI16:
		return fmt.Sprintf("%d", int16(u16)), true
	case opPrintU32Hex:
		return fmt.Sprintf("0x%08X", u32), true
	case opPrintU32:
		return fmt.Sprintf("%d", u32), true
	case opPrintI32:
		return fmt.Sprintf("%d", int32(u32)), true
	case opPrintRAMStr:
		return stringAt(ram, int(u16)), true
	case opPrintROMStr:
		return stringAt(rom, int(u32)), true
	case opPrintStatus:
		return "<status register #1>", true
	case opPrintSP:
		return "<stack pointer>", true
	case opPrintPC:
		return "<program counter>", true
	case opPrintRegs:
		return "<r0..r31>", true
	}
	return "", false
}

func stringAt(image []byte, addr int) string {
	if addr >= len(image) {
		return ""
	}
	end := addr
	for end < len(image) && image[end] != 0 {
		end++
	}
	return string(image[addr:end])
}

// A ready-made watcher that renders every command to stderr, one per
// line. Install with SetTap from hosted binaries.
func StderrTap(op byte, payload [4]byte) {
	if text, ok := Decode(op, payload); ok {
		fmt.Fprintln(os.Stderr, text)
	}
}
