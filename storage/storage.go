// Package storage is the read side of the board's persistent flash.
package storage

import "ledfw-go/errcode"

// Reader reads len(buf) bytes at offset. Offsets are relative to the start of
// the flash data region, past the program image (machine.Flash on RP2);
// callers own the layout.
type Reader interface {
	Read(offset uint32, buf []byte) error
}

// Mem is a Reader over a byte slice. Unwritten flash reads as 0xFF.
type Mem struct {
	Data []byte
	// Err, when set, is returned by every Read.
	Err error
}

// NewErased returns size bytes of erased flash.
func NewErased(size int) *Mem {
	m := &Mem{Data: make([]byte, size)}
	for i := range m.Data {
		m.Data[i] = 0xFF
	}
	return m
}

func (m *Mem) Read(offset uint32, buf []byte) error {
	if m.Err != nil {
		return m.Err
	}
	end := uint64(offset) + uint64(len(buf))
	if end > uint64(len(m.Data)) {
		return &errcode.E{C: errcode.InvalidParams, Op: "storage.read", Msg: "out of range"}
	}
	copy(buf, m.Data[offset:end])
	return nil
}

// Write stores b at offset, growing Data as needed. Host-side only: the
// firmware never writes flash.
func (m *Mem) Write(offset uint32, b []byte) {
	end := int(offset) + len(b)
	for len(m.Data) < end {
		m.Data = append(m.Data, 0xFF)
	}
	copy(m.Data[offset:], b)
}
