package provision

import (
	"encoding/binary"
	"math"
	"time"

	"ledfw-go/errcode"
	"ledfw-go/types"
	"ledfw-go/x/mathx"
)

// Record layout (16 bytes, little endian):
//
//	0..3   magic "LEDC"
//	4      version (1)
//	5      brightness
//	6      saturation
//	7      value
//	8..9   animator interval, ms
//	10..11 heartbeat interval, s
//	12..14 reserved
//	15     XOR of bytes 0..14
const (
	RecordSize    = 16
	RecordVersion = 1

	// RecordOffset is where the record lives, relative to the start of the
	// flash data region.
	RecordOffset = 0x9000
)

var recordMagic = [4]byte{'L', 'E', 'D', 'C'}

const opDecode = "provision.decode"

// Decode parses a record. Zero intervals fall back to the defaults.
func Decode(b []byte) (types.Config, error) {
	if len(b) < RecordSize {
		return types.Config{}, &errcode.E{C: errcode.BadRecord, Op: opDecode, Msg: "short record"}
	}
	b = b[:RecordSize]
	if erased(b) {
		return types.Config{}, &errcode.E{C: errcode.StorageErased, Op: opDecode}
	}
	if [4]byte(b[0:4]) != recordMagic {
		return types.Config{}, &errcode.E{C: errcode.BadRecord, Op: opDecode, Msg: "bad magic"}
	}
	if b[4] != RecordVersion {
		return types.Config{}, &errcode.E{C: errcode.BadRecord, Op: opDecode, Msg: "unsupported version"}
	}
	if checksum(b[:RecordSize-1]) != b[RecordSize-1] {
		return types.Config{}, &errcode.E{C: errcode.BadRecord, Op: opDecode, Msg: "bad checksum"}
	}

	cfg := types.DefaultConfig()
	cfg.Source = types.SourceFlash
	cfg.Animator.Brightness = b[5]
	cfg.Animator.Saturation = b[6]
	cfg.Animator.Value = b[7]
	if ms := binary.LittleEndian.Uint16(b[8:10]); ms != 0 {
		cfg.Animator.Interval = time.Duration(ms) * time.Millisecond
	}
	if s := binary.LittleEndian.Uint16(b[10:12]); s != 0 {
		cfg.Heartbeat.Interval = time.Duration(s) * time.Second
	}
	return cfg, nil
}

// Encode renders cfg as a record. Used by host tooling to prepare images.
// Intervals outside a field's range are clamped to it.
func Encode(cfg types.Config) [RecordSize]byte {
	var b [RecordSize]byte
	copy(b[0:4], recordMagic[:])
	b[4] = RecordVersion
	b[5] = cfg.Animator.Brightness
	b[6] = cfg.Animator.Saturation
	b[7] = cfg.Animator.Value
	binary.LittleEndian.PutUint16(b[8:10], field16(cfg.Animator.Interval, time.Millisecond))
	binary.LittleEndian.PutUint16(b[10:12], field16(cfg.Heartbeat.Interval, time.Second))
	b[RecordSize-1] = checksum(b[:RecordSize-1])
	return b
}

func field16(d, unit time.Duration) uint16 {
	return uint16(mathx.Clamp(d/unit, 0, math.MaxUint16))
}

func erased(b []byte) bool {
	for _, x := range b {
		if x != 0xFF {
			return false
		}
	}
	return true
}

func checksum(b []byte) byte {
	var x byte
	for _, v := range b {
		x ^= v
	}
	return x
}
