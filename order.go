package nio

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// ByteOrder selects how multi-byte primitives are laid out in a ByteBuffer.
type ByteOrder uint8

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
)

var nativeOrder = func() ByteOrder {
	if cpu.IsBigEndian {
		return BigEndian
	}
	return LittleEndian
}()

// NativeOrder returns the byte order of the CPU the process is running on.
func NativeOrder() ByteOrder { return nativeOrder }

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "BIG_ENDIAN"
	}
	return "LITTLE_ENDIAN"
}

// Binary returns the encoding/binary implementation of o.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == BigEndian {
		return BE
	}
	return LE
}
