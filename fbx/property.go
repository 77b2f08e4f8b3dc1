package fbx

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// PropertyType is the tag byte preceding every property value.
type PropertyType byte

const (
	TypeInt16   PropertyType = 'Y'
	TypeBool    PropertyType = 'C'
	TypeInt32   PropertyType = 'I'
	TypeFloat32 PropertyType = 'F'
	TypeFloat64 PropertyType = 'D'
	TypeInt64   PropertyType = 'L'
	TypeRaw     PropertyType = 'R'
	TypeString  PropertyType = 'S'

	TypeFloat32Array PropertyType = 'f'
	TypeInt32Array   PropertyType = 'i'
	TypeFloat64Array PropertyType = 'd'
	TypeInt64Array   PropertyType = 'l'
	TypeBoolArray    PropertyType = 'b'
	TypeByteArray    PropertyType = 'c'
)

// IsArray reports whether t is one of the array kinds.
func (t PropertyType) IsArray() bool {
	return t.elementSize() > 0
}

func (t PropertyType) elementSize() uint64 {
	switch t {
	case TypeBoolArray, TypeByteArray:
		return 1
	case TypeFloat32Array, TypeInt32Array:
		return 4
	case TypeFloat64Array, TypeInt64Array:
		return 8
	}
	return 0
}

func (t PropertyType) String() string {
	switch t {
	case TypeInt16:
		return "int16"
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int32"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	case TypeInt64:
		return "int64"
	case TypeRaw:
		return "raw"
	case TypeString:
		return "string"
	case TypeFloat32Array:
		return "[]float32"
	case TypeInt32Array:
		return "[]int32"
	case TypeFloat64Array:
		return "[]float64"
	case TypeInt64Array:
		return "[]int64"
	case TypeBoolArray:
		return "[]bool"
	case TypeByteArray:
		return "[]byte"
	}
	return fmt.Sprintf("unknown(0x%02x)", byte(t))
}

// decodeArray converts count little endian values packed in b.
// len(b) must be count * t.elementSize().
func decodeArray(t PropertyType, b []byte, count int) interface{} {
	switch t {
	case TypeFloat32Array:
		v := make([]float32, count)
		for i := range v {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		}
		return v
	case TypeInt32Array:
		v := make([]int32, count)
		for i := range v {
			v[i] = int32(binary.LittleEndian.Uint32(b[i*4:]))
		}
		return v
	case TypeFloat64Array:
		v := make([]float64, count)
		for i := range v {
			v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
		}
		return v
	case TypeInt64Array:
		v := make([]int64, count)
		for i := range v {
			v[i] = int64(binary.LittleEndian.Uint64(b[i*8:]))
		}
		return v
	}
	v := make([]byte, count)
	copy(v, b)
	return v
}

func (p *binaryParser) readPropArray(typ PropertyType) *Property {
	count := uint64(p.readUint32())
	encoding := p.readUint32()
	sz := uint64(p.readUint32())
	if p.err != nil {
		return nil
	}
	width := typ.elementSize()
	if count > math.MaxInt32/width {
		p.fail(fmt.Errorf("%w: %d elements of %v", ErrArrayLength, count, typ))
		return nil
	}
	n := count * width

	var data []byte
	if encoding == 0 {
		if p.opts.Strict && sz != n {
			p.fail(fmt.Errorf("%w: %d bytes declared for %d elements of %v", ErrArrayLength, sz, count, typ))
			return nil
		}
		data = p.readBytes(n)
	} else {
		compressed := p.readBytes(sz)
		if p.err != nil {
			return nil
		}
		if count > 0 {
			var err error
			if d, ok := p.opts.Decompressor.(SizedDecompressor); ok {
				data, err = d.DecompressSize(compressed, int64(n))
			} else {
				data, err = p.opts.Decompressor.Decompress(compressed)
			}
			if err != nil {
				p.fail(fmt.Errorf("%w: %w", ErrDecompressionFailed, err))
				return nil
			}
			if uint64(len(data)) != n {
				p.fail(fmt.Errorf("%w: got %d bytes, want %d", ErrDecompressionFailed, len(data), n))
				return nil
			}
		}
		if p.trace {
			p.log.WithFields(logrus.Fields{
				"type":       typ.String(),
				"count":      count,
				"compressed": sz,
			}).Trace("fbx: compressed array")
		}
	}
	if p.err != nil {
		return nil
	}
	return &Property{Type: typ, Value: decodeArray(typ, data, int(count)), Count: uint(count)}
}

func (p *binaryParser) readProp() *Property {
	typ := PropertyType(p.readUint8())
	if p.err != nil {
		return nil
	}

	switch typ {
	case TypeInt16:
		return &Property{Type: typ, Value: p.readInt16()}
	case TypeBool:
		return &Property{Type: typ, Value: p.readUint8() != 0}
	case TypeInt32:
		return &Property{Type: typ, Value: p.readInt32()}
	case TypeFloat32:
		return &Property{Type: typ, Value: p.readFloat32()}
	case TypeFloat64:
		return &Property{Type: typ, Value: p.readFloat64()}
	case TypeInt64:
		return &Property{Type: typ, Value: p.readInt64()}
	case TypeRaw:
		return &Property{Type: typ, Value: p.readBlob()}
	case TypeString:
		return &Property{Type: typ, Value: p.readString()}
	case TypeFloat32Array, TypeInt32Array, TypeFloat64Array, TypeInt64Array, TypeBoolArray, TypeByteArray:
		return p.readPropArray(typ)
	}
	p.fail(fmt.Errorf("%w: 0x%02x", ErrUnknownPropertyTag, byte(typ)))
	return nil
}
