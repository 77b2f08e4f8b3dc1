package fbx

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strings"

	"golang.org/x/text/transform"
)

// reads larger than this are grown while reading instead of allocated up front.
const maxPreallocSize = 1 << 20

type positionReader struct {
	r        io.Reader
	position int64
}

func (r *positionReader) Read(p []byte) (n int, err error) {
	n, err = r.r.Read(p)
	r.position += int64(n)
	return n, err
}

func (p *binaryParser) fail(err error) error {
	if p.err == nil {
		p.err = &ParseError{Offset: p.r.position, Path: strings.Join(p.path, "/"), Err: err}
	}
	return p.err
}

func (p *binaryParser) readFull(b []byte) bool {
	if p.err != nil {
		return false
	}
	if _, err := io.ReadFull(p.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		p.fail(err)
		return false
	}
	return true
}

func (p *binaryParser) readBytes(n uint64) []byte {
	if p.err != nil {
		return nil
	}
	if n <= maxPreallocSize {
		b := make([]byte, n)
		if !p.readFull(b) {
			return nil
		}
		return b
	}
	if n > math.MaxInt64 {
		p.fail(ErrArrayLength)
		return nil
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, p.r, int64(n)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		p.fail(err)
		return nil
	}
	return buf.Bytes()
}

func (p *binaryParser) scratchN(n int) []byte {
	b := p.scratch[:n]
	if !p.readFull(b) {
		for i := range b {
			b[i] = 0
		}
	}
	return b
}

func (p *binaryParser) readUint8() uint8 {
	return p.scratchN(1)[0]
}

func (p *binaryParser) readInt16() int16 {
	return int16(binary.LittleEndian.Uint16(p.scratchN(2)))
}

func (p *binaryParser) readUint32() uint32 {
	return binary.LittleEndian.Uint32(p.scratchN(4))
}

func (p *binaryParser) readInt32() int32 {
	return int32(p.readUint32())
}

func (p *binaryParser) readUint64() uint64 {
	return binary.LittleEndian.Uint64(p.scratchN(8))
}

func (p *binaryParser) readInt64() int64 {
	return int64(p.readUint64())
}

func (p *binaryParser) readFloat32() float32 {
	return math.Float32frombits(p.readUint32())
}

func (p *binaryParser) readFloat64() float64 {
	return math.Float64frombits(p.readUint64())
}

// readWord reads a node record header field, 64 bit wide in 7.5+ files.
func (p *binaryParser) readWord() uint64 {
	if p.wide {
		return p.readUint64()
	}
	return uint64(p.readUint32())
}

func (p *binaryParser) decodeText(b []byte) string {
	if p.opts.StringEncoding == nil || p.err != nil {
		return string(b)
	}
	s, _, err := transform.Bytes(p.opts.StringEncoding.NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

func (p *binaryParser) readName() string {
	return p.decodeText(p.readBytes(uint64(p.readUint8())))
}

func (p *binaryParser) readBlob() []byte {
	return p.readBytes(uint64(p.readUint32()))
}

func (p *binaryParser) readString() string {
	return p.decodeText(p.readBlob())
}
