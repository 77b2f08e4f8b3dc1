package fbx

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zlib"
)

// testNode describes a node record for testEncoder.
// Scope forces the sentinel to be written even without children.
type testNode struct {
	Name     string
	Props    [][]byte
	Children []*testNode
	Scope    bool
}

type testEncoder struct {
	buf  bytes.Buffer
	wide bool
}

func (e *testEncoder) word(v uint64) {
	if e.wide {
		binary.Write(&e.buf, binary.LittleEndian, v)
	} else {
		binary.Write(&e.buf, binary.LittleEndian, uint32(v))
	}
}

func (e *testEncoder) patchWord(pos int, v uint64) {
	b := e.buf.Bytes()
	if e.wide {
		binary.LittleEndian.PutUint64(b[pos:], v)
	} else {
		binary.LittleEndian.PutUint32(b[pos:], uint32(v))
	}
}

func (e *testEncoder) header(version uint32) {
	e.buf.WriteString(binaryMagic)
	binary.Write(&e.buf, binary.LittleEndian, version)
}

func (e *testEncoder) node(n *testNode) {
	ws := 4
	sentinel := sentinelSize
	if e.wide {
		ws = 8
		sentinel = wideSentinelSize
	}
	start := e.buf.Len()
	e.word(0)
	e.word(uint64(len(n.Props)))
	e.word(0)
	e.buf.WriteByte(byte(len(n.Name)))
	e.buf.WriteString(n.Name)
	propStart := e.buf.Len()
	for _, p := range n.Props {
		e.buf.Write(p)
	}
	propsz := e.buf.Len() - propStart
	if len(n.Children) > 0 || n.Scope {
		for _, c := range n.Children {
			e.node(c)
		}
		e.buf.Write(make([]byte, sentinel))
	}
	e.patchWord(start, uint64(e.buf.Len()))
	e.patchWord(start+ws*2, uint64(propsz))
}

func (e *testEncoder) terminate() {
	e.word(0)
}

func encodeDocument(version uint32, nodes ...*testNode) []byte {
	e := &testEncoder{}
	e.header(version)
	for _, n := range nodes {
		e.node(n)
	}
	e.terminate()
	return e.buf.Bytes()
}

func le(v interface{}) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, v)
	return buf.Bytes()
}

func prop(t PropertyType, v interface{}) []byte {
	return append([]byte{byte(t)}, le(v)...)
}

func propInt32(v int32) []byte { return prop(TypeInt32, v) }

func propString(s string) []byte {
	return append(prop(TypeString, uint32(len(s))), s...)
}

func propRaw(b []byte) []byte {
	return append(prop(TypeRaw, uint32(len(b))), b...)
}

func propArray(t PropertyType, count int, payload []byte) []byte {
	b := []byte{byte(t)}
	b = append(b, le(uint32(count))...)
	b = append(b, le(uint32(0))...)
	b = append(b, le(uint32(len(payload)))...)
	return append(b, payload...)
}

func propCompressedArray(t PropertyType, count int, payload []byte) []byte {
	var z bytes.Buffer
	w := zlib.NewWriter(&z)
	w.Write(payload)
	w.Close()
	b := []byte{byte(t)}
	b = append(b, le(uint32(count))...)
	b = append(b, le(uint32(1))...)
	b = append(b, le(uint32(z.Len()))...)
	return append(b, z.Bytes()...)
}

func float32Payload(v ...float32) []byte {
	b := make([]byte, 0, len(v)*4)
	for _, f := range v {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}
