package fbx

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"
)

func TestReadPropScalars(t *testing.T) {
	cases := []struct {
		data []byte
		want interface{}
	}{
		{prop(TypeInt16, int16(-300)), int16(-300)},
		{prop(TypeBool, uint8(1)), true},
		{prop(TypeBool, uint8(0)), false},
		{prop(TypeBool, uint8(0x80)), true},
		{propInt32(42), int32(42)},
		{prop(TypeFloat32, float32(0.5)), float32(0.5)},
		{prop(TypeFloat64, float64(3.25)), float64(3.25)},
		{prop(TypeInt64, int64(1) << 40), int64(1) << 40},
		{propString("Model::Cube"), "Model::Cube"},
		{propRaw([]byte{0, 0xff}), []byte{0, 0xff}},
		{propString(""), ""},
	}
	for _, c := range cases {
		p := newTestParser(c.data)
		prop := p.readProp()
		if p.err != nil {
			t.Error(p.err)
			continue
		}
		if prop.Type != PropertyType(c.data[0]) {
			t.Error("type", prop.Type)
		}
		if !reflect.DeepEqual(prop.Value, c.want) {
			t.Errorf("%v: got %#v, want %#v", prop.Type, prop.Value, c.want)
		}
		if prop.Count != 0 {
			t.Error("scalar count", prop.Count)
		}
		if p.r.position != int64(len(c.data)) {
			t.Error("position", p.r.position, len(c.data))
		}
	}
}

func TestReadPropArrays(t *testing.T) {
	cases := []struct {
		data []byte
		want interface{}
	}{
		{propArray(TypeFloat32Array, 3, float32Payload(1, 2.5, -3)), []float32{1, 2.5, -3}},
		{propArray(TypeInt32Array, 2, le([]int32{-1, 5})), []int32{-1, 5}},
		{propArray(TypeFloat64Array, 2, le([]float64{0.5, -8})), []float64{0.5, -8}},
		{propArray(TypeInt64Array, 1, le([]int64{-1 << 50})), []int64{-1 << 50}},
		{propArray(TypeBoolArray, 3, []byte{1, 0, 2}), []byte{1, 0, 2}},
		{propArray(TypeByteArray, 2, []byte{0xde, 0xad}), []byte{0xde, 0xad}},
		{propCompressedArray(TypeInt32Array, 4, le([]int32{0, 1, 2, -3})), []int32{0, 1, 2, -3}},
		{propCompressedArray(TypeFloat64Array, 2, le([]float64{1, 2})), []float64{1, 2}},
	}
	for _, c := range cases {
		p := newTestParser(c.data)
		prop := p.readProp()
		if p.err != nil {
			t.Error(p.err)
			continue
		}
		if !reflect.DeepEqual(prop.Value, c.want) {
			t.Errorf("%v: got %#v, want %#v", prop.Type, prop.Value, c.want)
		}
		if prop.Count != uint(reflect.ValueOf(c.want).Len()) {
			t.Error("count", prop.Count)
		}
		if p.r.position != int64(len(c.data)) {
			t.Error("position", p.r.position, len(c.data))
		}
	}
}

func TestReadPropEmptyArray(t *testing.T) {
	data := append(propArray(TypeFloat64Array, 0, nil), 0xaa)
	p := newTestParser(data)
	prop := p.readProp()
	if p.err != nil {
		t.Fatal(p.err)
	}
	v, ok := prop.Value.([]float64)
	if !ok || v == nil || len(v) != 0 {
		t.Errorf("want empty []float64, got %#v", prop.Value)
	}
	if p.r.position != 13 {
		t.Error("payload consumed", p.r.position)
	}
}

func TestReadPropEmptyCompressedArray(t *testing.T) {
	data := append(propCompressedArray(TypeFloat32Array, 0, nil), 0xaa)
	inflate := DecompressorFunc(func(b []byte) ([]byte, error) {
		t.Error("empty array inflated")
		return nil, nil
	})
	p := newTestParser(data, WithDecompressor(inflate))
	prop := p.readProp()
	if p.err != nil {
		t.Fatal(p.err)
	}
	v, ok := prop.Value.([]float32)
	if !ok || v == nil || len(v) != 0 {
		t.Errorf("want empty []float32, got %#v", prop.Value)
	}
	if prop.Count != 0 {
		t.Error("count", prop.Count)
	}
	if p.r.position != int64(len(data)-1) {
		t.Error("compressed payload not skipped", p.r.position, len(data)-1)
	}
}

func TestReadPropInflateBound(t *testing.T) {
	// 1MiB of zeros deflates to about 1KiB but the header claims one int32.
	data := propCompressedArray(TypeInt32Array, 1, make([]byte, 1<<20))
	p := newTestParser(data)
	if prop := p.readProp(); prop != nil {
		t.Error("property returned", prop)
	}
	if !errors.Is(p.err, ErrDecompressionFailed) {
		t.Error("expected ErrDecompressionFailed, got", p.err)
	}
}

func TestReadPropArrayTooLarge(t *testing.T) {
	var data []byte
	data = append(data, byte(TypeInt64Array))
	data = append(data, le(uint32(0x40000000))...)
	data = append(data, le(uint32(0))...)
	data = append(data, le(uint32(0))...)
	p := newTestParser(data)
	if prop := p.readProp(); prop != nil {
		t.Error("property returned", prop)
	}
	if !errors.Is(p.err, ErrArrayLength) {
		t.Error("expected ErrArrayLength, got", p.err)
	}
	if p.r.position != 13 {
		t.Error("position", p.r.position)
	}
}

func TestReadPropUnknownTag(t *testing.T) {
	for _, tag := range []byte{0x00, 'B', 'x', 0xff} {
		p := newTestParser([]byte{tag, 1, 2, 3, 4})
		if prop := p.readProp(); prop != nil {
			t.Error("property returned for unknown tag", prop)
		}
		if !errors.Is(p.err, ErrUnknownPropertyTag) {
			t.Errorf("0x%02x: expected ErrUnknownPropertyTag, got %v", tag, p.err)
		}
		if p.r.position != 1 {
			t.Error("decoding continued after unknown tag", p.r.position)
		}
	}
}

func TestReadPropTruncated(t *testing.T) {
	full := [][]byte{
		propInt32(1),
		prop(TypeFloat64, float64(1)),
		propString("abc"),
		propArray(TypeInt32Array, 2, le([]int32{1, 2})),
		propCompressedArray(TypeFloat32Array, 2, float32Payload(1, 2)),
	}
	for _, data := range full {
		for n := 0; n < len(data); n++ {
			p := newTestParser(data[:n])
			p.readProp()
			if !errors.Is(p.err, io.ErrUnexpectedEOF) {
				t.Errorf("%c cut at %d: got %v", data[0], n, p.err)
			}
		}
	}
}

func TestReadPropDecompression(t *testing.T) {
	data := propCompressedArray(TypeInt32Array, 2, le([]int32{1, 2}))

	broken := DecompressorFunc(func([]byte) ([]byte, error) {
		return nil, fmt.Errorf("broken")
	})
	p := newTestParser(data, WithDecompressor(broken))
	p.readProp()
	if !errors.Is(p.err, ErrDecompressionFailed) {
		t.Error("expected ErrDecompressionFailed", p.err)
	}

	short := DecompressorFunc(func([]byte) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	})
	p = newTestParser(data, WithDecompressor(short))
	p.readProp()
	if !errors.Is(p.err, ErrDecompressionFailed) {
		t.Error("short output: expected ErrDecompressionFailed", p.err)
	}

	// not zlib at all
	bad := []byte{byte(TypeInt32Array)}
	bad = append(bad, le([]uint32{1, 1, 4})...)
	bad = append(bad, 1, 2, 3, 4)
	p = newTestParser(bad)
	p.readProp()
	if !errors.Is(p.err, ErrDecompressionFailed) {
		t.Error("garbage: expected ErrDecompressionFailed", p.err)
	}
}

func TestReadPropCustomDecompressor(t *testing.T) {
	payload := le([]int32{7, 8})
	data := []byte{byte(TypeInt32Array)}
	data = append(data, le([]uint32{2, 1, 3})...)
	data = append(data, 'a', 'b', 'c')

	var got []byte
	d := DecompressorFunc(func(b []byte) ([]byte, error) {
		got = b
		return payload, nil
	})
	p := newTestParser(data, WithDecompressor(d))
	prop := p.readProp()
	if p.err != nil {
		t.Fatal(p.err)
	}
	if string(got) != "abc" {
		t.Errorf("decompressor input %q", got)
	}
	if !reflect.DeepEqual(prop.Value, []int32{7, 8}) {
		t.Error("value", prop.Value)
	}
}

func TestReadPropStrictArrayLength(t *testing.T) {
	data := []byte{byte(TypeInt32Array)}
	data = append(data, le([]uint32{1, 0, 99})...)
	data = append(data, le(int32(5))...)

	p := newTestParser(data)
	if prop := p.readProp(); p.err != nil || prop.ToInt32Array()[0] != 5 {
		t.Error("lenient read failed", p.err)
	}

	p = newTestParser(data, WithStrict(true))
	p.readProp()
	if !errors.Is(p.err, ErrArrayLength) {
		t.Error("expected ErrArrayLength", p.err)
	}
}

func TestPropertyTypeString(t *testing.T) {
	if TypeInt32.String() != "int32" || TypeFloat32Array.String() != "[]float32" {
		t.Error("unexpected names")
	}
	if PropertyType(0).String() != "unknown(0x00)" {
		t.Error(PropertyType(0).String())
	}
	if TypeInt32.IsArray() || !TypeByteArray.IsArray() {
		t.Error("IsArray")
	}
}
