package fbx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Decompressor inflates the payload of an array property whose encoding
// flag is set.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// SizedDecompressor is implemented by decompressors that can stop once
// the output grows past the size expected by the array header.
type SizedDecompressor interface {
	DecompressSize(data []byte, size int64) ([]byte, error)
}

type DecompressorFunc func(data []byte) ([]byte, error)

func (f DecompressorFunc) Decompress(data []byte) ([]byte, error) {
	return f(data)
}

// ZlibDecompressor is the default Decompressor.
// MaxSize bounds the inflated size; 0 means no limit.
type ZlibDecompressor struct {
	MaxSize int64
}

func (z ZlibDecompressor) Decompress(data []byte) ([]byte, error) {
	return z.DecompressSize(data, z.MaxSize)
}

// DecompressSize inflates at most size bytes, failing if the stream holds
// more. size <= 0 means no limit other than MaxSize.
func (z ZlibDecompressor) DecompressSize(data []byte, size int64) ([]byte, error) {
	limit := z.MaxSize
	if size > 0 && (limit <= 0 || size < limit) {
		limit = size
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if limit <= 0 {
		return io.ReadAll(r)
	}
	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("inflated size exceeds %d bytes", limit)
	}
	return out, nil
}
