// Package fbx decodes binary FBX files into a tree of nodes.
//
// The decoder only checks the structure of the file (scope offsets and
// sentinels). It does not interpret what the nodes mean.
package fbx

import (
	"bufio"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
)

// Document is the result of decoding a binary FBX stream.
type Document struct {
	Version uint32
	// Root has an empty name and holds the top level nodes.
	Root *Node
}

type Options struct {
	Decompressor Decompressor
	Logger       logrus.FieldLogger

	// Strict enables cross-checks of the property list length and of the
	// declared size of uncompressed arrays.
	Strict bool

	// MaxDepth limits node nesting. 0 means unlimited.
	MaxDepth int

	// WideHeaders reads 64 bit node headers and 25 byte sentinels
	// when the file version is 7500 or later.
	WideHeaders bool

	// StringEncoding transcodes node names and string properties to
	// UTF-8. nil leaves them as stored.
	StringEncoding encoding.Encoding
}

type Option func(*Options)

func WithDecompressor(d Decompressor) Option {
	return func(o *Options) { o.Decompressor = d }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithStrict(strict bool) Option {
	return func(o *Options) { o.Strict = strict }
}

func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

func WithWideHeaders(wide bool) Option {
	return func(o *Options) { o.WideHeaders = wide }
}

func WithStringEncoding(enc encoding.Encoding) Option {
	return func(o *Options) { o.StringEncoding = enc }
}

// Decoder reads one document from an input stream.
// The stream is buffered, so bytes past the end of the document may be
// consumed from r.
type Decoder struct {
	r    io.Reader
	opts Options
}

func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{r: r}
	for _, opt := range opts {
		opt(&d.opts)
	}
	if d.opts.Decompressor == nil {
		d.opts.Decompressor = ZlibDecompressor{}
	}
	if d.opts.Logger == nil {
		d.opts.Logger = logrus.StandardLogger()
	}
	return d
}

// Decode reads the whole document. On error no partial tree is returned
// and the error is a *ParseError.
func (d *Decoder) Decode() (*Document, error) {
	p := binaryParser{
		r:     &positionReader{r: bufio.NewReader(d.r)},
		opts:  &d.opts,
		log:   d.opts.Logger,
		trace: traceEnabled(d.opts.Logger),
	}
	return p.Parse()
}

func traceEnabled(l logrus.FieldLogger) bool {
	switch l := l.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.TraceLevel)
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(logrus.TraceLevel)
	}
	return false
}

func Parse(r io.Reader, opts ...Option) (*Document, error) {
	return NewDecoder(r, opts...).Decode()
}

func Load(path string, opts ...Option) (*Document, error) {
	return LoadFS(afero.NewOsFs(), path, opts...)
}

func LoadFS(fs afero.Fs, path string, opts ...Option) (*Document, error) {
	r, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r, opts...)
}
