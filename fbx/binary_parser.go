package fbx

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
)

const binaryMagic = "Kaydara FBX Binary  \x00\x1a\x00"

// at the end of each nested scope there is a null record marking that the
// scope exists (`Name: {}` as opposed to `Name:`).
const (
	sentinelSize     = 13
	wideSentinelSize = 25
)

// files from this version on use 64 bit node record headers.
const wideHeaderVersion = 7500

type binaryParser struct {
	r       *positionReader
	opts    *Options
	log     logrus.FieldLogger
	trace   bool
	wide    bool
	err     error
	path    []string
	scratch [8]byte
}

func (p *binaryParser) sentinelSize() uint64 {
	if p.wide {
		return wideSentinelSize
	}
	return sentinelSize
}

func (p *binaryParser) readHeader() error {
	header := make([]byte, len(binaryMagic))
	if !p.readFull(header) {
		return p.err
	}
	if !bytes.Equal(header, []byte(binaryMagic)) {
		return p.fail(ErrInvalidHeader)
	}
	return nil
}

func (p *binaryParser) readVersion() (uint32, error) {
	v := p.readUint32()
	return v, p.err
}

func (p *binaryParser) readSentinel() error {
	b := p.readBytes(p.sentinelSize())
	if p.err != nil {
		return p.err
	}
	for _, c := range b {
		if c != 0 {
			return p.fail(ErrInvalidSentinel)
		}
	}
	return nil
}

// readNode returns nil, nil on a null record.
func (p *binaryParser) readNode(depth int) (*Node, error) {
	start := p.r.position
	end := p.readWord()
	if p.err != nil {
		return nil, p.err
	}
	if end == 0 {
		return nil, nil
	}
	nprop := p.readWord()
	propsz := p.readWord()
	n := &Node{Name: p.readName()}
	if p.err != nil {
		return nil, p.err
	}

	p.path = append(p.path, n.Name)
	defer func() { p.path = p.path[:len(p.path)-1] }()

	if p.opts.MaxDepth > 0 && depth > p.opts.MaxDepth {
		return nil, p.fail(fmt.Errorf("%w: limit %d", ErrDepthExceeded, p.opts.MaxDepth))
	}

	propStart := p.r.position
	for i := uint64(0); i < nprop; i++ {
		prop := p.readProp()
		if p.err != nil {
			return nil, p.err
		}
		n.Properties = append(n.Properties, prop)
	}
	if p.opts.Strict && uint64(p.r.position-propStart) != propsz {
		return nil, p.fail(fmt.Errorf("%w: read %d bytes, declared %d", ErrPropertyListLength, p.r.position-propStart, propsz))
	}

	if uint64(p.r.position) < end {
		for uint64(p.r.position)+p.sentinelSize() < end {
			child, err := p.readNode(depth + 1)
			if err != nil {
				return nil, err
			}
			if child != nil {
				n.Children = append(n.Children, child)
			}
		}
		if err := p.readSentinel(); err != nil {
			return nil, err
		}
	}

	if uint64(p.r.position) != end {
		return nil, p.fail(fmt.Errorf("%w: at %d, declared %d", ErrOffsetMismatch, p.r.position, end))
	}

	if p.trace {
		p.log.WithFields(logrus.Fields{
			"node":     n.Name,
			"offset":   start,
			"end":      end,
			"props":    len(n.Properties),
			"children": len(n.Children),
		}).Trace("fbx: node")
	}
	return n, nil
}

func (p *binaryParser) Parse() (*Document, error) {
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	version, err := p.readVersion()
	if err != nil {
		return nil, err
	}
	p.wide = p.opts.WideHeaders && version >= wideHeaderVersion
	p.log.WithFields(logrus.Fields{"version": version, "wide": p.wide}).Debug("fbx: header")

	root := &Node{}
	for {
		node, err := p.readNode(1)
		if err != nil {
			return nil, err
		}
		if node == nil {
			break
		}
		root.Children = append(root.Children, node)
	}
	p.log.WithFields(logrus.Fields{
		"nodes": len(root.Children),
		"size":  p.r.position,
	}).Debug("fbx: document decoded")
	return &Document{Version: version, Root: root}, nil
}
