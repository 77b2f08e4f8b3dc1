package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/binzume/fbxbin/fbx"
	"github.com/kr/pretty"
	"gopkg.in/yaml.v2"
)

// arrays longer than this are elided unless -full is given.
const maxShortArray = 16

type yamlDocument struct {
	Version uint32      `yaml:"version"`
	Nodes   []*yamlNode `yaml:"nodes"`
}

type yamlNode struct {
	Name       string          `yaml:"name"`
	Properties []*yamlProperty `yaml:"properties,omitempty"`
	Children   []*yamlNode     `yaml:"children,omitempty"`
}

type yamlProperty struct {
	Type  string      `yaml:"type"`
	Count uint        `yaml:"count,omitempty"`
	Value interface{} `yaml:"value,omitempty"`
}

func toYAMLNode(n *fbx.Node, full bool) *yamlNode {
	y := &yamlNode{Name: n.Name}
	for _, p := range n.Properties {
		yp := &yamlProperty{Type: p.Type.String(), Count: p.Count}
		switch {
		case p.Type.IsArray() && !full && p.Count > maxShortArray:
		case p.Type == fbx.TypeRaw:
			yp.Value = hex.EncodeToString(p.Value.([]byte))
		case p.Type == fbx.TypeBoolArray:
			yp.Value = p.ToBoolArray()
		default:
			yp.Value = p.Value
		}
		y.Properties = append(y.Properties, yp)
	}
	for _, c := range n.Children {
		y.Children = append(y.Children, toYAMLNode(c, full))
	}
	return y
}

func writeDocument(w io.Writer, doc *fbx.Document, format string, full bool) error {
	switch format {
	case "text":
		fmt.Fprintf(w, "; FBX %d.%d.0 binary\n", doc.Version/1000, doc.Version%1000/100)
		for _, n := range doc.Root.Children {
			n.Dump(w, 0, full)
		}
		return nil
	case "yaml":
		y := &yamlDocument{Version: doc.Version}
		for _, n := range doc.Root.Children {
			y.Nodes = append(y.Nodes, toYAMLNode(n, full))
		}
		b, err := yaml.Marshal(y)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case "pretty":
		_, err := pretty.Fprintf(w, "%# v\n", doc)
		return err
	}
	return fmt.Errorf("unsupported format: %v", format)
}
