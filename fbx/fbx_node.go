package fbx

import (
	"fmt"
	"io"
	"strings"
)

type Node struct {
	Name       string
	Properties PropertyList
	Children   []*Node
}

func (n *Node) FindChild(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) FindChildren(name string) []*Node {
	if n == nil {
		return nil
	}
	var r []*Node
	for _, c := range n.Children {
		if c.Name == name {
			r = append(r, c)
		}
	}
	return r
}

func (n *Node) GetChildren() []*Node {
	if n == nil {
		return nil
	}
	return n.Children
}

// Walk calls fn for n and its descendants in depth first order.
// Returning false from fn skips the children of that node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, d int) {
	if n == nil || !fn(n, d) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, d+1)
	}
}

func (n *Node) Prop(i int) *Property {
	if n == nil {
		return nil
	}
	return n.Properties.Get(i)
}

func (n *Node) PropValue(i int) interface{} {
	if p := n.Prop(i); p != nil {
		return p.Value
	}
	return nil
}

func (n *Node) PropInt(i int) int {
	return n.Prop(i).ToInt(0)
}

func (n *Node) PropFloat(i int) float32 {
	return n.Prop(i).ToFloat32(0)
}

func (n *Node) PropString(i int) string {
	return n.Prop(i).ToString("")
}

// Property is one typed value of a node. Value holds the Go type listed
// for each PropertyType; Count is the element count of array kinds.
type Property struct {
	Type  PropertyType
	Value interface{}
	Count uint
}

type PropertyList []*Property

func (p PropertyList) Get(i int) *Property {
	if i < 0 || i >= len(p) {
		return nil
	}
	return p[i]
}

func (p *Property) ToInt(defvalue int) int {
	return int(p.ToInt64(int64(defvalue)))
}

func (p *Property) ToInt64(defvalue int64) int64 {
	if p == nil {
		return defvalue
	}
	switch v := p.Value.(type) {
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	}
	return defvalue
}

func (p *Property) ToFloat64(defvalue float64) float64 {
	if p == nil {
		return defvalue
	}
	switch v := p.Value.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defvalue
}

func (p *Property) ToFloat32(defvalue float32) float32 {
	return float32(p.ToFloat64(float64(defvalue)))
}

func (p *Property) ToBool(defvalue bool) bool {
	if p == nil {
		return defvalue
	}
	if v, ok := p.Value.(bool); ok {
		return v
	}
	return p.ToInt64(0) != 0
}

func (p *Property) ToString(defvalue string) string {
	if p == nil {
		return defvalue
	}
	if v, ok := p.Value.(string); ok {
		return v
	} else if v, ok := p.Value.([]byte); ok && p.Type == TypeRaw {
		return string(v)
	}
	return defvalue
}

func (p *Property) ToInt32Array() []int32 {
	if p == nil {
		return nil
	}
	var r []int32
	switch vv := p.Value.(type) {
	case []int32:
		return vv
	case []int64:
		for _, v := range vv {
			r = append(r, int32(v))
		}
	case []byte:
		if p.Type == TypeRaw {
			return nil
		}
		for _, v := range vv {
			r = append(r, int32(v))
		}
	}
	return r
}

func (p *Property) ToFloat32Array() []float32 {
	if p == nil {
		return nil
	}
	var r []float32
	switch vv := p.Value.(type) {
	case []float32:
		return vv
	case []float64:
		for _, v := range vv {
			r = append(r, float32(v))
		}
	case []int32:
		for _, v := range vv {
			r = append(r, float32(v))
		}
	case []int64:
		for _, v := range vv {
			r = append(r, float32(v))
		}
	}
	return r
}

func (p *Property) ToFloat64Array() []float64 {
	if p == nil {
		return nil
	}
	var r []float64
	switch vv := p.Value.(type) {
	case []float64:
		return vv
	case []float32:
		for _, v := range vv {
			r = append(r, float64(v))
		}
	case []int32:
		for _, v := range vv {
			r = append(r, float64(v))
		}
	case []int64:
		for _, v := range vv {
			r = append(r, float64(v))
		}
	}
	return r
}

// ToBoolArray returns nil unless p is a bool array.
func (p *Property) ToBoolArray() []bool {
	if p == nil || p.Type != TypeBoolArray {
		return nil
	}
	vv, _ := p.Value.([]byte)
	r := make([]bool, len(vv))
	for i, v := range vv {
		r[i] = v != 0
	}
	return r
}

func (p *Property) String() string {
	if p == nil {
		return ""
	}
	switch v := p.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case bool:
		if v {
			return "T"
		}
		return "F"
	case []byte:
		if p.Type == TypeRaw {
			return fmt.Sprintf("%q", v)
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

// Dump writes the tree below n in the textual FBX notation.
// Unless full is set, arrays longer than 16 elements are elided.
func (n *Node) Dump(w io.Writer, d int, full bool) {
	fmt.Fprint(w, strings.Repeat("  ", d), n.Name, ":")
	var arrayReplacer = strings.NewReplacer("[", "{ a: ", "]", " }", " ", ",")
	for i, p := range n.Properties {
		var s string
		if p.Type.IsArray() {
			if !full && p.Count > 16 {
				s = fmt.Sprintf("*%d { SKIPPED }", p.Count)
			} else {
				s = fmt.Sprint("*", p.Count, " ", arrayReplacer.Replace(p.String()))
			}
		} else {
			s = p.String()
		}
		if i == 0 {
			fmt.Fprint(w, " ", s)
		} else {
			fmt.Fprint(w, ", ", s)
		}
	}
	if len(n.Children) > 0 || len(n.Properties) == 0 {
		fmt.Fprintln(w, " {")
		for _, c := range n.Children {
			c.Dump(w, d+1, full)
		}
		fmt.Fprintln(w, strings.Repeat("  ", d)+"}")
	} else {
		fmt.Fprintln(w, "")
	}
}
