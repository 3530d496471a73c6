// Package cfgxml provides an order-preserving XML element tree for game
// configuration files (.cfg, .ifo, .prp), together with the slash-path
// queries and text helpers the mapping engine is built on.
//
// The files in the wild are hand-edited and attribute-free; everything of
// interest lives in element order, tag names and text content. Sibling order
// is significant and survives a decode/encode cycle unchanged.
package cfgxml

import (
	"strconv"
	"strings"
)

// Attr is a name/value attribute pair. Anno configuration files rarely carry
// attributes, but any that appear must survive a round-trip verbatim.
type Attr struct {
	Name  string
	Value string
}

// Element is one XML element: a tag, optional text content and an ordered
// list of child elements.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// NewElement returns an empty element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// SubElement appends a new empty child with the given tag and returns it.
func (e *Element) SubElement(tag string) *Element {
	child := NewElement(tag)
	e.Children = append(e.Children, child)
	return child
}

// Append adds child as the last child of e.
func (e *Element) Append(child *Element) {
	e.Children = append(e.Children, child)
}

// Remove deletes the first child identical to the given pointer. It returns
// false if child is not a direct child of e.
func (e *Element) Remove(child *Element) bool {
	for i, c := range e.Children {
		if c == child {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			return true
		}
	}
	return false
}

// IsLeaf reports whether e has no child elements.
func (e *Element) IsLeaf() bool {
	return len(e.Children) == 0
}

// Clone returns a deep copy of e.
func (e *Element) Clone() *Element {
	cp := &Element{Tag: e.Tag, Text: e.Text}
	if len(e.Attrs) > 0 {
		cp.Attrs = append([]Attr(nil), e.Attrs...)
	}
	for _, c := range e.Children {
		cp.Children = append(cp.Children, c.Clone())
	}
	return cp
}

// Equal reports deep structural equality: tag, attributes, trimmed text and
// children in order.
func (e *Element) Equal(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Tag != other.Tag || strings.TrimSpace(e.Text) != strings.TrimSpace(other.Text) {
		return false
	}
	if len(e.Attrs) != len(other.Attrs) || len(e.Children) != len(other.Children) {
		return false
	}
	for i, a := range e.Attrs {
		if a != other.Attrs[i] {
			return false
		}
	}
	for i, c := range e.Children {
		if !c.Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// FormatFloat renders a float the way the game expects it: exactly six
// digits after the decimal point.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
