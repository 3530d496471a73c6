// Package property implements the dynamic property tree: a lossless,
// order-preserving in-memory mirror of one XML element, attached to every
// scene node. Leaf elements become typed entries keyed by tag, non-leaf
// elements become nested trees. Everything consumed by FromElement is
// reproduced by ToElement unless explicitly marked deleted.
package property

import (
	"log/slog"
	"strings"

	"github.com/anno-mods/annocfg/pkg/cfgxml"
	"github.com/anno-mods/annocfg/pkg/coerce"
)

// Entry is one typed property: the originating tag and its coerced value.
type Entry struct {
	Tag   string
	Value coerce.Value
}

// Tree mirrors one XML element. Entries are grouped by kind, in insertion
// order within each group; nested trees keep document order.
type Tree struct {
	Tag        string
	ConfigType string

	SequenceRefs []Entry
	Strings      []Entry
	Ints         []Entry
	Filenames    []Entry
	Floats       []Entry
	Colors       []Entry
	ObjectRefs   []Entry
	Bools        []Entry

	Children []*Tree

	// Hidden is a UI concern only and never affects serialization.
	Hidden bool
	// Deleted marks a nested tree for exclusion on the next ToElement.
	Deleted bool

	logger *slog.Logger
}

// NewTree returns an empty tree logging through logger. A nil logger falls
// back to slog.Default().
func NewTree(logger *slog.Logger) *Tree {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tree{logger: logger}
}

// Reset clears all entries, children and flags, keeping the logger.
func (t *Tree) Reset() {
	logger := t.logger
	*t = Tree{logger: logger}
}

// groups returns the entry slices in the order lookups and removal scan
// them.
func (t *Tree) groups() []*[]Entry {
	return []*[]Entry{
		&t.SequenceRefs, &t.Bools, &t.Filenames, &t.Strings,
		&t.Ints, &t.Floats, &t.Colors, &t.ObjectRefs,
	}
}

func (t *Tree) groupFor(v coerce.Value, tag string) *[]Entry {
	if tag == "FileName" {
		return &t.Filenames
	}
	switch v.Kind {
	case coerce.Bool:
		return &t.Bools
	case coerce.Int:
		return &t.Ints
	case coerce.Float:
		return &t.Floats
	case coerce.Color:
		return &t.Colors
	case coerce.SequenceRef:
		return &t.SequenceRefs
	case coerce.ObjectRef:
		return &t.ObjectRefs
	case coerce.Filename:
		return &t.Filenames
	default:
		return &t.Strings
	}
}

// Set coerces raw and stores it under tag. With replace the first existing
// entry with the same tag is overwritten; otherwise a new entry is always
// appended, so multi-valued tags keep every occurrence. The ConfigType tag
// is routed into the dedicated field instead.
func (t *Tree) Set(tag, raw string, replace bool) {
	value := coerce.FromString(t.logger, tag, raw)
	if tag == "ConfigType" {
		t.ConfigType = value.Str
		return
	}
	t.SetValue(tag, value, replace)
}

// SetValue stores an already-typed value under tag.
func (t *Tree) SetValue(tag string, value coerce.Value, replace bool) {
	group := t.groupFor(value, tag)
	if replace {
		for i := range *group {
			if (*group)[i].Tag == tag {
				(*group)[i].Value = value
				return
			}
		}
	}
	*group = append(*group, Entry{Tag: tag, Value: value})
}

// Get returns the first entry stored under tag, scanning the kind groups in
// a fixed order.
func (t *Tree) Get(tag string) (coerce.Value, bool) {
	for _, group := range t.groups() {
		for _, e := range *group {
			if e.Tag == tag {
				return e.Value, true
			}
		}
	}
	return coerce.Value{}, false
}

// GetString returns the string or filename entry stored under tag, or def.
func (t *Tree) GetString(tag, def string) string {
	for _, e := range t.Strings {
		if e.Tag == tag {
			return e.Value.Str
		}
	}
	for _, e := range t.Filenames {
		if e.Tag == tag {
			return e.Value.Str
		}
	}
	return def
}

// Remove deletes the first entry or nested tree stored under tag. It
// reports whether anything was removed.
func (t *Tree) Remove(tag string) bool {
	for _, group := range t.groups() {
		for i, e := range *group {
			if e.Tag == tag {
				*group = append((*group)[:i], (*group)[i+1:]...)
				return true
			}
		}
	}
	for i, c := range t.Children {
		if c.Tag == tag {
			t.Children = append(t.Children[:i], t.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Child returns the first nested tree with the given tag, or nil.
func (t *Tree) Child(tag string) *Tree {
	for _, c := range t.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FromElement populates t from el: every leaf child becomes one typed entry
// (duplicates kept), every non-leaf child one nested tree, in document
// order.
func (t *Tree) FromElement(el *cfgxml.Element) *Tree {
	t.Tag = el.Tag
	for _, child := range el.Children {
		if child.IsLeaf() {
			t.Set(child.Tag, strings.TrimSpace(child.Text), false)
			continue
		}
		nested := NewTree(t.logger)
		nested.FromElement(child)
		t.Children = append(t.Children, nested)
	}
	return t
}

// ToElement reconstructs an element with the given tag. ConfigType is
// written first, then the typed entries in the fixed category order
// downstream tooling relies on (sequence refs, strings, ints, filenames,
// floats, object refs, bools, colors), then the nested trees in stored
// order, skipping any marked deleted.
func (t *Tree) ToElement(tag string) *cfgxml.Element {
	el := cfgxml.NewElement(tag)
	if t.ConfigType != "" {
		el.SubElement("ConfigType").Text = t.ConfigType
	}
	emitOrder := []*[]Entry{
		&t.SequenceRefs, &t.Strings, &t.Ints, &t.Filenames,
		&t.Floats, &t.ObjectRefs, &t.Bools, &t.Colors,
	}
	for _, group := range emitOrder {
		for _, e := range *group {
			el.SubElement(e.Tag).Text = e.Value.ToString()
		}
	}
	for _, child := range t.Children {
		if child.Deleted {
			continue
		}
		el.Append(child.ToElement(child.Tag))
	}
	return el
}
