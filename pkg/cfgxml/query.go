package cfgxml

import (
	"strconv"
	"strings"
)

// pathSegment is one step of a slash path, optionally constrained by a
// child-text predicate: Tag[Child = 'VALUE'].
type pathSegment struct {
	tag       string
	predTag   string
	predValue string
}

func splitPath(path string) []pathSegment {
	parts := strings.Split(path, "/")
	segments := make([]pathSegment, 0, len(parts))
	for _, part := range parts {
		seg := pathSegment{tag: part}
		if open := strings.Index(part, "["); open >= 0 && strings.HasSuffix(part, "]") {
			seg.tag = part[:open]
			pred := part[open+1 : len(part)-1]
			if eq := strings.Index(pred, "="); eq >= 0 {
				seg.predTag = strings.TrimSpace(pred[:eq])
				seg.predValue = strings.Trim(strings.TrimSpace(pred[eq+1:]), "'")
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

func (e *Element) matchesSegment(seg pathSegment) bool {
	if e.Tag != seg.tag {
		return false
	}
	if seg.predTag == "" {
		return true
	}
	for _, c := range e.Children {
		if c.Tag == seg.predTag && strings.TrimSpace(c.Text) == seg.predValue {
			return true
		}
	}
	return false
}

// Find returns the first element matching the slash path, or nil. Path
// segments may carry a child-text predicate, e.g.
// "Transformer/Config[ConfigType = 'ORIENTATION_TRANSFORM']/Position.x".
func (e *Element) Find(path string) *Element {
	results := e.findAll(splitPath(path), true)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// FindAll returns every element matching the slash path, in document order.
func (e *Element) FindAll(path string) []*Element {
	return e.findAll(splitPath(path), false)
}

func (e *Element) findAll(segments []pathSegment, firstOnly bool) []*Element {
	current := []*Element{e}
	for _, seg := range segments {
		var next []*Element
		for _, el := range current {
			for _, c := range el.Children {
				if c.matchesSegment(seg) {
					next = append(next, c)
					if firstOnly && len(segments) == 1 {
						return next
					}
				}
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

// parentOf returns the direct parent of target within the subtree rooted at
// e, or nil if target is not in the subtree.
func (e *Element) parentOf(target *Element) *Element {
	for _, c := range e.Children {
		if c == target {
			return e
		}
		if p := c.parentOf(target); p != nil {
			return p
		}
	}
	return nil
}

// FindOrCreate returns the first element matching the path, creating any
// missing segments along the way. A created segment with a predicate also
// receives the predicate child, so a later Find with the same path succeeds.
func (e *Element) FindOrCreate(path string) *Element {
	node := e
	for _, seg := range splitPath(path) {
		var found *Element
		for _, c := range node.Children {
			if c.matchesSegment(seg) {
				found = c
				break
			}
		}
		if found == nil {
			found = node.SubElement(seg.tag)
			if seg.predTag != "" {
				found.SubElement(seg.predTag).Text = seg.predValue
			}
		}
		node = found
	}
	return node
}

// GetText returns the trimmed text of the first element matching the path,
// or def if the path does not resolve.
func (e *Element) GetText(path, def string) string {
	found := e.Find(path)
	if found == nil {
		return def
	}
	return strings.TrimSpace(found.Text)
}

// TakeText behaves like GetText but also removes the matched element from
// its parent, so later generic capture does not see it again.
func (e *Element) TakeText(path, def string) string {
	found := e.Find(path)
	if found == nil {
		return def
	}
	text := strings.TrimSpace(found.Text)
	if parent := e.parentOf(found); parent != nil {
		parent.Remove(found)
	}
	return text
}

// Take removes and returns the first element matching the path, or nil.
func (e *Element) Take(path string) *Element {
	found := e.Find(path)
	if found == nil {
		return nil
	}
	if parent := e.parentOf(found); parent != nil {
		parent.Remove(found)
	}
	return found
}

// GetFloat returns the text at path parsed as a float, or def when the path
// is missing or the text does not parse.
func (e *Element) GetFloat(path string, def float64) float64 {
	text := e.GetText(path, "")
	if text == "" {
		return def
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return def
	}
	return v
}

// TakeFloat is GetFloat with removal of the matched element.
func (e *Element) TakeFloat(path string, def float64) float64 {
	text := e.TakeText(path, "")
	if text == "" {
		return def
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return def
	}
	return v
}
