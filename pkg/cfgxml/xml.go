package cfgxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Decode reads an XML document from r and returns its root element. Element
// order is preserved exactly; character data between child elements of a
// non-leaf element is ignored (the format never mixes text and children).
func Decode(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cfgxml: decode: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(t.Name.Local)
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("cfgxml: multiple root elements")
				}
				root = el
			} else {
				stack[len(stack)-1].Append(el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("cfgxml: unbalanced end element %q", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.IsLeaf() {
					top.Text += string(t)
				}
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("cfgxml: document has no root element")
	}
	return root, nil
}

// DecodeBytes parses an XML document held in memory.
func DecodeBytes(data []byte) (*Element, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeFile parses the XML document at path.
func DecodeFile(path string) (*Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cfgxml: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes e to w as indented XML, matching the two-space indentation
// of the files shipped with the game.
func Encode(w io.Writer, e *Element) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := encodeElement(enc, e); err != nil {
		return fmt.Errorf("cfgxml: encode: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("cfgxml: encode: %w", err)
	}
	return nil
}

// EncodeBytes renders e as an indented XML document.
func EncodeBytes(e *Element) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeElement(enc *xml.Encoder, e *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Tag}}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.IsLeaf() {
		if text := strings.TrimSpace(e.Text); text != "" {
			if err := enc.EncodeToken(xml.CharData(text)); err != nil {
				return err
			}
		}
	} else {
		for _, c := range e.Children {
			if err := encodeElement(enc, c); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}
