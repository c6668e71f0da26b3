// Package markup is a mutable XML element tree for legacy project files.
// Version converters rewrite the tree before it is materialized.
package markup

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Element is one XML element with its attributes and child elements
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []*Element `xml:",any"`
	Text     string     `xml:",chardata"`
}

// New creates an element with attributes given as name/value pairs
func New(name string, attrs ...string) *Element {
	e := &Element{XMLName: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.SetAttr(attrs[i], attrs[i+1])
	}
	return e
}

// Name returns the local element name
func (e *Element) Name() string {
	return e.XMLName.Local
}

// Attr returns the attribute value, or "" when absent
func (e *Element) Attr(name string) string {
	v, _ := e.LookupAttr(name)
	return v
}

// LookupAttr returns the attribute value and whether it is present
func (e *Element) LookupAttr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name.Local == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// RemoveAttr deletes an attribute. Returns false if it was absent.
func (e *Element) RemoveAttr(name string) bool {
	for i, a := range e.Attrs {
		if a.Name.Local == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// FloatAttr parses a float attribute. Absent attributes yield ok == false.
func (e *Element) FloatAttr(name string) (v float64, ok bool, err error) {
	s, ok := e.LookupAttr(name)
	if !ok || s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, fmt.Errorf("<%s %s=%q>: %w", e.Name(), name, s, err)
	}
	return v, true, nil
}

// BoolAttr parses a boolean attribute, falling back to def when absent
func (e *Element) BoolAttr(name string, def bool) bool {
	s, ok := e.LookupAttr(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

// SetFloatAttr writes a float attribute in shortest round-trip form
func (e *Element) SetFloatAttr(name string, v float64) {
	e.SetAttr(name, strconv.FormatFloat(v, 'g', -1, 64))
}

// SetBoolAttr writes a boolean attribute
func (e *Element) SetBoolAttr(name string, v bool) {
	e.SetAttr(name, strconv.FormatBool(v))
}

// Add appends child elements and returns e
func (e *Element) Add(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Child returns the first child with the given name, or nil
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns the direct children with the given name
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name() == name {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits e and all descendants depth first
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Descendants returns every element below e with the given name
func (e *Element) Descendants(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		c.Walk(func(d *Element) {
			if d.Name() == name {
				out = append(out, d)
			}
		})
	}
	return out
}

// Parse reads an element tree. Whitespace-only text is dropped.
func Parse(r io.Reader) (*Element, error) {
	var root Element
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	root.Walk(func(e *Element) {
		e.Text = strings.TrimSpace(e.Text)
	})
	return &root, nil
}

// Write encodes the tree with two space indentation
func Write(w io.Writer, root *Element) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("failed to encode XML: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("failed to encode XML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
