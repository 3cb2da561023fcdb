package ooxml

import (
	"encoding/xml"
	"io"
	"strings"
)

// element is a node in a namespace-agnostic XML element tree. OOXML markup
// is heavily namespaced but the signals extracted here are unambiguous by
// local name alone, so namespaces are stripped during parsing.
type element struct {
	name     string
	attrs    []xmlAttr
	parent   *element
	children []*element
}

type xmlAttr struct {
	name  string
	value string
}

// parseXML builds an element tree from raw markup. The decoder runs in
// non-strict mode: theme and slide parts written by third-party tools are
// not always well-formed, and partial trees still carry usable signals.
func parseXML(text string) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = false

	root := &element{}
	cur := root
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if cur != root {
				// Keep whatever parsed before the error.
				break
			}
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, parent: cur}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.attrs = append(el.attrs, xmlAttr{name: a.Name.Local, value: a.Value})
			}
			cur.children = append(cur.children, el)
			cur = el
		case xml.EndElement:
			if cur.parent != nil {
				cur = cur.parent
			}
		}
	}
	return root, nil
}

// attr returns the value of the named attribute.
func (e *element) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// walk visits e and every descendant in document order.
func (e *element) walk(fn func(*element)) {
	for _, c := range e.children {
		fn(c)
		c.walk(fn)
	}
}

// find returns the first descendant with the given local name, depth
// first in document order.
func (e *element) find(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

// child returns the first direct child with the given local name.
func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}
