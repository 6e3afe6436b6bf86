package svg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
)

// ErrInvalidDocument marks svg text that could not be parsed into an
// element tree.
var ErrInvalidDocument = errors.New("invalid svg document")

// Node is one element of an svg document. Attribute values are kept
// verbatim; accessors parse them on demand.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
}

func (n *Node) ID() string { return n.Attrs["id"] }

// PathData returns the d attribute of a path element.
func (n *Node) PathData() string { return n.Attrs["d"] }

func (n *Node) floatAttr(name string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(n.Attrs[name]), 64)
	if err != nil {
		return 0
	}
	return v
}

func (n *Node) walk(visit func(*Node)) {
	for _, c := range n.Children {
		visit(c)
		c.walk(visit)
	}
}

// Rects collects the boxes of all rect elements in the subtree rooted
// at n, including n itself.
func (n *Node) Rects() []geom.Rect {
	ret := []geom.Rect{}
	collect := func(c *Node) {
		if c.Tag == "rect" {
			ret = append(ret, geom.RectFromXYWH(
				c.floatAttr("x"), c.floatAttr("y"),
				c.floatAttr("width"), c.floatAttr("height")))
		}
	}
	collect(n)
	n.walk(collect)
	return ret
}

// Document is a parsed svg layer.
type Document struct {
	Root *Node
}

// Parse reads svg text into an element tree. Only element structure
// and attributes are retained; text content, comments and processing
// instructions are dropped.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	root := &Node{Tag: "#document"}
	stack := []*Node{root}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Tag:   t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				node.Attrs[a.Name.Local] = a.Value
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(root.Children) == 0 {
		return nil, fmt.Errorf("%w: no elements", ErrInvalidDocument)
	}
	return &Document{Root: root}, nil
}

// FindAll returns the nodes matching pred in document order.
func (d *Document) FindAll(pred func(*Node) bool) []*Node {
	ret := []*Node{}
	d.Root.walk(func(n *Node) {
		if pred(n) {
			ret = append(ret, n)
		}
	})
	return ret
}

// Paths returns all path elements carrying path data.
func (d *Document) Paths() []*Node {
	return d.FindAll(func(n *Node) bool {
		return n.Tag == "path" && n.PathData() != ""
	})
}

// NodesWithID returns all nodes whose id attribute contains substr.
// The match is on any element kind, not just groups.
func (d *Document) NodesWithID(substr string) []*Node {
	return d.FindAll(func(n *Node) bool {
		return strings.Contains(n.ID(), substr)
	})
}
