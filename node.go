package reactify

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parserErrorTag is the element name parsers use to report a failed parse.
const parserErrorTag = "parsererror"

// ErrParse is matched by every *ParseError via errors.Is.
var ErrParse = errors.New("reactify: unable to parse markup")

// ParseError is returned when markup cannot be turned into a node tree.
type ParseError struct {
	// Diagnostic is the text reported by the parser.
	Diagnostic string
	// Err is the underlying reader or parser error, if any.
	Err error
}

func (e *ParseError) Error() string {
	return "Unable to parse provided HTML; " + e.Diagnostic
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// NodeKind identifies the variant held by a Node.
type NodeKind int

const (
	TextNode NodeKind = iota + 1
	ElementNode
)

func (k NodeKind) String() string {
	switch k {
	case TextNode:
		return "text"
	case ElementNode:
		return "element"
	}
	return "unknown"
}

// Attribute is a single name/value pair in source order.
type Attribute struct {
	Key, Val string
}

// Node is a parsed markup node: either text or an element.
//
// For a TextNode, Data is the text content. For an ElementNode, Data is the
// lowercased tag name, Attr holds the attributes in source order and
// Children the mapped child nodes. A nil Children slice means the source
// element had no children at all; an empty non-nil slice means it had
// children but none of them mapped to a node.
type Node struct {
	Kind     NodeKind
	Data     string
	Attr     []Attribute
	Children []*Node
}

// HasChildren reports whether the source element had any child nodes.
func (n *Node) HasChildren() bool {
	return n.Children != nil
}

// NewText returns a text node.
func NewText(s string) *Node {
	return &Node{Kind: TextNode, Data: s}
}

// NewElement returns an element node. Passing no children leaves Children
// nil; use an explicit empty slice through the struct to mark present but
// empty children.
func NewElement(tag string, attrs []Attribute, children ...*Node) *Node {
	n := &Node{Kind: ElementNode, Data: strings.ToLower(tag), Attr: attrs}
	if len(children) > 0 {
		n.Children = children
	}
	return n
}

// Parse turns markup into its top-level nodes. The markup is treated as the
// content of a <body> element; the fragment wrapper itself produces no node.
func Parse(markup string) ([]*Node, error) {
	return ParseReader(strings.NewReader(markup))
}

// ParseReader reads markup from r and parses it like Parse.
func ParseReader(r io.Reader) ([]*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	fragment, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, &ParseError{Diagnostic: err.Error(), Err: err}
	}

	if marker := findParserError(fragment); marker != nil {
		return nil, &ParseError{Diagnostic: textContent(marker)}
	}

	return convertList(fragment), nil
}

// findParserError looks for an error marker at the top level, or as the
// first element child of the first top-level element.
func findParserError(fragment []*html.Node) *html.Node {
	var first *html.Node
	for _, n := range fragment {
		if n.Type != html.ElementNode {
			continue
		}
		if strings.EqualFold(n.Data, parserErrorTag) {
			return n
		}
		if first == nil {
			first = n
		}
	}
	if first == nil {
		return nil
	}
	for c := first.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if strings.EqualFold(c.Data, parserErrorTag) {
				return c
			}
			break
		}
	}
	return nil
}

func convertList(nodes []*html.Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if c := convert(n); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// convert maps one html node. Anything other than text or an element maps
// to nil and is dropped by the caller.
func convert(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return NewText(n.Data)

	case html.ElementNode:
		node := &Node{
			Kind: ElementNode,
			Data: strings.ToLower(n.Data),
			Attr: uniqueAttrs(n.Attr),
		}
		if n.FirstChild != nil {
			var children []*html.Node
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				children = append(children, c)
			}
			node.Children = convertList(children)
		}
		return node

	default:
		// comments, doctypes, documents
		return nil
	}
}

// uniqueAttrs keeps the first occurrence of every attribute name.
func uniqueAttrs(attrs []html.Attribute) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attribute, 0, len(attrs))
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Attribute{Key: key, Val: a.Val})
	}
	return out
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
