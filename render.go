package reactify

import (
	"bytes"
	"io"
	"sort"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// RenderHTML writes out as HTML. Attributes are written in sorted order so
// the result is deterministic; text is escaped.
func RenderHTML(w io.Writer, out []Output) error {
	for _, o := range out {
		if err := html.Render(w, toHTML(o)); err != nil {
			return err
		}
	}
	return nil
}

func toHTML(o Output) *html.Node {
	switch v := o.(type) {
	case *Text:
		return &html.Node{Type: html.TextNode, Data: v.Content}
	case *Element:
		n := &html.Node{Type: html.ElementNode, Data: v.Tag}
		for _, k := range sortedKeys(v.Attrs) {
			n.Attr = append(n.Attr, html.Attribute{Key: k, Val: v.Attrs[k]})
		}
		for _, c := range v.Children {
			n.AppendChild(toHTML(c))
		}
		return n
	}
	return &html.Node{Type: html.TextNode}
}

// ToNodes converts sanitized output back into generic nodes, so it can be
// sanitized again. Absent children stay absent.
func ToNodes(out []Output) []*Node {
	if out == nil {
		return nil
	}
	nodes := make([]*Node, 0, len(out))
	for _, o := range out {
		switch v := o.(type) {
		case *Text:
			nodes = append(nodes, NewText(v.Content))
		case *Element:
			n := &Node{Kind: ElementNode, Data: v.Tag}
			for _, k := range sortedKeys(v.Attrs) {
				n.Attr = append(n.Attr, Attribute{Key: k, Val: v.Attrs[k]})
			}
			n.Children = ToNodes(v.Children)
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// StripTags returns the plain text of markup after sanitizing it with the
// default policy. Entity references are decoded.
func StripTags(markup string) (string, error) {
	out, err := Sanitize(markup, nil)
	if err != nil {
		return "", err
	}
	return PlainText(out)
}

// PlainText renders out and strips every remaining tag, leaving decoded
// text only.
func PlainText(out []Output) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, out); err != nil {
		return "", err
	}
	text := bluemonday.StrictPolicy().Sanitize(buf.String())
	return html.UnescapeString(text), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
