package reactify

import (
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Output is one item of a sanitized tree: a *Text or an *Element.
type Output interface {
	// Key is a rendering identity, unique among element siblings.
	Key() string
	isOutput()
}

// Text is a text fragment. Its key is its content, so two sibling
// fragments with identical text share a key.
type Text struct {
	Content string
}

func (t *Text) Key() string { return t.Content }
func (*Text) isOutput() {}

// MarshalJSON encodes the fragment as a plain JSON string.
func (t *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Content)
}

// Element is an allowed element after sanitization.
type Element struct {
	// Tag is the output tag name, after renaming.
	Tag string
	// Attrs holds the final attribute set, after the tag sanitizer ran.
	Attrs map[string]string
	// Children is nil when the element has no children to render.
	Children []Output

	key string
}

func (e *Element) Key() string { return e.key }
func (*Element) isOutput() {}

// MarshalJSON encodes the element as an object with tagName, attributes,
// children and key. Absent children encode as null.
func (e *Element) MarshalJSON() ([]byte, error) {
	attrs := e.Attrs
	if attrs == nil {
		attrs = map[string]string{}
	}
	return json.Marshal(struct {
		TagName    string            `json:"tagName"`
		Attributes map[string]string `json:"attributes"`
		Children   []Output          `json:"children"`
		Key        string            `json:"key"`
	}{e.Tag, attrs, e.Children, e.key})
}

// Option configures a Sanitize call.
type Option func(*options)

type options struct {
	root   func([]Output) []Output
	logger *slog.Logger
}

// WithRootSanitizer sets a function applied once to the top-level output
// list before it is returned. The default is the identity.
func WithRootSanitizer(fn func([]Output) []Output) Option {
	return func(o *options) {
		if fn != nil {
			o.root = fn
		}
	}
}

// WithLogger sets the logger used to report parse failures at debug level.
// Policy violations are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		root:   func(out []Output) []Output { return out },
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Sanitize parses markup, applies p, and returns the sanitized tree.
// If p is nil, the default policy is used. A parse failure returns a nil
// tree and a *ParseError.
func Sanitize(markup string, p *Policy, opts ...Option) ([]Output, error) {
	return SanitizeReader(strings.NewReader(markup), p, opts...)
}

// SanitizeReader reads markup from r and sanitizes it like Sanitize.
func SanitizeReader(r io.Reader, p *Policy, opts ...Option) ([]Output, error) {
	o := newOptions(opts)

	nodes, err := ParseReader(r)
	if err != nil {
		o.logger.Debug("reactify: parse failed", slog.String("error", err.Error()))
		return nil, err
	}

	return o.root(SanitizeNodes(nodes, p)), nil
}

// SanitizeNodes applies p to a list of sibling nodes. Disallowed nodes
// vanish without a placeholder; the rest keep their order. A nil list
// gives nil.
func SanitizeNodes(nodes []*Node, p *Policy) []Output {
	if nodes == nil {
		return nil
	}
	if p == nil {
		p = defaultPolicy()
	}
	return sanitizeList(nodes, p.compile())
}

// SanitizeNode applies p to a single node. A text node gives one *Text and
// an element gives at most one *Element.
func SanitizeNode(n *Node, p *Policy) []Output {
	if n == nil {
		return nil
	}
	return SanitizeNodes([]*Node{n}, p)
}

func sanitizeList(nodes []*Node, c *compiledPolicy) []Output {
	out := make([]Output, 0, len(nodes))
	counts := make(map[string]int)
	for _, n := range nodes {
		if o := sanitizeNode(n, c, counts); o != nil {
			out = append(out, o)
		}
	}
	return out
}

// sanitizeNode converts n, or returns nil when the policy removes it.
// counts is the occurrence counter of the sibling list n belongs to.
func sanitizeNode(n *Node, c *compiledPolicy, counts map[string]int) Output {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case TextNode:
		return &Text{Content: n.Data}

	case ElementNode:
		if c.denyTags[n.Data] {
			return nil
		}
		tag, ok := c.tags[n.Data]
		if !ok {
			return nil
		}

		el := &Element{
			Tag:   tag.output,
			Attrs: filterAttrs(n.Attr, tag, c),
			key:   nextKey(counts, tag.output),
		}
		if tag.sanitizer != nil {
			el.Attrs = tag.sanitizer(el.Attrs)
		}
		if tag.children && n.HasChildren() {
			el.Children = sanitizeList(n.Children, c)
		}
		return el
	}

	return nil
}

// filterAttrs keeps the attributes that have a rule, pass its value set and
// whose output name matches no deny pattern. Colliding output names keep the
// last value.
func filterAttrs(attrs []Attribute, tag *compiledTag, c *compiledPolicy) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if strings.HasPrefix(a.Key, reservedPrefix) {
			continue
		}
		rule, ok := tag.attrs[a.Key]
		if !ok {
			continue
		}
		if c.attrDenied(rule.name) {
			continue
		}
		if !rule.permits(a.Val) {
			continue
		}
		out[rule.name] = a.Val
	}
	return out
}

// nextKey bumps the counter for name and returns "<name>_<n>".
func nextKey(counts map[string]int, name string) string {
	counts[name]++
	return name + "_" + strconv.Itoa(counts[name])
}
