package reactify

import (
	"sort"
	"strings"
	"sync"
)

// reservedPrefix marks attribute names that are never emitted.
const reservedPrefix = "__"

// AttrRule describes how one attribute of an allowed tag is handled.
// The zero value allows any value under the attribute's own name.
type AttrRule struct {
	// Rename is the output attribute name. Empty keeps the source name.
	Rename string

	// Values lists the accepted values when the rule is restricted.
	Values []string

	restricted bool
}

// AllowAny returns a rule that passes the attribute through with any value.
func AllowAny() AttrRule {
	return AttrRule{}
}

// AllowValues returns a rule that passes the attribute only when its value
// is one of values. With no values nothing passes.
func AllowValues(values ...string) AttrRule {
	return AttrRule{Values: values, restricted: true}
}

// As returns a copy of r that emits the attribute under name.
func (r AttrRule) As(name string) AttrRule {
	r.Rename = name
	return r
}

// Restricted reports whether the rule limits attribute values.
func (r AttrRule) Restricted() bool {
	return r.restricted
}

func (r AttrRule) outputName(attr string) string {
	if r.Rename != "" {
		return r.Rename
	}
	return attr
}

// AttrSanitizer post-processes the filtered attributes of a node. Its
// result is used as-is.
type AttrSanitizer func(attrs map[string]string) map[string]string

// TagPolicy is the policy entry for a single allowed tag.
type TagPolicy struct {
	// Rename is the output tag name. Empty keeps the source name.
	Rename string

	// NoChildren drops every child of the tag.
	NoChildren bool

	// Attributes maps source attribute names to their rules. Attributes
	// without a rule are removed.
	Attributes map[string]AttrRule

	// Sanitizer runs on the filtered attributes. Nil means identity.
	Sanitizer AttrSanitizer
}

// AcceptsChildren reports whether children of the tag are kept.
func (t *TagPolicy) AcceptsChildren() bool {
	return !t.NoChildren
}

// OutputName returns the name the tag is emitted under.
func (t *TagPolicy) OutputName(tag string) string {
	if t.Rename != "" {
		return t.Rename
	}
	return tag
}

// Policy decides which tags and attributes survive sanitization.
//
// A Policy is compiled on first use and must not be modified afterwards.
// It is safe for concurrent use once built.
type Policy struct {
	// Tags maps allowed tag names to their policy entry. Tags missing from
	// the map are removed together with their children.
	Tags map[string]*TagPolicy

	// DisallowedTags are removed even when Tags has an entry for them.
	DisallowedTags []string

	// DisallowedAttributes are glob patterns ("on*") matched against the
	// output attribute name of every attribute, on every tag.
	DisallowedAttributes []string

	once     sync.Once
	compiled *compiledPolicy
}

// compiledPolicy holds the lookup structures built from a Policy.
type compiledPolicy struct {
	tags      map[string]*compiledTag
	denyTags  map[string]bool
	denyAttrs []matcher
}

type compiledTag struct {
	output    string
	children  bool
	attrs     map[string]compiledRule
	sanitizer AttrSanitizer
}

type compiledRule struct {
	name   string
	values map[string]bool // nil allows any value
}

func (r compiledRule) permits(val string) bool {
	return r.values == nil || r.values[val]
}

func (p *Policy) compile() *compiledPolicy {
	p.once.Do(func() {
		c := &compiledPolicy{
			tags:     make(map[string]*compiledTag, len(p.Tags)),
			denyTags: make(map[string]bool, len(p.DisallowedTags)),
		}
		for _, t := range p.DisallowedTags {
			c.denyTags[t] = true
		}
		for _, pattern := range p.DisallowedAttributes {
			c.denyAttrs = append(c.denyAttrs, compileGlob(pattern))
		}
		for name, tp := range p.Tags {
			if tp == nil {
				tp = &TagPolicy{}
			}
			ct := &compiledTag{
				output:    tp.OutputName(name),
				children:  tp.AcceptsChildren(),
				attrs:     make(map[string]compiledRule, len(tp.Attributes)),
				sanitizer: tp.Sanitizer,
			}
			for attr, rule := range tp.Attributes {
				if strings.HasPrefix(attr, reservedPrefix) {
					continue
				}
				cr := compiledRule{name: rule.outputName(attr)}
				if rule.restricted {
					cr.values = make(map[string]bool, len(rule.Values))
					for _, v := range rule.Values {
						cr.values[v] = true
					}
				}
				ct.attrs[attr] = cr
			}
			c.tags[name] = ct
		}
		p.compiled = c
	})
	return p.compiled
}

func (c *compiledPolicy) attrDenied(name string) bool {
	for _, m := range c.denyAttrs {
		if m.Match(name) {
			return true
		}
	}
	return false
}

// AllowedTags returns the sorted names of the tags the policy allows,
// leaving out disallowed ones.
func (p *Policy) AllowedTags() []string {
	c := p.compile()
	tags := make([]string, 0, len(c.tags))
	for name := range c.tags {
		if !c.denyTags[name] {
			tags = append(tags, name)
		}
	}
	sort.Strings(tags)
	return tags
}
