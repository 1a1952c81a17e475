package reactify

import (
	"strings"
	"sync"
)

// Default deny lists shared by the built-in policies.
var (
	defaultDisallowedTags       = []string{"script"}
	defaultDisallowedAttributes = []string{"on*"}
)

// classAttrs maps the HTML class attribute to the host's className.
func classAttrs() map[string]AttrRule {
	return map[string]AttrRule{
		"class": AllowAny().As("className"),
	}
}

// DefaultPolicy returns a Policy allowing headings, paragraphs, basic
// formatting, line breaks, sectioning elements and links. Every tag maps
// class to className. Links may carry href, rel="noreferrer" and
// target="" or "_blank", and always get rel="noreferrer" with a blank
// target. Script tags and on* attributes are denied.
//
// Each call returns a new Policy the caller may modify before first use.
func DefaultPolicy() *Policy {
	tags := make(map[string]*TagPolicy)
	for _, name := range []string{
		"article", "b", "div", "em",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"i", "p", "section", "span", "strong",
	} {
		tags[name] = &TagPolicy{Attributes: classAttrs()}
	}

	tags["br"] = &TagPolicy{Attributes: classAttrs(), NoChildren: true}

	anchor := classAttrs()
	anchor["href"] = AllowAny()
	anchor["rel"] = AllowValues("noreferrer")
	anchor["target"] = AllowValues("", "_blank")
	tags["a"] = &TagPolicy{Attributes: anchor, Sanitizer: NoReferrer}

	return &Policy{
		Tags:                 tags,
		DisallowedTags:       append([]string(nil), defaultDisallowedTags...),
		DisallowedAttributes: append([]string(nil), defaultDisallowedAttributes...),
	}
}

// StrictPolicy returns a Policy that allows only basic inline formatting
// and paragraphs, with no attributes at all. Suitable for comments and
// other short user content.
func StrictPolicy() *Policy {
	tags := make(map[string]*TagPolicy)
	for _, name := range []string{"b", "i", "em", "strong", "p"} {
		tags[name] = &TagPolicy{}
	}
	tags["br"] = &TagPolicy{NoChildren: true}

	return &Policy{
		Tags:                 tags,
		DisallowedTags:       append([]string(nil), defaultDisallowedTags...),
		DisallowedAttributes: append([]string(nil), defaultDisallowedAttributes...),
	}
}

// NoReferrer forces rel="noreferrer" on attribute sets whose target is
// _blank, in any letter case. Other attribute sets are returned unchanged.
func NoReferrer(attrs map[string]string) map[string]string {
	if !strings.EqualFold(attrs["target"], "_blank") {
		return attrs
	}
	out := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	out["rel"] = "noreferrer"
	return out
}

var (
	sharedDefaultOnce sync.Once
	sharedDefault     *Policy
)

// defaultPolicy is the frozen policy used when callers pass nil. It is never
// handed out, so nothing can modify it.
func defaultPolicy() *Policy {
	sharedDefaultOnce.Do(func() {
		sharedDefault = DefaultPolicy()
		sharedDefault.compile()
	})
	return sharedDefault
}
