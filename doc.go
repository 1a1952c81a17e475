// Package reactify turns untrusted markup into a policy-filtered tree that
// a UI layer can render without re-checking it.
//
// # Overview
//
// reactify parses a markup string with the golang.org/x/net/html fragment
// parser into a tree of [Node] values, then walks the tree against a
// [Policy] and returns a list of [Output] values: [*Element] nodes carrying
// their output tag name, final attribute map, children and a stable
// rendering key, and [*Text] fragments.
//
// # Policies
//
// A [Policy] controls:
//   - Which tags are allowed ([Policy.Tags]); every other tag is removed
//     together with its children
//   - Per tag, which attributes are allowed, optionally limited to a fixed
//     set of values ([AllowValues]) and renamed ([AttrRule.As])
//   - Per tag, an output name, whether children are kept, and an
//     [AttrSanitizer] that has the final say over the attribute map
//   - Tags that are always removed ([Policy.DisallowedTags]) and attribute
//     name globs that are always removed ([Policy.DisallowedAttributes])
//
// Two built-in policies are provided:
//   - [DefaultPolicy] allows headings, paragraphs, basic formatting, line
//     breaks, sectioning elements and links, maps class to className and
//     forces rel="noreferrer" on links that open a blank target.
//   - [StrictPolicy] allows only basic inline formatting with no attributes.
//
// Policies can also be loaded from YAML with [LoadPolicy]; named sanitizers
// for such files are registered with [RegisterSanitizer].
//
// # Keys
//
// Each element gets the key "<tag>_<n>", where n counts elements with the
// same output tag name among its siblings, starting at 1. Text fragments
// are keyed by their content.
//
// # Errors
//
// Anything a policy does not allow is dropped silently. The only error is
// a [*ParseError], returned when the markup cannot be parsed or contains a
// parsererror marker element.
//
// # Thread Safety
//
// Sanitize and the other top-level functions are safe for concurrent use.
// Policy values must not be mutated after first use.
//
// # Example
//
//	out, err := reactify.Sanitize(userInput, reactify.DefaultPolicy())
package reactify
