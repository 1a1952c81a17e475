package reactify

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSanitizer is returned when a policy file names a sanitizer that
// was never registered.
var ErrUnknownSanitizer = errors.New("reactify: unknown sanitizer")

// policyFile is the on-disk shape of a Policy.
type policyFile struct {
	DisallowedTags       *[]string           `yaml:"disallowedTags"`
	DisallowedAttributes *[]string           `yaml:"disallowedAttributes"`
	Tags                 map[string]*tagFile `yaml:"tags"`
}

type tagFile struct {
	Rename     string              `yaml:"rename"`
	Children   *bool               `yaml:"children"`
	Sanitizer  string              `yaml:"sanitizer"`
	Attributes map[string]ruleFile `yaml:"attributes"`
}

// ruleFile accepts the three rule shapes: a boolean, a bare list of
// allowed values, or a mapping with allowed and rename keys.
type ruleFile struct {
	deny bool
	rule AttrRule
}

func (r *ruleFile) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var allow bool
		if err := value.Decode(&allow); err != nil {
			return fmt.Errorf("line %d: attribute rule must be a boolean, list or mapping", value.Line)
		}
		r.deny = !allow
		r.rule = AllowAny()

	case yaml.SequenceNode:
		var values []string
		if err := value.Decode(&values); err != nil {
			return fmt.Errorf("line %d: allowed values: %w", value.Line, err)
		}
		r.rule = AllowValues(values...)

	case yaml.MappingNode:
		var m struct {
			Allowed *[]string `yaml:"allowed"`
			Rename  string    `yaml:"rename"`
		}
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("line %d: attribute rule: %w", value.Line, err)
		}
		r.rule = AllowAny()
		if m.Allowed != nil {
			r.rule = AllowValues(*m.Allowed...)
		}
		r.rule = r.rule.As(m.Rename)

	default:
		return fmt.Errorf("line %d: attribute rule must be a boolean, list or mapping", value.Line)
	}
	return nil
}

// LoadPolicy decodes a YAML (or JSON) policy document.
//
// When neither disallowedTags nor disallowedAttributes is present, the
// built-in deny lists (script, on*) apply.
func LoadPolicy(r io.Reader) (*Policy, error) {
	var f policyFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reactify: decode policy: %w", err)
	}

	p := &Policy{Tags: make(map[string]*TagPolicy, len(f.Tags))}

	if f.DisallowedTags == nil && f.DisallowedAttributes == nil {
		p.DisallowedTags = append([]string(nil), defaultDisallowedTags...)
		p.DisallowedAttributes = append([]string(nil), defaultDisallowedAttributes...)
	} else {
		if f.DisallowedTags != nil {
			p.DisallowedTags = *f.DisallowedTags
		}
		if f.DisallowedAttributes != nil {
			p.DisallowedAttributes = *f.DisallowedAttributes
		}
	}

	for name, tf := range f.Tags {
		tp := &TagPolicy{}
		if tf != nil {
			tp.Rename = tf.Rename
			tp.NoChildren = tf.Children != nil && !*tf.Children
			if tf.Sanitizer != "" {
				fn, ok := LookupSanitizer(tf.Sanitizer)
				if !ok {
					return nil, fmt.Errorf("tag %q: %w %q", name, ErrUnknownSanitizer, tf.Sanitizer)
				}
				tp.Sanitizer = fn
			}
			tp.Attributes = make(map[string]AttrRule, len(tf.Attributes))
			for attr, rf := range tf.Attributes {
				if rf.deny {
					continue
				}
				tp.Attributes[attr] = rf.rule
			}
		}
		p.Tags[name] = tp
	}

	return p, nil
}

// LoadPolicyFile reads a policy document from path.
func LoadPolicyFile(path string) (*Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reactify: open policy: %w", err)
	}
	defer f.Close()

	return LoadPolicy(f)
}
