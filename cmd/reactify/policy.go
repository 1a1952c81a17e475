package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elementofdesign/reactify"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Show the tags and attributes a policy allows",
	Long: `Print a summary of the policy given with --policy, or of the built-in
default policy.

Each allowed tag is listed with its output name, whether it keeps children,
and its attribute rules. Deny lists are printed last.

Examples:
  # Show the default policy
  reactify policy

  # Show a custom policy
  reactify policy --policy policy.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := loadPolicy()
		if err != nil {
			return err
		}
		if p == nil {
			p = reactify.DefaultPolicy()
		}
		return describePolicy(cmd.OutOrStdout(), p)
	},
}

func init() {
	rootCmd.AddCommand(policyCmd)
}

func describePolicy(w io.Writer, p *reactify.Policy) error {
	for _, name := range p.AllowedTags() {
		tag := p.Tags[name]
		if tag == nil {
			tag = &reactify.TagPolicy{}
		}

		line := name
		if out := tag.OutputName(name); out != name {
			line += " -> " + out
		}
		if !tag.AcceptsChildren() {
			line += " (no children)"
		}
		if tag.Sanitizer != nil {
			line += " (sanitizer)"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}

		attrs := make([]string, 0, len(tag.Attributes))
		for attr := range tag.Attributes {
			attrs = append(attrs, attr)
		}
		sort.Strings(attrs)
		for _, attr := range attrs {
			if _, err := fmt.Fprintf(w, "  %s\n", describeRule(attr, tag.Attributes[attr])); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "denied tags: %s\ndenied attributes: %s\n",
		strings.Join(p.DisallowedTags, ", "), strings.Join(p.DisallowedAttributes, ", "))
	return err
}

func describeRule(attr string, rule reactify.AttrRule) string {
	s := attr
	if rule.Rename != "" {
		s += " -> " + rule.Rename
	}
	if rule.Restricted() {
		quoted := make([]string, len(rule.Values))
		for i, v := range rule.Values {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		s += " = " + strings.Join(quoted, " | ")
	}
	return s
}
