// Package rules applies the configurable conversion rules that turn raw IDL
// parameter text into interop types and names.
//
// A rule matches the parameter text with a regular expression and may require
// a chain of attributes; when it fires the text is rewritten with the rule's
// template and attributes may be added to the parameter or removed from the
// live attribute set. Rule files are TOML, or the legacy XML layout.
package rules

import (
	"regexp"
	"strings"

	"idlimp/internal/errors"
)

// Condition is one entry of a rule's required-attribute chain.
type Condition struct {
	Key    string
	Negate bool
}

// Rule is a compiled conversion rule.
type Rule struct {
	Match   *regexp.Regexp
	Replace string

	// Conditions are checked in order; the first is the anchor.
	Conditions []Condition
	// AttrValue and AttrValueName constrain the anchor's argument.
	AttrValue     string
	HasAttrValue  bool
	AttrValueName string

	// Additions holds the add-list; only the first non-removal entry at
	// position one is ever added. Removals are "-key" entries.
	Additions        []string
	NewAttrValue     string
	HasNewAttrValue  bool
	NewAttrValueName string

	// End stops rule evaluation after this rule fires.
	End bool
}

// entry is the on-disk form shared by the TOML and XML loaders.
type entry struct {
	Attribute    string `toml:"attributes" xml:"Attribute"`
	AttrValue    string `toml:"attr_value" xml:"AttrValue"`
	Match        string `toml:"match" xml:"Match"`
	Replace      string `toml:"replace" xml:"Replace"`
	NewAttribute string `toml:"new_attribute" xml:"NewAttribute"`
	NewAttrValue string `toml:"new_attr_value" xml:"NewAttrValue"`
	End          *bool  `toml:"end" xml:"fEnd"`
}

func (e entry) compile() (*Rule, error) {
	if e.Match == "" {
		return nil, errors.New("rule has no match pattern")
	}
	re, err := regexp.Compile(e.Match)
	if err != nil {
		return nil, errors.Wrapf(err, "compile %q", e.Match)
	}
	r := &Rule{
		Match:   re,
		Replace: dotnetTemplate(e.Replace),
		End:     e.End == nil || *e.End,
	}
	for _, raw := range splitList(e.Attribute) {
		c := Condition{Key: raw}
		if strings.HasPrefix(raw, "~") {
			c = Condition{Key: raw[1:], Negate: true}
		}
		r.Conditions = append(r.Conditions, c)
	}
	if e.AttrValue != "" {
		r.AttrValueName, r.AttrValue = splitValue(e.AttrValue)
		r.HasAttrValue = true
	}
	r.Additions = splitList(e.NewAttribute)
	if e.NewAttrValue != "" {
		r.NewAttrValueName, r.NewAttrValue = splitValue(e.NewAttrValue)
		r.HasNewAttrValue = true
	}
	return r, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitValue reads "name=value" or "value"; with several '=' the first part
// is the name and the last the value.
func splitValue(s string) (name, value string) {
	parts := strings.Split(s, "=")
	if len(parts) == 1 {
		return "", s
	}
	return parts[0], parts[len(parts)-1]
}

// dotnetTemplate rewrites "$1" style group references to the braced form so
// that a reference directly followed by letters ("$1Ptr") is not read as a
// named group.
func dotnetTemplate(tmpl string) string {
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}
	var sb strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 >= len(tmpl) {
			sb.WriteByte(c)
			continue
		}
		next := tmpl[i+1]
		switch {
		case next == '$':
			sb.WriteString("$$")
			i++
		case next == '&':
			sb.WriteString("${0}")
			i++
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
				j++
			}
			sb.WriteString("${" + tmpl[i+1:j] + "}")
			i = j - 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
