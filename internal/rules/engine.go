package rules

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"fortio.org/safecast"

	"idlimp/internal/attr"
	"idlimp/internal/diag"
	"idlimp/internal/interop"
	"idlimp/internal/model"
	"idlimp/internal/resolve"
)

var (
	paramNameRe  = regexp.MustCompile(`\s+\S+\W*$`) // trailing name and punctuation
	emptyArrayRe = regexp.MustCompile(`\[\s*\]\s*$`)
)

// Engine applies a Config to parameters.
type Engine struct {
	cfg *Config
	ctx *resolve.Context
}

func NewEngine(cfg *Config, ctx *resolve.Context) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Engine{cfg: cfg, ctx: ctx}
}

// ConvertParamType rewrites the raw parameter text (type and name, as written
// in IDL) through the type rules and returns the resulting type. When p is
// not nil the attributes are consumed into it: direction, pending size_is and
// retval markers, and pass-through tags. attrs is empty afterwards.
func (e *Engine) ConvertParamType(raw string, p *model.Param, attrs *attr.Set) model.TypeRef {
	text := raw
	for _, r := range e.cfg.ParamTypes {
		if !r.Match.MatchString(text) || !conditionsHold(r, attrs) {
			continue
		}
		text = r.Match.ReplaceAllString(text, r.Replace)
		applyAdditions(r, p, attrs)
		if r.End {
			break
		}
	}

	text = paramNameRe.ReplaceAllString(strings.TrimLeftFunc(text, unicode.IsSpace), "")
	typ := model.Ref(text)
	if emptyArrayRe.MatchString(text) {
		typ = model.TypeRef{Name: emptyArrayRe.ReplaceAllString(text, ""), ArrayRank: 1}
	}

	if p != nil {
		p.Dir = direction(attrs)
		if a, ok := attrs.Take(attr.KindSizeIs); ok && a.Value != "" {
			p.SizeIs = a.Value
		}
		attrs.Take(attr.KindString)
		if a, ok := attrs.Take(attr.KindRetval); ok {
			p.Retval = a.Truthy()
		}
		attrs.Take(attr.KindIsArray)
		p.Tags = append(p.Tags, interop.DrainTags(attrs)...)
	}
	attrs.Clear()
	return typ
}

// conditionsHold evaluates the attribute chain of r. The anchor (first entry)
// must also satisfy the rule's value constraints when it is required.
func conditionsHold(r *Rule, attrs *attr.Set) bool {
	for i, c := range r.Conditions {
		a, present := attrs.Lookup(canonical(c.Key))
		if c.Negate {
			if present {
				return false
			}
			continue
		}
		if !present {
			return false
		}
		if i == 0 && !anchorMatches(r, a) {
			return false
		}
	}
	return true
}

func anchorMatches(r *Rule, a attr.Attribute) bool {
	if r.HasAttrValue && (!a.HasValue || a.Value != r.AttrValue) {
		return false
	}
	if r.AttrValueName != "" && a.Name != r.AttrValueName {
		return false
	}
	return true
}

func applyAdditions(r *Rule, p *model.Param, attrs *attr.Set) {
	for i, add := range r.Additions {
		if key, ok := strings.CutPrefix(add, "-"); ok {
			attrs.Remove(canonical(key))
			continue
		}
		if i != 0 || p == nil {
			continue
		}
		tag := model.NewTag(add)
		if r.HasNewAttrValue {
			tag.Args = []model.TagArg{{Name: r.NewAttrValueName, Value: r.NewAttrValue}}
		}
		p.Tags = append(p.Tags, tag)
	}
}

func canonical(key string) string { return attr.New(key).Key }

func direction(attrs *attr.Set) model.Direction {
	out, hasOut := attrs.Take(attr.KindOut)
	in, hasIn := attrs.Take(attr.KindIn)
	switch {
	case hasOut && out.Truthy() && hasIn && in.Truthy():
		return model.DirInOut
	case hasOut && out.Truthy():
		return model.DirOut
	default:
		return model.DirIn
	}
}

// ConvertParamName applies, in order, every name rule whose pattern matches
// the raw name. Each rewrite works on the output of the previous one. Leading
// whitespace is trimmed last.
func (e *Engine) ConvertParamName(raw string) string {
	out := raw
	for _, r := range e.cfg.ParamNames {
		if r.Match.MatchString(raw) {
			out = r.Match.ReplaceAllString(out, r.Replace)
		}
	}
	return strings.TrimLeftFunc(out, unicode.IsSpace)
}

// ResolveSizeIs turns the pending size_is markers of m into MarshalAs
// arguments once all parameters are known: SizeConst for a number,
// SizeParamIndex for a sibling parameter. A sibling that does not exist is
// reported and, unless the method is restricted, leaves a warning attribute
// on methodAttrs for the method's remarks. subject names the method in
// diagnostics.
func (e *Engine) ResolveSizeIs(subject string, m *model.Method, methodAttrs *attr.Set) {
	for _, p := range m.Params {
		if p.SizeIs == "" {
			continue
		}
		ref := e.ConvertParamName(p.SizeIs)
		p.SizeIs = ""

		var arg model.TagArg
		if n, err := strconv.Atoi(ref); err == nil {
			v, cerr := safecast.Conv[int32](n)
			if cerr != nil {
				e.report(diag.RulSizeIsUnresolved, subject, "size_is constant "+ref+" out of range for parameter "+p.Name)
				continue
			}
			arg = model.TagArg{Name: interop.ArgSizeConst, Value: strconv.Itoa(int(v))}
		} else {
			idx := m.ParamIndex(ref)
			if idx < 0 {
				if methodAttrs.Has(attr.KindRestricted) {
					continue
				}
				e.report(diag.RulSizeIsUnresolved, subject,
					"couldn't find size_is parameter "+ref+" for parameter "+p.Name)
				methodAttrs.Put(attr.WithValue("warning",
					"NOTE: This method probably doesn't work since it caused an error on IDL import for parameter "+p.Name))
				continue
			}
			v, cerr := safecast.Conv[int16](idx)
			if cerr != nil {
				e.report(diag.RulSizeIsUnresolved, subject, "size_is index out of range for parameter "+p.Name)
				continue
			}
			arg = model.TagArg{Name: interop.ArgSizeParamIndex, Value: strconv.Itoa(int(v))}
		}

		for i := range p.Tags {
			if p.Tags[i].Name == interop.TagMarshalAs {
				p.Tags[i].Args = append(p.Tags[i].Args, arg)
			}
		}
	}
}

func (e *Engine) report(code diag.Code, subject, msg string) {
	if e.ctx == nil {
		return
	}
	diag.ReportError(e.ctx.Reporter, code, subject, msg).Emit()
	e.ctx.Log.Error(subject + ": " + msg)
}
