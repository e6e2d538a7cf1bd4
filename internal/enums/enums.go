// Package enums builds enum members and qualifies references to members of
// other enums, which IDL allows unqualified but the target language does not.
package enums

import (
	"regexp"
	"strconv"
	"strings"

	"idlimp/internal/diag"
	"idlimp/internal/errors"
	"idlimp/internal/model"
	"idlimp/internal/resolve"
)

// ErrDuplicateMember is returned when two enums of a unit declare the same
// member name. It aborts the import.
var ErrDuplicateMember = errors.New("duplicate enum member")

var identRe = regexp.MustCompile(`\b[A-Za-z_]\w*`)

// pending is an initializer that referenced a name not declared yet.
type pending struct {
	enum  string
	raw   string
	field int
}

// Resolver creates enum members and keeps the forward references for one
// AdjustReferences pass.
type Resolver struct {
	ctx      *resolve.Context
	fields   []*model.Field
	pending  []pending
	adjusted bool
}

func NewResolver(ctx *resolve.Context) *Resolver {
	return &Resolver{ctx: ctx}
}

// CreateMember declares name in enum with the initializer text raw. An empty
// enum name stands for an anonymous enum whose members are not registered.
func (r *Resolver) CreateMember(enum, name, raw string) (*model.Field, error) {
	if owner, ok := r.ctx.EnumOwner(name); ok && owner != enum {
		diag.ReportFatal(r.ctx.Reporter, diag.EnmDuplicateMember, enum+"."+name,
			name+" is defined in both "+enum+" and "+owner).
			WithNote(owner+"."+name, "first defined here").
			Emit()
		return nil, errors.WithHint(
			errors.Wrapf(ErrDuplicateMember, "%s is defined in both %s and %s", name, enum, owner),
			"enum member names share one scope across the whole unit")
	}
	if enum != "" {
		r.ctx.SetEnumOwner(name, enum)
	}

	f := &model.Field{MemberBase: model.MemberBase{Name: name, Flags: model.FlagPublic}}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return f, nil
	}
	if v, ok := parseLiteral(raw); ok {
		f.Init = model.Init{Kind: model.InitLiteral, Literal: v}
		return f, nil
	}

	expr, deferred := r.qualify(enum, raw, false)
	f.Init = model.Init{Kind: model.InitExpr, Expr: expr}
	if deferred {
		r.fields = append(r.fields, f)
		r.pending = append(r.pending, pending{enum: enum, raw: raw, field: len(r.fields) - 1})
	}
	return f, nil
}

// AdjustReferences re-resolves every deferred initializer now that all enums
// are known. Names still unknown are left as written. Later calls do nothing.
func (r *Resolver) AdjustReferences() {
	if r.adjusted {
		return
	}
	r.adjusted = true
	for _, p := range r.pending {
		expr, _ := r.qualify(p.enum, p.raw, true)
		r.fields[p.field].Init.Expr = expr
	}
	r.pending = nil
}

// Pending returns the number of initializers waiting for AdjustReferences.
func (r *Resolver) Pending() int { return len(r.pending) }

// qualify prefixes identifiers owned by another enum with that enum's name.
// Unless final, it stops at the first unknown identifier and reports the
// expression as deferred.
func (r *Resolver) qualify(enum, raw string, final bool) (string, bool) {
	out := raw
	locs := identRe.FindAllStringIndex(raw, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		start, end := locs[i][0], locs[i][1]
		if start > 0 && raw[start-1] == '.' {
			continue
		}
		ident := raw[start:end]
		owner, ok := r.ctx.EnumOwner(ident)
		if !ok {
			if !final {
				return out, true
			}
			continue
		}
		if owner != enum {
			out = out[:start] + owner + "." + ident + out[end:]
		}
	}
	return out, false
}

// parseLiteral accepts decimal and 0x-prefixed hexadecimal 32-bit integers.
// Hex values wrap like a two's complement int.
func parseLiteral(s string) (int64, bool) {
	if v, err := strconv.ParseInt(s, 10, 32); err == nil {
		return v, true
	}
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return int64(int32(uint32(v))), true
		}
	}
	return 0, false
}
