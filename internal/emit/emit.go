// Package emit renders a resolved namespace as an indented outline, one
// declaration per line with its tags and documentation in front. The output
// is deterministic for a given namespace.
package emit

import (
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"idlimp/internal/model"
)

// Render returns the outline of ns.
func Render(ns *model.Namespace, opt Options) []byte {
	w := newWriter(opt)
	for _, b := range ns.Banner {
		w.line("// " + b)
	}
	if len(ns.Banner) > 0 {
		w.line("")
	}
	w.line("namespace " + ns.Name)
	w.indent()
	for _, imp := range ns.Imports {
		w.line("using " + imp)
	}
	for _, t := range ns.Types {
		w.line("")
		writeType(w, t)
	}
	w.dedent()
	return w.buf
}

// Write renders ns into out.
func Write(out io.Writer, ns *model.Namespace, opt Options) error {
	_, err := out.Write(Render(ns, opt))
	return err
}

func writeType(w *writer, t *model.TypeDecl) {
	writeRegions(w, t.StartRegions)
	writeComments(w, t.Comments)
	writeTags(w, t.Tags)

	head := joinWords(t.Flags.Strings(), t.Kind.String(), typeName(t.Name))
	if len(t.Bases) > 0 {
		bases := make([]string, len(t.Bases))
		for i, b := range t.Bases {
			bases[i] = b.String()
		}
		head += " : " + strings.Join(bases, ", ")
	}
	w.line(head)

	w.indent()
	if t.Kind == model.TypeEnum {
		writeEnumMembers(w, t.Members)
	} else {
		for _, m := range t.Members {
			writeMember(w, m)
		}
	}
	w.dedent()
	writeRegions(w, t.EndRegions)
}

func typeName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}

func writeMember(w *writer, m model.Member) {
	b := m.Common()
	writeRegions(w, b.StartRegions)
	writeComments(w, b.Comments)
	writeTags(w, b.Tags)

	switch m := m.(type) {
	case *model.Method:
		for _, tag := range m.ReturnTags {
			w.line("[" + tagText(tag) + "]")
		}
		params := make([]string, len(m.Params))
		for i, p := range m.Params {
			params[i] = paramText(p)
		}
		sig := joinWords(b.Flags.Strings(), m.Return.String(), m.Name) + "(" + strings.Join(params, ", ") + ")"
		if m.ReturnsNew != "" {
			sig += " => new " + m.ReturnsNew + "()"
		}
		w.line(sig)
	case *model.Property:
		if m.MarshalAs != "" {
			w.line("[" + m.MarshalAs + "]")
		}
		var acc []string
		if m.HasGet {
			acc = append(acc, accessorText("get", m.GetTags))
		}
		if m.HasSet {
			acc = append(acc, accessorText("set", m.SetTags))
		}
		w.line(joinWords(b.Flags.Strings(), "property", m.Type.String(), m.Name) + " { " + strings.Join(acc, " ") + " }")
	case *model.Field:
		w.line(joinWords(b.Flags.Strings(), "field", m.Name) + initText(m.Init))
	}
	writeRegions(w, b.EndRegions)
}

// writeEnumMembers aligns the initializers of an enum in one column.
func writeEnumMembers(w *writer, members []model.Member) {
	width := 0
	for _, m := range members {
		width = max(width, runewidth.StringWidth(m.Common().Name))
	}
	for _, m := range members {
		f, ok := m.(*model.Field)
		if !ok {
			writeMember(w, m)
			continue
		}
		writeComments(w, f.Comments)
		writeTags(w, f.Tags)
		if f.Init.Kind == model.InitNone {
			w.line(f.Name)
			continue
		}
		w.line(runewidth.FillRight(f.Name, width) + initText(f.Init))
	}
}

func initText(in model.Init) string {
	switch in.Kind {
	case model.InitLiteral:
		return " = " + strconv.FormatInt(in.Literal, 10)
	case model.InitExpr:
		return " = " + in.Expr
	}
	return ""
}

func accessorText(name string, tags []model.Tag) string {
	if len(tags) == 0 {
		return name + ";"
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = tagText(t)
	}
	return "[" + strings.Join(parts, ", ") + "] " + name + ";"
}

func paramText(p *model.Param) string {
	var sb strings.Builder
	for _, t := range p.Tags {
		sb.WriteString("[" + tagText(t) + "] ")
	}
	if p.Dir != model.DirIn {
		sb.WriteString(p.Dir.String() + " ")
	}
	sb.WriteString(p.Type.String())
	sb.WriteByte(' ')
	sb.WriteString(p.Name)
	return sb.String()
}

func writeTags(w *writer, tags []model.Tag) {
	for _, t := range tags {
		w.line("[" + tagText(t) + "]")
	}
}

func tagText(t model.Tag) string {
	if len(t.Args) == 0 {
		return t.Qualified()
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		if a.Name != "" {
			args[i] = a.Name + " = " + a.Value
		} else {
			args[i] = a.Value
		}
	}
	return t.Qualified() + "(" + strings.Join(args, ", ") + ")"
}

func writeComments(w *writer, cs []model.Comment) {
	if w.opt.NoComments {
		return
	}
	for _, c := range cs {
		prefix := "// "
		if c.Doc {
			prefix = "/// "
		}
		for _, l := range strings.Split(c.Text, "\n") {
			w.line(prefix + l)
		}
	}
}

func writeRegions(w *writer, rs []model.Region) {
	for _, r := range rs {
		if r.Start {
			w.line("#region " + r.Text)
		} else {
			w.line(strings.TrimRight("#endregion "+r.Text, " "))
		}
	}
}

func joinWords(flags []string, rest ...string) string {
	return strings.Join(append(flags, rest...), " ")
}
