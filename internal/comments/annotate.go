package comments

import (
	"strings"
	"unicode/utf8"

	"idlimp/internal/model"
)

const wrapAt = 80

// Annotate adds documentation comments to every type of ns, and to its
// members, that carries none yet. Undocumented declarations get generated
// placeholders.
func Annotate(ns *model.Namespace, table *Table) {
	for _, t := range ns.Types {
		annotateType(t, table)
	}
}

func lookupType(table *Table, name string) *Entry {
	if e, ok := table.Lookup(name); ok {
		return e
	}
	// IDH files document interface IFoo as Foo
	if len(name) > 1 {
		if e, ok := table.Lookup(name[1:]); ok {
			return e
		}
	}
	return nil
}

func annotateType(t *model.TypeDecl, table *Table) {
	if len(t.Comments) > 0 {
		return
	}
	own := lookupType(table, t.Name)
	var bases []*Entry
	for _, b := range t.Bases {
		if e := lookupType(table, b.Name); e != nil {
			bases = append(bases, e)
		}
	}

	text := t.Name
	if own != nil {
		text = own.Summary
	}
	t.Comments = append(t.Comments, summary(text))

	find := func(name string) *Entry {
		if c := own.Child(name); c != nil {
			return c
		}
		for _, b := range bases {
			if c := b.Child(name); c != nil {
				return c
			}
		}
		return nil
	}

	for _, m := range t.Members {
		b := m.Common()
		if b.Name == "" || len(b.Comments) > 0 {
			continue
		}
		if t.Kind == model.TypeClass && !b.Flags.Has(model.FlagPublic|model.FlagInternal) {
			continue
		}
		doc := find(b.Name)
		switch m := m.(type) {
		case *model.Method:
			if doc == nil {
				if rest, ok := cutAccessor(m.Name); ok {
					doc = find(rest)
				}
			}
			annotateMethod(m, doc)
		case *model.Property:
			annotateProperty(m, doc)
		case *model.Field:
			text := ""
			if doc != nil {
				text = doc.Summary
			}
			m.Comments = append(m.Comments, summary(text))
		}
		if doc != nil {
			b.Comments = append(b.Comments, exceptions(doc)...)
		}
	}
}

func cutAccessor(name string) (string, bool) {
	if rest, ok := strings.CutPrefix(name, "get_"); ok {
		return rest, true
	}
	return strings.CutPrefix(name, "set_")
}

func annotateMethod(m *model.Method, doc *Entry) {
	text := "Member " + m.Name
	if doc != nil {
		text = doc.Summary
	}
	m.Comments = append(m.Comments, summary(text))

	for _, p := range m.Params {
		text := ""
		if c := doc.Child(p.Name); c != nil {
			text = c.Summary
		}
		m.Comments = append(m.Comments, model.Comment{Text: "<param name='" + p.Name + "'>" + text + " </param>", Doc: true})
	}

	if m.Return.IsVoid() {
		return
	}
	text = "A " + m.Return.String()
	if doc != nil {
		if rv, ok := doc.Attributes["retval"]; ok {
			if c := doc.Child(rv); c != nil {
				text = c.Summary
			}
		}
	}
	m.Comments = append(m.Comments, model.Comment{Text: "<returns>" + text + "</returns>", Doc: true})
}

func annotateProperty(p *model.Property, doc *Entry) {
	var text string
	if doc != nil {
		text = doc.Summary
	} else {
		var verbs []string
		if p.HasGet {
			verbs = append(verbs, "Gets")
		}
		if p.HasSet {
			verbs = append(verbs, "Sets")
		}
		text = strings.Join(verbs, "/") + " a " + p.Name
	}
	p.Comments = append(p.Comments,
		summary(text),
		model.Comment{Text: "<returns>A " + p.Type.String() + " </returns>", Doc: true})
}

func exceptions(doc *Entry) []model.Comment {
	list, ok := doc.Attributes["exception"]
	if !ok {
		return nil
	}
	var out []model.Comment
	for _, name := range strings.Split(list, ",") {
		out = append(out, model.Comment{
			Text: `<exception cref="` + name + `">` + doc.Attributes[name] + "</exception>",
			Doc:  true,
		})
	}
	return out
}

// summary puts long texts on their own lines.
func summary(text string) model.Comment {
	if utf8.RuneCountInString(text) > wrapAt {
		return model.Comment{Text: "<summary>\n" + text + "\n</summary>", Doc: true}
	}
	return model.Comment{Text: "<summary>" + text + " </summary>", Doc: true}
}
