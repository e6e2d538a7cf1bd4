package props

import (
	"idlimp/internal/diag"
	"idlimp/internal/model"
	"idlimp/internal/resolve"
)

// MergeProperties folds same-named properties of each type into the first
// one. A getter that follows a setter is reported, merged anyway, and makes
// the result false.
func MergeProperties(ctx *resolve.Context, ns *model.Namespace) bool {
	ok := true
	for _, t := range ns.Types {
		for i := 0; i < len(t.Members); i++ {
			first, isProp := t.Members[i].(*model.Property)
			if !isProp {
				continue
			}
			for j := i + 1; j < len(t.Members); {
				second, isProp := t.Members[j].(*model.Property)
				if !isProp || second.Name != first.Name {
					j++
					continue
				}
				if !merge(ctx, t, first, second) {
					ok = false
				}
				t.RemoveMember(j)
			}
		}
	}
	return ok
}

func merge(ctx *resolve.Context, t *model.TypeDecl, first, second *model.Property) bool {
	if second.HasSet {
		first.HasSet = true
		if second.SetTags != nil {
			first.SetTags = second.SetTags
		}
	}
	if !second.HasGet {
		return true
	}

	msg := "[propget] after [propput/propputref] in " + t.Name + "." + first.Name +
		". For properties to work in .NET [propget] needs to be defined before [propput]."
	diag.ReportError(ctx.Reporter, diag.PrpGetAfterPut, t.Name+"."+first.Name, msg).Emit()
	ctx.Log.Error(msg)

	first.HasGet = true
	if second.GetTags != nil {
		first.GetTags = second.GetTags
	}
	return false
}
