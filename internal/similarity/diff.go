package similarity

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffMarkup renders the character differences from a to b as
// "[-removed-]" and "{+added+}" runs around the shared text.
func DiffMarkup(a, b string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
