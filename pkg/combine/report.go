// File: pkg/combine/report.go
package combine

import (
	"fmt"
	"strings"

	"repototext/pkg/rules"
	"repototext/pkg/serialize"
	"repototext/pkg/walker"
)

// debugReport describes the resolved rules, the walk counters and every
// skipped file.
func debugReport(root string, rs *rules.RuleSet, w *walker.Walker, ser *serialize.Serializer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "root: %s\n", root)
	b.WriteString(rs.Describe())
	b.WriteString("\n\n")

	st := w.Stats()
	fmt.Fprintf(&b, "directories: %d (pruned: %d)\n", st.Dirs, st.PrunedDirs)
	fmt.Fprintf(&b, "files seen: %d\n", st.Files)
	fmt.Fprintf(&b, "files accepted: %d\n", st.Accepted)
	fmt.Fprintf(&b, "files excluded: %d\n", st.Excluded)
	fmt.Fprintf(&b, "files written: %d\n", ser.Written())
	fmt.Fprintf(&b, "errors: %d\n", st.Errors)

	skipped := append(append([]walker.SkippedItem(nil), w.Skipped()...), ser.Skipped()...)
	if len(skipped) > 0 {
		b.WriteString("\nskipped:\n")
		for _, s := range skipped {
			fmt.Fprintf(&b, "  %s: %s\n", s.Path, s.Reason)
		}
	}
	return b.String()
}
