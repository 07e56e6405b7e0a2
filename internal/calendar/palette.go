package calendar

import "sort"

// Palette is the fixed set of court card colors.
var Palette = []string{
	"#2563eb",
	"#16a34a",
	"#d97706",
	"#dc2626",
	"#7c3aed",
	"#0891b2",
	"#db2777",
	"#4b5563",
}

// CourtColors assigns each court a palette color by its position in the
// sorted id list, so the same set of courts always gets the same colors.
func CourtColors(courtIDs []string) map[string]string {
	ids := append([]string(nil), courtIDs...)
	sort.Strings(ids)
	out := make(map[string]string, len(ids))
	i := 0
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = Palette[i%len(Palette)]
		i++
	}
	return out
}
