package diagnostics

import (
	"sort"
	"strings"

	"github.com/latentlab/semgen/internal/config"
)

// InferConstructMap groups indicator columns by the prefix before the first
// underscore, for diagnosing uploaded data without a model configuration.
// Columns without an underscore-delimited prefix are skipped. Constructs are
// ordered by first appearance; columns within a construct sort
// lexicographically, which matches the {name}_{01..n} convention.
func InferConstructMap(columns []string) []config.ConstructColumns {
	var order []string
	grouped := make(map[string][]string)
	for _, col := range columns {
		idx := strings.Index(col, "_")
		if idx <= 0 {
			continue
		}
		prefix := strings.TrimSpace(col[:idx])
		if prefix == "" {
			continue
		}
		if _, seen := grouped[prefix]; !seen {
			order = append(order, prefix)
		}
		grouped[prefix] = append(grouped[prefix], col)
	}

	out := make([]config.ConstructColumns, 0, len(order))
	for _, name := range order {
		cols := grouped[name]
		sort.Strings(cols)
		out = append(out, config.ConstructColumns{Construct: name, Columns: cols})
	}
	return out
}
