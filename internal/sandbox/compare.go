package sandbox

import "strings"

// Same reports whether two results hold the same rows regardless of order.
// Column names are ignored so aliased answers still match.
func Same(a, b *Table) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Columns) != len(b.Columns) || len(a.Rows) != len(b.Rows) {
		return false
	}

	counts := make(map[string]int, len(a.Rows))
	for _, row := range a.Rows {
		counts[rowKey(row)]++
	}
	for _, row := range b.Rows {
		k := rowKey(row)
		if counts[k] == 0 {
			return false
		}
		counts[k]--
	}
	return true
}

func rowKey(row []any) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, "\x1f")
}
