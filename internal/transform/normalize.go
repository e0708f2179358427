// Package transform holds the record normalization rules: schema
// canonicalization, enrichment with processing metadata and partition
// columns, and the quality filter with exact-duplicate removal.
package transform

import (
	"strings"

	"github.com/dvloznov/finance-etl/internal/recordset"
)

// NormalizeName canonicalizes one column name: lowercase, spaces and
// hyphens replaced with underscores.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "-", "_")
}

// NormalizeSchema canonicalizes every column name in place, preserving
// column order. Applying it twice yields the same result as once. Two
// distinct input names collapsing to one normalized name is a
// SchemaConflictError.
func NormalizeSchema(t recordset.Table) error {
	seen := make(map[string]string, len(t.Columns()))
	for _, c := range t.Columns() {
		normalized := NormalizeName(c)
		if first, dup := seen[normalized]; dup {
			return &SchemaConflictError{Name: normalized, First: first, Second: c}
		}
		seen[normalized] = c
	}
	return t.Rename(NormalizeName)
}
