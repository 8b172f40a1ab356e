package datareadiness

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"goclean/domain/cleaning"
)

var (
	nonWordPattern    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeColumnName trims, strips non-word characters, joins words with
// a single underscore and lower-cases the result.
func NormalizeColumnName(name string) string {
	s := strings.TrimSpace(name)
	s = nonWordPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespacePattern.ReplaceAllString(s, "_")
	return strings.ToLower(s)
}

// ColumnNameNormalizer rewrites column identifiers into canonical form.
// Collisions are resolved in column order by suffixing _2, _3, ...; a name
// that normalizes to nothing becomes column_<position>.
type ColumnNameNormalizer struct{}

// NewColumnNameNormalizer creates a normalizer
func NewColumnNameNormalizer() *ColumnNameNormalizer {
	return &ColumnNameNormalizer{}
}

// Name identifies the stage in logs
func (n *ColumnNameNormalizer) Name() string { return "column_names" }

// Apply runs CleanColumnNames as a pipeline stage
func (n *ColumnNameNormalizer) Apply(ctx context.Context, ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return n.CleanColumnNames(ds, rep)
}

// CleanColumnNames builds a new dataset keyed by the cleaned names, keeping
// column and value order. One combined report entry lists every rename.
func (n *ColumnNameNormalizer) CleanColumnNames(ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	columns := ds.Columns()
	names := n.resolveNames(columns)

	out := cleaning.NewDataset()
	var renames []string
	for i, col := range columns {
		if err := out.AddColumn(names[i], col.Values); err != nil {
			return nil, err
		}
		if names[i] != col.Name {
			renames = append(renames, fmt.Sprintf("%s → %s", col.Name, names[i]))
		}
	}

	if len(renames) > 0 {
		rep.AddOperation("Standardized column names: %s", strings.Join(renames, ", "))
		log.Printf("[ColumnNameNormalizer] renamed %d of %d columns", len(renames), len(columns))
	}
	return out, nil
}

// resolveNames normalizes every name and disambiguates collisions
func (n *ColumnNameNormalizer) resolveNames(columns []cleaning.Column) []string {
	names := make([]string, len(columns))
	taken := make(map[string]bool, len(columns))

	for i, col := range columns {
		name := NormalizeColumnName(col.Name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if taken[name] {
			base := name
			for suffix := 2; taken[name]; suffix++ {
				name = fmt.Sprintf("%s_%d", base, suffix)
			}
			log.Printf("[ColumnNameNormalizer] %q collides after normalization, using %q", col.Name, name)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}
