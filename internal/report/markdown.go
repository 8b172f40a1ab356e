package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goclean/domain/cleaning"
)

// Markdown renders a run as a Markdown document. Report entries are written
// verbatim so the rendered text matches what the pipeline recorded.
func Markdown(run *cleaning.Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Cleaning run %s\n\n", run.ID)
	fmt.Fprintf(&b, "- **Status:** %s\n", run.Status)
	if !run.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Started:** %s\n", run.CreatedAt)
	}
	fmt.Fprintf(&b, "- **Duration:** %dms\n", run.DurationMs)
	if run.ErrorMessage != "" {
		fmt.Fprintf(&b, "- **Error:** %s\n", escape(run.ErrorMessage))
	}
	b.WriteString("\n")

	writeShape(&b, run)
	writeSummaries(&b, run.Report.ColumnSummaries)
	writeList(&b, "Data quality issues", run.Report.DataQualityIssues, "No issues found.")
	writeList(&b, "Operations performed", run.Report.OperationsPerformed, "No changes were made.")
	writeList(&b, "Columns converted to numeric", run.Report.ColumnsModified, "None.")
	writeOptions(&b, run.Options)

	return b.String()
}

// HTML renders the Markdown report as a complete HTML page
func HTML(run *cleaning.Run) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML,
		Title: fmt.Sprintf("Cleaning run %s", run.ID),
	})
	return markdown.ToHTML([]byte(Markdown(run)), p, renderer)
}

func writeShape(b *strings.Builder, run *cleaning.Run) {
	r := run.Report
	s := run.Statistics

	b.WriteString("## Shape\n\n")
	b.WriteString("| | Rows | Columns |\n")
	b.WriteString("|---|---:|---:|\n")
	fmt.Fprintf(b, "| Original | %d | %d |\n", r.OriginalShape.Rows, r.OriginalShape.Columns)
	fmt.Fprintf(b, "| Final | %d | %d |\n\n", r.FinalShape.Rows, r.FinalShape.Columns)
	fmt.Fprintf(b, "Rows removed: %d. Rows affected: %d. Operations: %d. Issues: %d.\n\n",
		s.RowsRemoved, r.RowsAffected, s.OperationsCount, s.IssuesFound)
}

func writeSummaries(b *strings.Builder, summaries []cleaning.NumericSummary) {
	if len(summaries) == 0 {
		return
	}
	b.WriteString("## Numeric column summaries\n\n")
	b.WriteString("| Column | Count | Min | Q1 | Median | Q3 | Max | Mean | Std dev |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, s := range summaries {
		fmt.Fprintf(b, "| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			escape(s.Column), s.Count, stat(s.Min), stat(s.Q1), stat(s.Median), stat(s.Q3), stat(s.Max), stat(s.Mean), stat(s.StdDev))
	}
	b.WriteString("\n")
}

// stat rounds to three decimals and drops trailing zeros
func stat(x float64) string {
	return strconv.FormatFloat(math.Round(x*1000)/1000, 'f', -1, 64)
}

func writeList(b *strings.Builder, title string, items []string, empty string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(items) == 0 {
		fmt.Fprintf(b, "%s\n\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", escape(item))
	}
	b.WriteString("\n")
}

func writeOptions(b *strings.Builder, opts cleaning.Options) {
	b.WriteString("## Options\n\n")
	b.WriteString("| Option | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| cleanColumnNames | %t |\n", opts.CleanColumnNames)
	fmt.Fprintf(b, "| convertNumeric | %t |\n", opts.ConvertNumeric)
	fmt.Fprintf(b, "| handleMissing | %t |\n", opts.HandleMissing)
	fmt.Fprintf(b, "| missingStrategy | %s |\n", opts.MissingStrategy)
	fmt.Fprintf(b, "| removeOutliers | %t |\n", opts.RemoveOutliers)
	fmt.Fprintf(b, "| outlierMethod | %s |\n", opts.OutlierMethod)
	fmt.Fprintf(b, "| outlierAction | %s |\n", opts.OutlierAction)
	fmt.Fprintf(b, "| outlierFactor | %g |\n", opts.OutlierFactor)
	fmt.Fprintf(b, "| removeDuplicates | %t |\n", opts.RemoveDuplicates)
	if opts.MissingSentinels != nil {
		quoted := make([]string, len(opts.MissingSentinels))
		for i, s := range opts.MissingSentinels {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		fmt.Fprintf(b, "| missingSentinels | %s |\n", escape(strings.Join(quoted, ", ")))
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"|", `\|`,
	"<", "&lt;",
	">", "&gt;",
	"[", `\[`,
	"]", `\]`,
)

// escape keeps column names such as weight_kg or a*b from turning into
// emphasis and stops embedded markup from reaching the HTML page
func escape(s string) string {
	return markdownEscaper.Replace(s)
}
