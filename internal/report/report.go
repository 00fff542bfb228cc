// Package report renders provisioning results for operators.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/The-Unpaid-Developers/core-service/internal/app"
)

// Write renders result as a table followed by a one-line summary.
func Write(w io.Writer, result app.Result) error {
	if _, err := fmt.Fprintf(w, "%s %s (mode %s)\n", result.Action, result.Database, result.Mode); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Collection", "Collation", "Outcome", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	for _, step := range result.Steps {
		table.Append([]string{
			step.Collection,
			step.Collation.String(),
			string(step.Outcome),
			step.Detail,
		})
	}
	table.Render()

	_, err := fmt.Fprintln(w, Summary(result))
	return err
}

// Summary counts outcomes in layout order of first appearance, e.g. "created=2 failed=1".
func Summary(result app.Result) string {
	var order []app.Outcome
	counts := make(map[app.Outcome]int)
	for _, step := range result.Steps {
		if _, seen := counts[step.Outcome]; !seen {
			order = append(order, step.Outcome)
		}
		counts[step.Outcome]++
	}

	parts := make([]string, 0, len(order)+1)
	for _, outcome := range order {
		parts = append(parts, fmt.Sprintf("%s=%d", outcome, counts[outcome]))
	}
	parts = append(parts, fmt.Sprintf("duration=%s", result.Duration))
	return strings.Join(parts, " ")
}
