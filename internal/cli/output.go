package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const maxNameWidth = 48

func writeJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func writeSearchOutput(w io.Writer, format string, out searchOutput) error {
	switch format {
	case "json":
		return writeJSON(w, out)
	case "table", "":
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	if out.Total == 0 {
		fmt.Fprintf(w, "No courses found matching: %s\n", out.Query)
		return nil
	}

	fmt.Fprintf(w, "Found %d course(s) matching: %s (%.2fms)\n\n", out.Total, out.Query, out.TookMs)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tID\tCODES\tNAME")
	for i, hit := range out.Results {
		fmt.Fprintf(tw, "%d\t%.1f\t%s\t%s\t%s\n",
			i+1,
			hit.Score,
			hit.Course.ID,
			strings.Join(hit.Course.Codes, ", "),
			truncate(hit.Course.Name, maxNameWidth),
		)
	}
	return tw.Flush()
}

func writeLoadSummary(w io.Writer, format string, summary loadSummary) error {
	switch format {
	case "json":
		return writeJSON(w, summary)
	case "table", "":
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	verb := "Merged"
	if summary.Replaced {
		verb = "Replaced catalog with"
	}
	fmt.Fprintf(w, "%s %d courses from %s (%d new, %d duplicates dropped)\n",
		verb, summary.Courses, summary.File, summary.Added, summary.Duplicates)

	if len(summary.Skipped) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\nSkipped %d entries:\n", len(summary.Skipped))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPARTMENT\tNAME\tREASON")
	for _, s := range summary.Skipped {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Department, truncate(s.Name, maxNameWidth), s.Reason)
	}
	return tw.Flush()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
