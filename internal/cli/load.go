package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/course-search/config"
	"github.com/gcbaptista/course-search/internal/catalog"
	"github.com/gcbaptista/course-search/internal/database"
)

var loadCmd = &cobra.Command{
	Use:   "load <catalog.json>",
	Short: "Load a catalog file into the database",
	Long: `Parse a catalog JSON file and store its courses in the configured database.

Two layouts are accepted: a JSON array of courses, or the scraped layout
mapping each department name to a list of raw course entries.

Examples:
  course_search load courses.json             # merge into the stored catalog
  course_search load courses.json --replace   # replace the stored catalog`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

var loadReplace bool

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().BoolVar(&loadReplace, "replace", false, "replace the stored catalog instead of merging")
}

// loadSummary is what the load command reports
type loadSummary struct {
	File       string                 `json:"file"`
	Courses    int                    `json:"courses"`
	Added      int                    `json:"added"`
	Replaced   bool                   `json:"replaced"`
	Duplicates int                    `json:"duplicates"`
	Skipped    []catalog.SkippedEntry `json:"skipped,omitempty"`
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	result, err := catalog.LoadFile(args[0])
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	summary := loadSummary{
		File:       args[0],
		Courses:    len(result.Courses),
		Replaced:   loadReplace,
		Duplicates: result.Duplicates,
		Skipped:    result.Skipped,
	}

	if loadReplace {
		if err := db.ReplaceCourses(ctx, result.Courses); err != nil {
			return fmt.Errorf("failed to replace catalog: %w", err)
		}
		summary.Added = len(result.Courses)
	} else {
		added, err := db.UpsertCourses(ctx, result.Courses)
		if err != nil {
			return fmt.Errorf("failed to store catalog: %w", err)
		}
		summary.Added = added
	}

	return writeLoadSummary(cmd.OutOrStdout(), outputFmt, summary)
}
