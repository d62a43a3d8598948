package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/course-search/config"
	"github.com/gcbaptista/course-search/internal/database"
	internalErrors "github.com/gcbaptista/course-search/internal/errors"
	"github.com/gcbaptista/course-search/internal/search"
	"github.com/gcbaptista/course-search/model"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the stored catalog",
	Long: `Rank the stored catalog against a query and print the results with scores.

Examples:
  course_search search "intro computer science"
  course_search search cosc111
  course_search search "half course music" -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results (0 for all)")
}

// searchOutput is what the search command reports
type searchOutput struct {
	Query   string               `json:"query"`
	Total   int                  `json:"total"`
	TookMs  float64              `json:"took_ms"`
	Results []model.ScoredCourse `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	query := strings.Join(args, " ")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	courses, err := db.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	out, err := rankCatalog(&cfg.Ranking, query, courses, searchLimit)
	if err != nil {
		return err
	}
	return writeSearchOutput(cmd.OutOrStdout(), outputFmt, out)
}

// rankCatalog ranks courses for query and keeps at most limit results
func rankCatalog(settings *config.Settings, query string, courses []model.Course, limit int) (searchOutput, error) {
	if len(courses) == 0 {
		return searchOutput{}, fmt.Errorf("%w: run 'course_search load <file>' first", internalErrors.ErrCatalogNotLoaded)
	}

	ranker, err := search.NewRanker(settings)
	if err != nil {
		return searchOutput{}, err
	}

	start := time.Now()
	hits := ranker.RankWithScores(query, courses)
	took := time.Since(start)

	out := searchOutput{
		Query:   query,
		Total:   len(hits),
		TookMs:  float64(took.Microseconds()) / 1000,
		Results: hits,
	}
	if limit > 0 && len(out.Results) > limit {
		out.Results = out.Results[:limit]
	}
	return out, nil
}
