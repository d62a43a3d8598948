package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/course-search/api"
	"github.com/gcbaptista/course-search/config"
	"github.com/gcbaptista/course-search/internal/analytics"
	"github.com/gcbaptista/course-search/internal/catalog"
	"github.com/gcbaptista/course-search/internal/database"
	"github.com/gcbaptista/course-search/internal/engine"
	"github.com/gcbaptista/course-search/internal/metrics"
	"github.com/gcbaptista/course-search/services"
	"github.com/gcbaptista/course-search/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search API",
	Long: `Start the HTTP API over the catalog stored in the configured database.

Examples:
  course_search serve
  course_search serve --port 9000
  course_search serve --catalog courses.json   # import a catalog file before serving`,
	RunE: runServe,
}

var (
	servePort    string
	serveCatalog string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "catalog JSON file merged into storage at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Server.Port = servePort
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	courses := store.NewCourseStore()
	m := metrics.New(courses.Len)

	var tracker *analytics.Service
	opts := engine.Options{
		Repository:    db,
		Metrics:       m,
		JobMetrics:    m,
		MaxJobWorkers: cfg.Server.JobWorkers,
	}
	if cfg.Analytics.Enabled {
		tracker = analytics.NewService(courses, cfg.Analytics.Path)
		defer tracker.Close()
		opts.Analytics = tracker
	}

	searchEngine, err := engine.NewEngine(&cfg.Ranking, courses, opts)
	if err != nil {
		return err
	}
	searchEngine.Start()
	defer searchEngine.Stop()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if serveCatalog != "" {
		result, err := catalog.LoadFile(serveCatalog)
		if err != nil {
			return err
		}
		if _, err := db.UpsertCourses(ctx, result.Courses); err != nil {
			return fmt.Errorf("failed to store catalog: %w", err)
		}
		log.Printf("Info: Merged %d courses from %s", len(result.Courses), serveCatalog)
	}

	if _, err := searchEngine.LoadFromRepository(ctx); err != nil {
		return err
	}

	router := gin.Default()
	router.Use(api.CORSMiddleware(), api.RequestIDMiddleware(), api.RequestSizeLimitMiddleware(cfg.Server.MaxRequestSize))

	var tracking services.AnalyticsTracker
	if tracker != nil {
		tracking = tracker
	}
	api.SetupRoutes(router, searchEngine, tracking, m.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s...", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Printf("Info: Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
