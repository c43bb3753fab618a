package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"opsboard/internal/analytics"
	"opsboard/internal/api"
	"opsboard/internal/config"
	"opsboard/internal/fiscal"
	"opsboard/internal/logging"
	"opsboard/internal/partsorder"
	"opsboard/internal/query"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose     bool
	openBrowser bool
	cfg         *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "opsboard",
	Short: "Opsboard serves parts-order analytics for the operations dashboard",
	Long: `The analytics backend of the operations dashboard: it ingests the parts-order
feed, derives delivery, vendor, fiscal-week and cycle-time metrics, and serves
them over a cached HTTP API.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Opsboard starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func runServer() {
	parser := partsorder.NewParser()
	parser.MinFields = cfg.MinRecordFields
	loader := partsorder.NewLoader(parser)

	cache := query.NewCache(func() query.Snapshot {
		ds := loader.LoadFile(cfg.PartsDataFile)
		return query.Snapshot{
			Dataset: ds,
			Summary: analytics.Summarize(ds.Records, time.Now()),
		}
	}, cfg.CacheTTL, nil)

	svc := query.NewService(cache, fiscal.NewCalendar(cfg.FiscalStartMonth), analytics.NewCycleAnalyzer(), nil)
	router := api.NewRouter(api.NewHandlers(svc), cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("feed", cfg.PartsDataFile).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	if openBrowser {
		url := "http://" + cfg.ListenAddr + "/api/parts/summary"
		if err := browser.OpenURL(url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Could not open browser")
		}
	}

	<-quit
	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().BoolVar(&openBrowser, "open", false, "open the summary endpoint in the default browser after start")
}
