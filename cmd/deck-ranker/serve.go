package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/deck-ranker/internal/api"
	"github.com/yourusername/deck-ranker/internal/cache"
	"github.com/yourusername/deck-ranker/internal/database"
	"github.com/yourusername/deck-ranker/internal/health"
	"github.com/yourusername/deck-ranker/internal/metrics"
	"github.com/yourusername/deck-ranker/internal/repository"
	"github.com/yourusername/deck-ranker/internal/scheduler"
	"github.com/yourusername/deck-ranker/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Serves the ranking, statistics and data-entry API together with health probes and, when enabled, the scheduled recompute.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := validateConfig(); err != nil {
		return err
	}

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Deck ranker starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(ctx, cfg, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return fmt.Errorf("invalid ranking configuration: %w", err)
	}

	var rankingCache service.RankingCache
	if cfg.Cache.Enabled {
		rankingCache = cache.NewRankingCache(cfg.GetCacheTTL())
		appLog.WithField("ttl", cfg.GetCacheTTL()).Info("Ranking cache enabled")
	}

	rankingSvc := service.NewRankingService(repos.Deck, repos.MatchResult, repos.MatchupPrior, rankingCache, engineCfg, appLog)
	statisticsSvc := service.NewStatisticsService(repos.Environment, repos.MatchType, repos.Deck, repos.MatchResult, repos.MatchupPrior, engineCfg, appLog)
	matchSvc := service.NewMatchService(repos.Environment, repos.MatchType, repos.Deck, repos.MatchResult, rankingCache, appLog)
	priorSvc := service.NewPriorService(repos.MatchupPrior, rankingCache, appLog)
	catalogSvc := service.NewCatalogService(repos.Environment, repos.MatchType, repos.Deck, rankingCache)

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsPath = cfg.Metrics.Path
	}

	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Server.HealthPort,
		Logger:      appLog,
		Checks: map[string]health.CheckFunc{
			"database": db.HealthCheck,
		},
	})
	healthSrv.Start(ctx)

	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(rankingSvc, appLog)
		if err := sched.ScheduleRecompute(cfg.Scheduler.RecomputeCron, cfg.Scheduler.EnvironmentIDs); err != nil {
			return fmt.Errorf("failed to schedule recompute: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				appLog.WithError(err).Warn("Scheduler did not stop cleanly")
			}
		}()
	}

	apiSrv := api.NewServer(api.Config{
		Server:      cfg.Server,
		MetricsPath: metricsPath,
		Logger:      appLog,
		Rankings:    rankingSvc,
		Statistics:  statisticsSvc,
		Matches:     matchSvc,
		Priors:      priorSvc,
		Catalog:     catalogSvc,
	})

	healthSrv.SetReady(true)
	err = apiSrv.Run(ctx)
	healthSrv.SetReady(false)
	if err != nil {
		return fmt.Errorf("api server failed: %w", err)
	}

	appLog.Info("Deck ranker stopped")
	return nil
}
