package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"AltSentinel/internal/chart"
	"AltSentinel/internal/collector"
	"AltSentinel/internal/config"
	"AltSentinel/internal/history"
	"AltSentinel/internal/monitor"
	"AltSentinel/internal/notifier"
	"AltSentinel/internal/scheduler"
)

func main() {
	// .env is optional; the real environment is authoritative.
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)
	log.Info().Msg("AltSentinel starting")

	configFlag := flag.String("config", "", "path to the YAML config file")
	watch := flag.Bool("watch", false, "run continuously on the configured cron schedule instead of once")
	flag.Parse()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	if *configFlag != "" {
		cfgPath = *configFlag
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	hist, err := history.Load(cfg.History.File, cfg.History.MaxEntries)
	if err != nil {
		log.Warn().Err(err).Msg("history unreadable, starting from empty history")
	}

	timeout := cfg.Sources.Timeout()
	col := &collector.Collector{
		Market:    collector.NewCoinGeckoFetcher(cfg.Sources.CoinGeckoURL, timeout),
		M2:        collector.NewFredFetcher(cfg.Sources.FredURL, cfg.Sources.FredAPIKey, timeout),
		Sentiment: collector.NewFearGreedFetcher(cfg.Sources.FearGreedAPI, timeout),
		Trends:    collector.NewGoogleTrendsFetcher(cfg.Sources.TrendsURL, timeout),
		Ranking:   collector.NewAppStoreFetcher(cfg.Sources.AppStoreRSS, timeout),
		Terms:     cfg.SocialTerms,
	}

	runner := monitor.New(col, hist, chart.NewRenderer(), notifier.NewMailNotifier(cfg.Email), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !*watch {
		if err := runner.Run(ctx); err != nil {
			log.Error().Err(err).Msg("run failed")
			os.Exit(1)
		}
		return
	}

	sched := scheduler.NewScheduler(ctx, runner)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing a run now")
		go func() {
			if err := runner.Run(ctx); err != nil {
				log.Error().Err(err).Msg("initial run failed")
			}
		}()
	}

	log.Info().Str("cron", cfg.Schedule.Cron).Msg("watch mode running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
}
