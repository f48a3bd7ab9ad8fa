// Package main provides the callsearch API server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/calls"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/config"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/crm"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/jobs"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/llm"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/metrics"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/search"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/server"
)

// version is set at build time.
var version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := closeLog(); err != nil {
			slog.Error("failed to close log file", "error", err)
		}
	}()

	logger.Info("starting callsearch-server", "version", version, "port", cfg.ServerPort)

	provider, err := calls.NewGongClient(cfg.CallAPIBaseURL, cfg.CallAPIKey, cfg.CallAPISecret, cfg.UpstreamTimeout)
	if err != nil {
		logger.Error("failed to create call provider client", "error", err)
		os.Exit(1)
	}

	// CRM is optional: without it the opportunity-type filter and CRM
	// grounding are skipped.
	var crmClient crm.Client
	if cfg.HasSalesforce() {
		sf, err := crm.NewSalesforceClient(cfg.SalesforceInstanceURL, cfg.SalesforceAccessToken, cfg.SalesforceAPIVersion, cfg.UpstreamTimeout)
		if err != nil {
			logger.Error("failed to create Salesforce client", "error", err)
			os.Exit(1)
		}
		crmClient = sf
	} else {
		logger.Warn("Salesforce not configured, CRM features disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		logger.Error("failed to create LLM model", "error", err)
		os.Exit(1)
	}
	logger.Info("LLM model initialized", "provider", cfg.LLMProvider, "model", cfg.LLMModel)

	collector := metrics.NewCollector()
	svc := search.NewService(provider, crmClient, model, collector, logger)
	svc.SetMaxAnswerTokens(cfg.MaxAnswerTokens)

	jobManager := jobs.NewManager(cfg.MaxConcurrentJobs, cfg.JobTTL, cfg.JobSweepInterval, logger)
	defer jobManager.Close()

	srv := server.New(svc, jobManager, collector, logger, cfg.ServerPort, version)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
