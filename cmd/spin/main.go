package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/akmonengine/spin/scenario"
)

func main() {
	configPath := flag.String("config", "", "Path to a suite YAML (empty = use defaults)")
	reportPath := flag.String("report", "", "Path of the CSV report (empty = no report)")
	dumpPath := flag.String("dump-config", "", "Write the effective suite as YAML to this path")
	jsonLogs := flag.Bool("json", false, "Log as JSON instead of text")
	flag.Parse()

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, nil)
	if *jsonLogs {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	os.Exit(run(*configPath, *reportPath, *dumpPath, logger))
}

func run(configPath, reportPath, dumpPath string, logger *slog.Logger) int {
	suite, err := scenario.LoadSuite(configPath)
	if err != nil {
		logger.Error("failed to load suite", "error", err)
		return 1
	}

	if dumpPath != "" {
		if err := suite.WriteYAML(dumpPath); err != nil {
			logger.Error("failed to write suite", "error", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running suite",
		"timestep", suite.Timestep,
		"threshold", suite.Threshold,
		"scenarios", len(suite.Scenarios()),
	)

	results, err := scenario.NewRunner(suite, logger).Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}

	if reportPath != "" {
		if err := scenario.WriteReportFile(reportPath, results); err != nil {
			logger.Error("failed to write report", "error", err)
			return 1
		}
	}

	summary := scenario.Summarize(results)
	logger.Info("suite done",
		"total", summary.Total,
		"passed", summary.Passed,
		"failed", summary.Failed,
	)
	if summary.Failed > 0 {
		return 1
	}

	return 0
}
