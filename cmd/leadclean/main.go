// Command leadclean runs the lead-processing modes over local files without
// the HTTP server: clean, combine, split, or check against a reference set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"leadscli/internal/config"
	"leadscli/internal/exporter"
	"leadscli/internal/infrastructure"
	"leadscli/internal/services"
)

func main() {
	mode := flag.String("mode", services.ModeClean, "combine | clean | check | split")
	out := flag.String("out", "output", "directory for produced files")
	reference := flag.String("reference", "", "comma-separated reference files (check mode)")
	workers := flag.Int("workers", 4, "per-file concurrency within the batch")
	logLevel := flag.String("log-level", "info", "debug | info | warn | error")
	flag.Parse()

	logger := infrastructure.NewLogger(config.LoggingConfig{Level: *logLevel, Format: "text"})

	if !services.ValidMode(*mode) {
		logger.Error("unknown mode", slog.String("mode", *mode))
		os.Exit(2)
	}
	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: leadclean [flags] file.csv [file.xlsx ...]\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	files, err := loadFiles(flag.Args())
	if err != nil {
		logger.Error("failed to read input", slog.String("error", err.Error()))
		os.Exit(1)
	}

	service := services.NewLeadService(logger, nil, *workers)
	ctx := context.Background()

	var result *services.Result
	switch *mode {
	case services.ModeCombine:
		result, err = service.CombineAndClean(ctx, files)
	case services.ModeClean:
		result, err = service.CleanEach(ctx, files)
	case services.ModeCheck:
		if *reference == "" {
			logger.Error("check mode requires -reference")
			os.Exit(2)
		}
		refFiles, refErr := loadFiles(strings.Split(*reference, ","))
		if refErr != nil {
			logger.Error("failed to read reference", slog.String("error", refErr.Error()))
			os.Exit(1)
		}
		result, err = service.CheckAgainstReference(ctx, refFiles, files)
	case services.ModeSplit:
		result, err = service.Split(ctx, files)
	}
	if err != nil {
		logger.Error("processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, report := range result.Reports {
		switch report.Status {
		case services.StatusSkipped:
			logger.Warn("file skipped",
				slog.String("file", report.File),
				slog.String("error", report.Error))
		case services.StatusEmpty:
			logger.Warn("no rows left, nothing produced", slog.String("file", report.File))
		default:
			logger.Info("file processed",
				slog.String("file", report.File),
				slog.Int("rows", report.Rows),
				slog.String("outputs", strings.Join(report.Outputs, ", ")))
		}
	}

	writer := exporter.NewWriter(*out)
	outputs := result.Files
	if result.Archive != nil {
		outputs = append(outputs, *result.Archive)
	}
	for _, f := range outputs {
		if _, err := writer.WriteFile(f.Name, f.Data); err != nil {
			logger.Error("failed to write output",
				slog.String("file", f.Name),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("done",
		slog.Int("outputs", len(outputs)),
		slog.String("dir", *out))
}

// loadFiles reads each path into an UploadedFile named after its base name.
func loadFiles(paths []string) ([]services.UploadedFile, error) {
	files := make([]services.UploadedFile, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, services.UploadedFile{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}
