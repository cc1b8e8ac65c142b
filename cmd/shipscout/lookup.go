package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"shipscout/cmd/shipscout/config"
	"shipscout/cmd/shipscout/ui"
	"shipscout/internal/shipstream"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runLookup performs one non-interactive lookup and prints the sections.
func runLookup(cmd *cobra.Command, args []string) error {
	uniqueID := strings.TrimSpace(args[0])

	cfg, err := config.Load()
	if err != nil {
		logger.Debug("config load failed, using defaults", zap.Error(err))
	}

	authToken := token
	if authToken == "" {
		authToken = config.ResolveToken(cfg)
	}

	endpoint := baseURL
	if endpoint == "" {
		endpoint = cfg.BaseURL
	}

	client := shipstream.NewClient(endpoint, authToken, timeout)
	logger.Info("looking up shipment",
		zap.String("unique_id", uniqueID),
		zap.Bool("expand", expand),
		zap.String("base_url", client.BaseURL()),
	)

	report, err := shipstream.Lookup(context.Background(), client, uniqueID, expand)
	if err != nil {
		return err
	}

	styles := ui.DefaultStyles()
	if rawOnly {
		fmt.Println(report.RawText())
	} else {
		fmt.Println(ui.RenderReport(report, styles, nil))
	}

	if report.APIError {
		logger.Warn("API returned an error status", zap.Int("status", report.StatusCode))
		return fmt.Errorf("API responded with status %d", report.StatusCode)
	}

	if csvPath != "" {
		if report.Flattened.Empty() {
			logger.Warn("nothing to export", zap.String("unique_id", uniqueID))
			return nil
		}
		out := filepath.Join(csvPath, shipstream.CSVFileName(uniqueID))
		if err := report.Flattened.ExportCSV(out); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		logger.Info("wrote CSV export",
			zap.String("path", out),
			zap.Int("rows", len(report.Flattened.Rows)),
		)
		fmt.Println("saved", out)
	}
	return nil
}
