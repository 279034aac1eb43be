package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/chrimar3/MVP-Hotel-sub001/app"
	"github.com/chrimar3/MVP-Hotel-sub001/internal/observability"
	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/utils"
)

func newGenerateCmd() *cobra.Command {
	var (
		configFile  string
		interactive bool
		req         models.GenerationRequest
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one review from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			// CLI output is the review itself; keep the engine quiet
			// unless something is genuinely wrong.
			cfg.Logging.Level = "error"
			cfg.Logging.Format = "text"

			if interactive {
				if err := promptMissingFields(&req); err != nil {
					return err
				}
			}

			if err := utils.ValidateStruct(&req); err != nil {
				if fields := utils.GetValidationFields(err); fields != nil {
					for _, msg := range fields {
						fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("invalid request: %s", msg))
					}
					return errors.New("invalid request")
				}
				return err
			}

			logger, err := observability.NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			ctx := cmd.Context()
			deps, err := app.NewDependencies(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("wire dependencies: %w", err)
			}
			if err := deps.Start(); err != nil {
				return fmt.Errorf("start workers: %w", err)
			}
			defer func() { _ = deps.Close(context.Background()) }()

			result := deps.Engine.Generate(ctx, &req)

			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s %dms  %s $%.4f\n",
				color.CyanString("source:"), sourceLabel(result.Source),
				color.CyanString("latency:"), result.LatencyMs,
				color.CyanString("cost:"), result.CostEstimate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to an env file (default: .env when present)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for missing fields")
	cmd.Flags().StringVar(&req.HotelName, "hotel", "", "hotel name (required)")
	cmd.Flags().IntVar(&req.Rating, "rating", 0, "star rating 1..5 (required)")
	cmd.Flags().StringVar(&req.TripType, "trip-type", "", "trip type, e.g. leisure or business (required)")
	cmd.Flags().StringSliceVar(&req.Highlights, "highlights", nil, "aspects to mention, comma separated")
	cmd.Flags().IntVar(&req.Nights, "nights", 0, "length of stay in nights")
	cmd.Flags().StringVar(&req.Voice, "voice", "", "reviewer voice: solo, couple, family, business, or group")
	cmd.Flags().StringVar(&req.Language, "language", "", "ISO language code, e.g. en or de")
	return cmd
}

// sourceLabel colors the terminal source so a template fallback is
// visible at a glance
func sourceLabel(source models.Source) string {
	switch source {
	case models.SourceCache:
		return color.GreenString(string(source))
	case models.SourcePrimary, models.SourceSecondary:
		return color.CyanString(string(source))
	default:
		return color.YellowString(string(source))
	}
}

// promptMissingFields asks for any required field not already set by a
// flag. Ctrl+C aborts cleanly.
func promptMissingFields(req *models.GenerationRequest) error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()
	line.SetCtrlCAborts(true)

	if req.HotelName == "" {
		value, err := promptLine(line, "Hotel name:")
		if err != nil {
			return err
		}
		req.HotelName = value
	}

	if req.Rating == 0 {
		value, err := promptLine(line, "Rating (1-5):")
		if err != nil {
			return err
		}
		rating, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("rating must be a number: %w", err)
		}
		req.Rating = rating
	}

	if req.TripType == "" {
		value, err := promptLine(line, "Trip type (leisure/business/family/romantic/solo):")
		if err != nil {
			return err
		}
		req.TripType = value
	}

	if len(req.Highlights) == 0 {
		value, err := promptLine(line, "Highlights (comma separated, optional):")
		if err != nil {
			return err
		}
		for _, h := range strings.Split(value, ",") {
			if h = strings.TrimSpace(h); h != "" {
				req.Highlights = append(req.Highlights, h)
			}
		}
	}

	return nil
}

func promptLine(line *liner.State, prompt string) (string, error) {
	value, err := line.Prompt(color.CyanString(prompt + " "))
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", errors.New("cancelled")
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(value), nil
}
