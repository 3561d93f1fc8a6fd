package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v2"
	"github.com/spacesedan/commentpulse/config"
	"github.com/spacesedan/commentpulse/internal/analysis"
	"github.com/spacesedan/commentpulse/internal/app"
	"github.com/spacesedan/commentpulse/internal/apperrors"
	"github.com/spacesedan/commentpulse/internal/logging"
	"github.com/spacesedan/commentpulse/internal/models"
	"github.com/spacesedan/commentpulse/internal/sentiment"
	"github.com/spacesedan/commentpulse/internal/utils"
)

const cardTextLimit = 200

func main() {
	var (
		videoURL    = flag.String("url", "", "YouTube video URL or ID")
		apiKey      = flag.String("key", "", "YouTube Data API key (default $YOUTUBE_API_KEY)")
		maxComments = flag.Int("max", analysis.DefaultMaxComments, "maximum number of comments to analyze (10-200)")
		batchSize   = flag.Int("batch", analysis.DefaultBatchSize, "comments per classifier call (8-64)")
		label       = flag.String("label", analysis.LabelAll, "only show POSITIVE, NEGATIVE, NEUTRAL or ALL")
		asJSON      = flag.Bool("json", false, "print the report as JSON")
	)
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.InitLogger(cfg.LogLevel)

	if *apiKey == "" {
		*apiKey = cfg.YouTube.APIKey
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(ctx, cfg)
	defer a.Close()

	var bar *progressbar.ProgressBar
	batcher := sentiment.NewBatcher(a.Classifier.Get).WithProgress(func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("Classifying batches"),
				progressbar.OptionSetRenderBlankState(true),
			)
		}
		_ = bar.Add(1)
		if done == total {
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)
		}
	})

	report, err := a.Analyzer.WithBatcher(batcher).Run(ctx, analysis.Request{
		APIKey:      *apiKey,
		VideoURL:    *videoURL,
		MaxComments: *maxComments,
		BatchSize:   *batchSize,
	})
	if err != nil {
		slog.Debug("[Analyze] Run failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		os.Exit(1)
	}

	report.Results = analysis.FilterByLabel(report.Results, *label)
	if *asJSON {
		err = writeJSON(os.Stdout, report)
	} else {
		err = writeText(os.Stdout, report)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, report *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeText(w io.Writer, report *models.Report) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	if v := report.Video; v != nil {
		printf("%s\n%s | %d views | %d comments\n\n", v.Title, v.Channel, v.ViewCount, v.CommentCount)
	}
	for _, f := range report.Failures {
		printf("warning: %s\n", f)
	}

	s := report.Summary
	if s.Total == 0 {
		printf("No comments found for this video.\n")
		return err
	}

	printf("Total comments: %d\n", s.Total)
	printf("Positive: %d (%.1f%%)\n", s.Positive, s.Percent(s.Positive))
	printf("Negative: %d (%.1f%%)\n", s.Negative, s.Percent(s.Negative))
	printf("Neutral:  %d (%.1f%%)\n", s.Neutral, s.Percent(s.Neutral))
	printf("Analyzed %d comments in %.2f seconds\n\n", s.Total, report.TotalDuration().Seconds())

	for _, r := range report.Results {
		printf("[%s %.2f] %s\n", r.Label, r.Score, utils.TruncateRunes(r.Text, cardTextLimit))
	}
	return err
}
