package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gocrop/adapters/dataset"
	"gocrop/adapters/report"
	"gocrop/adapters/stats/engine"
	"gocrop/app"
	"gocrop/domain/core"
	"gocrop/domain/farm"
	"gocrop/domain/stats"
	"gocrop/internal"
	"gocrop/internal/config"
	"gocrop/internal/container"
)

type cliOptions struct {
	dataFile string
	jsonOut  bool
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "gocrop-cli",
		Short:         "GoCrop CLI for ranking soil and climate features and predicting crops",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dataFile, "data", "", "CSV or XLSX dataset (default: bundled sensor dataset)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "WARN", "Log level: ERROR|WARN|INFO|DEBUG|TRACE")

	rootCmd.AddCommand(
		newRankCmd(opts),
		newPredictCmd(opts),
		newSummaryCmd(opts),
		newReportCmd(opts),
	)
	return rootCmd
}

// loadService builds a crop service over the selected dataset
func loadService(ctx context.Context, opts *cliOptions) (*app.CropService, error) {
	logger := internal.NewLogger(internal.ParseLogLevel(opts.logLevel))
	source := container.NewDatasetSource(config.DataConfig{File: opts.dataFile}, logger)

	svc := app.NewCropService(source, dataset.NewParser(logger), engine.NewStatsEngine(), farm.DefaultCatalog(), logger)
	if _, err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func newRankCmd(opts *cliOptions) *cobra.Command {
	var sorted bool
	var top int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Score every feature by how well it separates crops",
		Long: `Compute the F-score of every feature against the crop labels.

Accuracy, correlation and importance columns are estimates derived from the F-score.

Example: gocrop-cli rank --sorted --top 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context(), opts)
			if err != nil {
				return err
			}

			var entries []stats.FeatureRankEntry
			if top > 0 {
				entries, err = svc.Recommend(cmd.Context(), top)
			} else {
				entries, err = svc.Rank(cmd.Context(), sorted)
			}
			if err != nil {
				return err
			}

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			printRanking(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sorted, "sorted", false, "Order by F-score, best first")
	cmd.Flags().IntVar(&top, "top", 0, "Keep only the N best features (implies --sorted)")
	return cmd
}

func newPredictCmd(opts *cliOptions) *cobra.Command {
	var pairs []string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the crop for a set of readings",
		Long: `Train a Gaussian Naive Bayes model on the dataset and classify one query.

Every --feature flag selects a feature and supplies its reading.

Example: gocrop-cli predict --feature rainfall=120 --feature ph=6.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseFeaturePairs(pairs)
			if err != nil {
				return err
			}

			svc, err := loadService(cmd.Context(), opts)
			if err != nil {
				return err
			}
			result, err := svc.Predict(cmd.Context(), req)
			if err != nil {
				return err
			}

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			printPrediction(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&pairs, "feature", "f", nil, "Feature reading as key=value (repeatable)")
	return cmd
}

func newSummaryCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Describe the dataset: crop distribution and feature spread",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context(), opts)
			if err != nil {
				return err
			}
			summary, err := svc.Summary(cmd.Context())
			if err != nil {
				return err
			}

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func newReportCmd(opts *cliOptions) *cobra.Command {
	var format string
	var outPath string
	var pairs []string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a Markdown or HTML report of the analysis",
		Long: `Render the dataset summary and feature ranking, plus an optional prediction.

Example: gocrop-cli report --format html --out report.html --feature rainfall=120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "md" && format != "html" {
				return fmt.Errorf("invalid --format %q (use md or html)", format)
			}

			svc, err := loadService(cmd.Context(), opts)
			if err != nil {
				return err
			}
			r, err := buildReport(cmd.Context(), svc, pairs)
			if err != nil {
				return err
			}

			content := report.Markdown(r)
			if format == "html" {
				content = report.MarkdownToHTML(content)
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			if err := os.WriteFile(outPath, content, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "md", "Output format: md|html")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringArrayVarP(&pairs, "feature", "f", nil, "Include a prediction for key=value readings (repeatable)")
	return cmd
}

func buildReport(ctx context.Context, svc *app.CropService, pairs []string) (report.Report, error) {
	summary, err := svc.Summary(ctx)
	if err != nil {
		return report.Report{}, err
	}
	ranking, err := svc.Rank(ctx, true)
	if err != nil {
		return report.Report{}, err
	}
	r := report.Report{GeneratedAt: time.Now(), Summary: summary, Ranking: ranking}

	if len(pairs) > 0 {
		req, err := parseFeaturePairs(pairs)
		if err != nil {
			return report.Report{}, err
		}
		r.Prediction, err = svc.Predict(ctx, req)
		if err != nil {
			return report.Report{}, err
		}
		r.Query = make(map[core.FeatureKey]float64, len(req.Values))
		for k, v := range req.Values {
			r.Query[core.FeatureKey(k)] = v
		}
	}
	return r, nil
}

// parseFeaturePairs turns key=value flags into a prediction request, keeping
// flag order for the feature selection
func parseFeaturePairs(pairs []string) (app.PredictRequest, error) {
	req := app.PredictRequest{Values: make(map[string]float64, len(pairs))}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return app.PredictRequest{}, fmt.Errorf("invalid --feature %q (use key=value)", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return app.PredictRequest{}, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		req.Features = append(req.Features, key)
		req.Values[key] = v
	}
	return req, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRanking(w io.Writer, entries []stats.FeatureRankEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FEATURE\tF-SCORE\tACCURACY~\tCORRELATION~\tIMPORTANCE~")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%.4f\t%.3f\t%.3f\t%.4f\n", e.Feature, e.FScore, e.Accuracy, e.Correlation, e.Importance)
	}
	tw.Flush()
}

func printPrediction(w io.Writer, p *stats.PredictionResult) {
	fmt.Fprintf(w, "Predicted crop: %s\n", p.PredictedClass)
	fmt.Fprintf(w, "Confidence: %.1f%% (%s)\n", p.Confidence*100, p.Method)
	if p.Fallback {
		fmt.Fprintln(w, "All likelihoods underflowed; nearest centroid was used and the confidence is not a probability.")
		return
	}

	classes := append([]core.ClassLabel(nil), p.Classes...)
	sort.SliceStable(classes, func(i, j int) bool {
		return p.Probabilities[classes[i]] > p.Probabilities[classes[j]]
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CROP\tPROBABILITY")
	for _, c := range classes {
		fmt.Fprintf(tw, "%s\t%.4f\n", c, p.Probabilities[c])
	}
	tw.Flush()
}

func printSummary(w io.Writer, s stats.DatasetSummary) {
	fmt.Fprintf(w, "Source: %s\n", s.Source)
	fmt.Fprintf(w, "Records: %d, crops: %d\n\n", s.TotalRecords, s.CropCount)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CROP\tRECORDS\tSHARE")
	for _, share := range s.CropDistribution {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", share.Crop, share.Count, share.Percentage)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "FEATURE\tCOUNT\tMIN\tMAX\tMEAN\tMEDIAN\tSTD")
	for _, f := range s.Features {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n", f.Feature, f.Count, f.Min, f.Max, f.Mean, f.Median, f.Std)
	}
	tw.Flush()
}
