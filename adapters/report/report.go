package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gocrop/domain/core"
	"gocrop/domain/stats"
)

const title = "Crop Dataset Report"

// Report collects the analysis results rendered into one document
type Report struct {
	GeneratedAt time.Time
	Summary     stats.DatasetSummary
	Ranking     []stats.FeatureRankEntry
	Prediction  *stats.PredictionResult     // optional
	Query       map[core.FeatureKey]float64 // values behind Prediction
}

// Markdown renders the report as GitHub-flavoured Markdown
func Markdown(r Report) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Source: `%s`\n", r.Summary.Source)
	fmt.Fprintf(&b, "- Records: %d\n", r.Summary.TotalRecords)
	fmt.Fprintf(&b, "- Crops: %d\n", r.Summary.CropCount)
	if r.Summary.Fingerprint != "" {
		fmt.Fprintf(&b, "- Fingerprint: `%s`\n", shortHash(r.Summary.Fingerprint.String()))
	}
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n")

	writeDistribution(&b, r.Summary.CropDistribution)
	writeProfiles(&b, r.Summary.Features)
	writeRanking(&b, r.Ranking)
	if r.Prediction != nil {
		writePrediction(&b, r.Prediction, r.Query)
	}

	return b.Bytes()
}

// HTML renders the report as a complete HTML page
func HTML(r Report) []byte {
	return MarkdownToHTML(Markdown(r))
}

// MarkdownToHTML converts Markdown into a standalone HTML page
func MarkdownToHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
		Title: title,
	})
	return markdown.ToHTML(md, p, renderer)
}

func writeDistribution(b *bytes.Buffer, shares []stats.CropShare) {
	if len(shares) == 0 {
		return
	}
	b.WriteString("## Crop distribution\n\n")
	b.WriteString("| Crop | Records | Share |\n|---|---:|---:|\n")
	for _, s := range shares {
		fmt.Fprintf(b, "| %s | %d | %.1f%% |\n", s.Crop, s.Count, s.Percentage)
	}
	b.WriteString("\n")
}

func writeProfiles(b *bytes.Buffer, profiles []stats.FeatureProfile) {
	if len(profiles) == 0 {
		return
	}
	b.WriteString("## Feature profiles\n\n")
	b.WriteString("| Feature | Count | Min | Max | Mean | Median | Std | IQR |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, p := range profiles {
		fmt.Fprintf(b, "| %s | %d | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
			p.Feature, p.Count, p.Min, p.Max, p.Mean, p.Median, p.Std, p.IQR)
	}
	b.WriteString("\n")
}

func writeRanking(b *bytes.Buffer, ranking []stats.FeatureRankEntry) {
	if len(ranking) == 0 {
		return
	}
	b.WriteString("## Feature ranking\n\n")
	b.WriteString("| Feature | F-score | Accuracy est. | Correlation est. | Importance est. |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, e := range ranking {
		fmt.Fprintf(b, "| %s | %.4f | %.3f | %.3f | %.4f |\n",
			e.Feature, e.FScore, e.Accuracy, e.Correlation, e.Importance)
	}
	b.WriteString("\n_Accuracy, correlation and importance are estimates derived from the F-score._\n\n")
}

func writePrediction(b *bytes.Buffer, p *stats.PredictionResult, query map[core.FeatureKey]float64) {
	b.WriteString("## Prediction\n\n")
	if len(query) > 0 {
		parts := make([]string, 0, len(p.FeaturesUsed))
		for _, f := range p.FeaturesUsed {
			if v, ok := query[f]; ok {
				parts = append(parts, fmt.Sprintf("%s=%g", f, v))
			}
		}
		fmt.Fprintf(b, "Query: %s\n\n", strings.Join(parts, ", "))
	}

	fmt.Fprintf(b, "**%s** with confidence %.1f%% (%s)\n\n", p.PredictedClass, p.Confidence*100, p.Method)
	if p.Fallback {
		b.WriteString("> All likelihoods underflowed; the class was chosen by nearest centroid and the confidence is not a probability.\n\n")
		return
	}

	b.WriteString("| Crop | Probability |\n|---|---:|\n")
	for _, c := range p.Classes {
		fmt.Fprintf(b, "| %s | %.4f |\n", c, p.Probabilities[c])
	}
	b.WriteString("\n")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
