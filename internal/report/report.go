// Package report renders a run summary as Markdown and, optionally, HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"bikeusage/domain/core"
	"bikeusage/domain/usage"
	"bikeusage/internal/events"
	"bikeusage/internal/features"
	"bikeusage/internal/probability"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Summary is everything one report shows. Empty sections are omitted.
type Summary struct {
	RunID       core.RunID
	Generated   time.Time
	City        string
	K           int
	Mode        string
	Interval    core.Interval
	Features    features.Table
	Snapshots   int
	Skipped     int
	Dominant    []probability.Row
	Entropy     map[string]float64
	Top         map[usage.Type][]probability.Row
	Holidays    []events.Delta
	SchoolBreak []events.Delta
}

// Markdown renders s.
func Markdown(s Summary) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Bicycle usage report: %s\n\n", s.City)
	fmt.Fprintf(&b, "- Run: `%s`\n", s.RunID)
	if !s.Generated.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", s.Generated.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "- Interval: %s\n", s.Interval)
	fmt.Fprintf(&b, "- Clusters: k=%d, %s windows\n", s.K, s.Mode)
	if s.Snapshots > 0 || s.Skipped > 0 {
		fmt.Fprintf(&b, "- Snapshots: %d clustered, %d skipped\n", s.Snapshots, s.Skipped)
	}
	b.WriteString("\n")

	if len(s.Features) > 0 {
		valid := s.Features.Valid()
		fmt.Fprintf(&b, "## Features\n\n%d of %d stations have a valid feature vector.\n\n", len(valid), len(s.Features))
		b.WriteString("| station | DPI | WSD | SDI | valid |\n|---|---:|---:|---:|---|\n")
		for _, r := range s.Features {
			if r.Valid {
				fmt.Fprintf(&b, "| %s | %.3f | %.3f | %.3f | yes |\n", cell(r.Station), r.DPI, r.WSD, r.SDI)
			} else {
				fmt.Fprintf(&b, "| %s | | | | no (%s) |\n", cell(r.Station), cell(r.Reason))
			}
		}
		b.WriteString("\n")
	}

	if len(s.Dominant) > 0 {
		b.WriteString("## Dominant usage\n\n| station | usage | p | 95% CI | entropy |\n|---|---|---:|---|---:|\n")
		for _, r := range s.Dominant {
			fmt.Fprintf(&b, "| %s | %s | %.2f | [%.2f, %.2f] | %.2f |\n",
				cell(r.Station), r.Usage, r.Probability, r.CILow, r.CIHigh, s.Entropy[r.Station])
		}
		b.WriteString("\n")
	}

	if len(s.Top) > 0 {
		b.WriteString("## Representative stations\n\n")
		for _, t := range usage.All {
			rows, ok := s.Top[t]
			if !ok {
				continue
			}
			names := make([]string, len(rows))
			for i, r := range rows {
				names[i] = fmt.Sprintf("%s (%.2f)", r.Station, r.Probability)
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", t, strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}

	writeDeltas(&b, "Public holidays", s.Holidays)
	writeDeltas(&b, "School vacations", s.SchoolBreak)
	return b.Bytes()
}

func writeDeltas(b *bytes.Buffer, title string, rows []events.Delta) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n| station | baseline | event | delta |\n|---|---:|---:|---:|\n", title)
	for _, d := range rows {
		fmt.Fprintf(b, "| %s | %.3f | %.3f | %+.3f |\n", cell(d.Station), d.BaselineScore, d.EventScore, d.ScoreDelta)
	}
	b.WriteString("\n")
}

// cell escapes pipes so station names cannot break a table row
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// HTML renders Markdown as a standalone HTML page.
func HTML(md []byte, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	return markdown.Render(doc, r)
}
