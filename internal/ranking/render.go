package ranking

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spigell/screener/internal/screening"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q, expected table or json", s)
	}
}

type RenderOptions struct {
	Format Format
	// Color paints the overall column by score band.
	Color bool
}

// Render writes the displayed result. jobs only decides whether the empty
// state can point at a job to select.
func (p *Presenter) Render(w io.Writer, jobs int, opts RenderOptions) error {
	p.mu.RLock()
	result, failed := p.result, p.failed
	p.mu.RUnlock()

	if failed && opts.Format != FormatJSON {
		_, err := fmt.Fprintln(w, MessageLoadFailed)
		return err
	}

	return RenderResult(w, result, jobs, opts)
}

func RenderResult(w io.Writer, result *screening.MatchResult, jobs int, opts RenderOptions) error {
	if opts.Format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	switch {
	case result == nil && jobs == 0:
		_, err := fmt.Fprintln(w, MessageNoJobs)
		return err
	case result == nil:
		_, err := fmt.Fprintln(w, MessageNeverMatched)
		return err
	}

	if _, err := fmt.Fprintf(w, "Match Results: %s\nTotal Matched: %d\n\n", result.JobTitle, result.TotalMatched); err != nil {
		return err
	}

	if result.Empty() {
		_, err := fmt.Fprintln(w, MessageNoMatches)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tRESUME\tSKILL MATCH\tEXPERIENCE\tEDUCATION\tSEMANTIC SIMILARITY\tOVERALL")

	for _, m := range result.Matches {
		overall := Bar(m.OverallScore) + " " + Percent(m.OverallScore)
		if opts.Color {
			overall = ScoreBand(m.OverallScore).Paint(overall)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			"#"+strconv.Itoa(m.Rank),
			m.Filename,
			Percent(m.SkillMatchScore),
			Percent(m.ExperienceScore),
			Percent(m.EducationScore),
			Percent(m.SemanticSimilarity),
			overall,
		)
	}

	return tw.Flush()
}
