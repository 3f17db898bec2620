package shell

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/screener/internal/ranking"
	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/utils"
)

const (
	skillsShown       = 3
	descriptionLength = 100
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func entries(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

func RenderResumes(w io.Writer, resumes []screening.Resume, format ranking.Format) error {
	if format == ranking.FormatJSON {
		return encodeJSON(w, resumes)
	}

	if len(resumes) == 0 {
		_, err := fmt.Fprintln(w, MessageEmptyResumes)
		return err
	}

	fmt.Fprintf(w, "Uploaded Resumes (%d)\n\n", len(resumes))

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tFILENAME\tSKILLS\tEXPERIENCE\tEDUCATION\tUPLOADED")
	for _, r := range resumes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Filename,
			utils.Summarize(r.Skills, skillsShown),
			entries(len(r.Experience)),
			entries(len(r.Education)),
			r.CreatedAt.Date(),
		)
	}
	return tw.Flush()
}

func RenderJobs(w io.Writer, jobs []screening.Job, format ranking.Format) error {
	if format == ranking.FormatJSON {
		return encodeJSON(w, jobs)
	}

	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, MessageEmptyJobs)
		return err
	}

	fmt.Fprintf(w, "Job Postings (%d)\n\n", len(jobs))

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tDESCRIPTION\tREQUIRED SKILLS\tEXPERIENCE LEVEL\tCREATED")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			j.ID,
			j.Title,
			oneLine(utils.Truncate(j.Description, descriptionLength)),
			utils.Summarize(j.RequiredSkills, skillsShown),
			j.ExperienceLevel,
			j.CreatedAt.Date(),
		)
	}
	return tw.Flush()
}

// RenderResume prints every extracted field of a single resume.
func RenderResume(w io.Writer, r *screening.Resume) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", r.ID)
	fmt.Fprintf(tw, "Filename:\t%s\n", r.Filename)
	fmt.Fprintf(tw, "Skills:\t%s\n", utils.Summarize(r.Skills, 0))
	fmt.Fprintf(tw, "Experience:\t%s\n", entries(len(r.Experience)))
	fmt.Fprintf(tw, "Education:\t%s\n", entries(len(r.Education)))
	fmt.Fprintf(tw, "Uploaded:\t%s\n", r.CreatedAt.Date())
	return tw.Flush()
}

func RenderJob(w io.Writer, j *screening.Job) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", j.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", j.Title)
	fmt.Fprintf(tw, "Required skills:\t%s\n", utils.Summarize(j.RequiredSkills, 0))
	fmt.Fprintf(tw, "Preferred skills:\t%s\n", utils.Summarize(j.PreferredSkills, 0))
	fmt.Fprintf(tw, "Experience level:\t%s\n", j.ExperienceLevel)
	fmt.Fprintf(tw, "Created:\t%s\n", j.CreatedAt.Date())
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", utils.OrNA(j.Description))
	return err
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
