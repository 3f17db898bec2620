package shell

import (
	"fmt"
	"strings"
)

// View is one of the three screens of the shell. The zero value is the
// initial view.
type View int

const (
	ViewResumes View = iota
	ViewJobs
	ViewResults
)

// Views lists every view in tab order.
var Views = []View{ViewResumes, ViewJobs, ViewResults}

func (v View) String() string {
	switch v {
	case ViewResumes:
		return "resumes"
	case ViewJobs:
		return "jobs"
	case ViewResults:
		return "results"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// Title is the tab label.
func (v View) Title() string {
	switch v {
	case ViewResumes:
		return "Resumes"
	case ViewJobs:
		return "Job Postings"
	case ViewResults:
		return "Match Results"
	default:
		return v.String()
	}
}

func (v View) Valid() bool {
	switch v {
	case ViewResumes, ViewJobs, ViewResults:
		return true
	default:
		return false
	}
}

func ParseView(s string) (View, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, v := range Views {
		if v.String() == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown view %q, expected one of resumes, jobs, results", s)
}
