// Package forms validates user input before anything is sent to the backend.
package forms

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/screener/internal/screening"
)

// MaxResumeSize mirrors the server upload limit.
const MaxResumeSize = 10 << 20

var ResumeExtensions = []string{".pdf", ".docx"}

// ValidationError is a client-side refusal. It is shown inline and never
// reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateResumeFile checks the name and size of a document before upload.
// A negative size skips the size check.
func ValidateResumeFile(name string, size int64) error {
	if strings.TrimSpace(name) == "" {
		return invalid("file", "Please select a file")
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(ResumeExtensions, ext) {
		return invalid("file", "Please select a PDF or DOCX file")
	}

	if size == 0 {
		return invalid("file", "File %s is empty", filepath.Base(name))
	}
	if size > MaxResumeSize {
		return invalid("file", "File %s exceeds the %d MB limit", filepath.Base(name), MaxResumeSize>>20)
	}

	return nil
}

// SplitSkills turns "A, B ,C" into [A B C]. Empty items are dropped, so an
// empty input yields an empty, non-nil slice.
func SplitSkills(raw string) []string {
	skills := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// JobInput is the raw job form as typed by the user.
type JobInput struct {
	Title           string `mapstructure:"title"`
	Description     string `mapstructure:"description"`
	RequiredSkills  string `mapstructure:"required_skills"`
	PreferredSkills string `mapstructure:"preferred_skills"`
	ExperienceLevel string `mapstructure:"experience_level"`
}

// DecodeJobInput reads form answers collected from prompts or flags.
func DecodeJobInput(answers map[string]any) (JobInput, error) {
	var input JobInput

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &input,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return input, err
	}

	if err := decoder.Decode(answers); err != nil {
		return input, invalid("", "Reading job form: %s", err)
	}

	return input, nil
}

// Job validates the form and produces the create payload.
func (in JobInput) Job() (screening.NewJob, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return screening.NewJob{}, invalid("title", "Job title is required")
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return screening.NewJob{}, invalid("description", "Job description is required")
	}

	level, err := screening.ParseExperienceLevel(in.ExperienceLevel)
	if err != nil {
		return screening.NewJob{}, invalid("experience_level", "%s", err)
	}

	return screening.NewJob{
		Title:           title,
		Description:     description,
		RequiredSkills:  SplitSkills(in.RequiredSkills),
		PreferredSkills: SplitSkills(in.PreferredSkills),
		ExperienceLevel: level,
	}, nil
}

// Empty reports whether the form holds anything worth keeping.
func (in JobInput) Empty() bool {
	return strings.TrimSpace(in.Title+in.Description+in.RequiredSkills+in.PreferredSkills+in.ExperienceLevel) == ""
}
