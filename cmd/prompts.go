package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/screener/internal/forms"
	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/shell"
	"github.com/spigell/screener/internal/utils"
)

const (
	PromptBack       = "Back"
	PromptNoLevel    = "Not specified"
	PromptSelectJob  = "Select a job posting"
	PromptSelectCand = "Select a resume"
)

var errBack = errors.New("back requested")

type jobFormField struct {
	key   string
	flag  string
	label string
	usage string
}

// jobFormFields maps the job form to both flags and prompts.
var jobFormFields = []jobFormField{
	{key: "title", flag: "title", label: "Job title", usage: "job title"},
	{key: "description", flag: "description", label: "Job description", usage: "job description"},
	{key: "required_skills", flag: "required-skills", label: "Required skills (comma separated)", usage: "comma separated required skills"},
	{key: "preferred_skills", flag: "preferred-skills", label: "Preferred skills (comma separated)", usage: "comma separated preferred skills"},
	{key: "experience_level", flag: "experience-level", label: "Experience level", usage: "entry, mid or senior"},
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

// askJobForm prompts for every field still empty in input.
func askJobForm(input forms.JobInput) (forms.JobInput, error) {
	answers := map[string]any{
		"title":            input.Title,
		"description":      input.Description,
		"required_skills":  input.RequiredSkills,
		"preferred_skills": input.PreferredSkills,
		"experience_level": input.ExperienceLevel,
	}

	for _, field := range jobFormFields {
		if current, _ := answers[field.key].(string); strings.TrimSpace(current) != "" {
			continue
		}

		var (
			value string
			err   error
		)
		switch field.key {
		case "experience_level":
			value, err = selectExperienceLevel()
		case "title", "description":
			value, err = askIfEmpty(field.label, "")
		default:
			value, err = (&promptui.Prompt{Label: field.label}).Run()
		}
		if err != nil {
			return input, err
		}
		answers[field.key] = value
	}

	return forms.DecodeJobInput(answers)
}

func selectExperienceLevel() (string, error) {
	items := []string{PromptNoLevel}
	for _, level := range screening.ExperienceLevels {
		items = append(items, string(level))
	}

	prompt := promptui.Select{
		Label: "Experience level",
		Items: items,
	}
	_, selected, err := prompt.Run()
	if err != nil || selected == PromptNoLevel {
		return "", err
	}
	return selected, nil
}

// selectJob asks for one of the loaded job postings. errBack is returned
// when the user walks away.
func selectJob(jobs []screening.Job) (screening.ID, error) {
	items := make([]string, 0, len(jobs)+1)
	for _, j := range jobs {
		items = append(items, fmt.Sprintf("%s %s / %s", j.ID, j.Title, j.ExperienceLevel))
	}

	idx, err := choose(PromptSelectJob, items)
	if err != nil {
		return "", err
	}
	return jobs[idx].ID, nil
}

func selectResume(resumes []screening.Resume) (screening.ID, error) {
	items := make([]string, 0, len(resumes)+1)
	for _, r := range resumes {
		items = append(items, fmt.Sprintf("%s %s / %s", r.ID, r.Filename, utils.Summarize(r.Skills, 3)))
	}

	idx, err := choose(PromptSelectCand, items)
	if err != nil {
		return "", err
	}
	return resumes[idx].ID, nil
}

// choose runs a select with a trailing back entry and returns the index of
// the picked item.
func choose(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: append(items, PromptBack),
		Size:  10,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	if idx == len(items) {
		return 0, errBack
	}
	return idx, nil
}

var noticeStyles = map[shell.Level]func(any) string{
	shell.LevelInfo:    promptui.Styler(promptui.FGCyan),
	shell.LevelSuccess: promptui.Styler(promptui.FGGreen),
	shell.LevelError:   promptui.Styler(promptui.FGRed, promptui.FGBold),
}

// printNotifier shows notifications inline in the interactive shell.
type printNotifier struct {
	w io.Writer
}

func (p printNotifier) Notify(n shell.Notification) {
	w := p.w
	if w == nil {
		w = os.Stderr
	}

	style, ok := noticeStyles[n.Level]
	if !ok {
		fmt.Fprintln(w, n.Message)
		return
	}
	fmt.Fprintf(w, "%s %s\n", style(strings.ToUpper(n.Level.String())), n.Message)
}
