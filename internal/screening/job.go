package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const apiJobsPath = "/jobs"

type ExperienceLevel string

const (
	LevelUnset  ExperienceLevel = ""
	LevelEntry  ExperienceLevel = "entry"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
)

// ExperienceLevels lists the accepted levels in display order.
var ExperienceLevels = []ExperienceLevel{LevelEntry, LevelMid, LevelSenior}

func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	switch level := ExperienceLevel(strings.ToLower(strings.TrimSpace(s))); level {
	case LevelUnset, LevelEntry, LevelMid, LevelSenior:
		return level, nil
	default:
		return LevelUnset, fmt.Errorf("unknown experience level %q, expected one of entry, mid, senior", s)
	}
}

func (l ExperienceLevel) String() string {
	if l == LevelUnset {
		return "N/A"
	}
	return string(l)
}

// MarshalJSON writes an absent level as null.
func (l ExperienceLevel) MarshalJSON() ([]byte, error) {
	if l == LevelUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(l))
}

type Job struct {
	ID              ID              `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	RequiredSkills  []string        `json:"required_skills"`
	PreferredSkills []string        `json:"preferred_skills"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	CreatedAt       Timestamp       `json:"created_at"`
}

func (j Job) Key() ID { return j.ID }

// NewJob is the payload for creating a posting. Skill lists are already split.
type NewJob struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	RequiredSkills  []string        `json:"required_skills"`
	PreferredSkills []string        `json:"preferred_skills"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
}

func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	if err := c.getJSON(ctx, apiJobsPath, &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []Job{}
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id ID) (*Job, error) {
	if id.IsZero() {
		return nil, errors.New("job id is required")
	}

	var job Job
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s", apiJobsPath, id.PathSegment()), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, job NewJob) (*Job, error) {
	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	}
	if job.PreferredSkills == nil {
		job.PreferredSkills = []string{}
	}

	var created Job
	if err := c.postJSON(ctx, apiJobsPath, job, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteJob(ctx context.Context, id ID) error {
	if id.IsZero() {
		return errors.New("job id is required")
	}
	return c.delete(ctx, fmt.Sprintf("%s/%s", apiJobsPath, id.PathSegment()))
}
