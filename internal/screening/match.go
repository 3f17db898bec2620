package screening

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyResumeSubset guards against a request that names an explicit but
// empty subset. Omit the subset to match the whole collection.
var ErrEmptyResumeSubset = errors.New("resume subset must not be empty")

type MatchRequest struct {
	JobID ID `json:"-"`
	// ResumeIDs nil means every resume server-side.
	ResumeIDs []ID `json:"resume_ids"`
}

func (r MatchRequest) Validate() error {
	if r.JobID.IsZero() {
		return errors.New("job id is required")
	}
	if r.ResumeIDs != nil && len(r.ResumeIDs) == 0 {
		return ErrEmptyResumeSubset
	}
	return nil
}

// Match is one candidate scored against a job. All scores are in [0,1].
type Match struct {
	ResumeID           ID      `json:"resume_id"`
	Filename           string  `json:"filename"`
	Rank               int     `json:"rank"`
	SkillMatchScore    float64 `json:"skill_match_score"`
	ExperienceScore    float64 `json:"experience_score"`
	EducationScore     float64 `json:"education_score"`
	SemanticSimilarity float64 `json:"semantic_similarity"`
	OverallScore       float64 `json:"overall_score"`
}

// MatchResult is a ranking as ordered by the server. The client never re-sorts.
type MatchResult struct {
	JobID        ID      `json:"job_id"`
	JobTitle     string  `json:"job_title"`
	TotalMatched int     `json:"total_matched"`
	Matches      []Match `json:"matches"`
}

func (r *MatchResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Matches)
}

func (r *MatchResult) Empty() bool {
	return r.Len() == 0
}

// FindByResumeID returns the entry of one resume, nil when it was not ranked.
func (r *MatchResult) FindByResumeID(id ID) *Match {
	if r == nil {
		return nil
	}
	for i := range r.Matches {
		if r.Matches[i].ResumeID.Equal(id) {
			return &r.Matches[i]
		}
	}
	return nil
}

// CheckRanking reports whether ranks are dense from 1 and overall scores do
// not increase down the list.
func (r *MatchResult) CheckRanking() error {
	if r == nil {
		return nil
	}
	for i, m := range r.Matches {
		if m.Rank != i+1 {
			return fmt.Errorf("match %d (resume %s) has rank %d, expected %d", i, m.ResumeID, m.Rank, i+1)
		}
		if i > 0 && m.OverallScore > r.Matches[i-1].OverallScore {
			return fmt.Errorf("match %d (resume %s) scores %.4f above the previous %.4f",
				i, m.ResumeID, m.OverallScore, r.Matches[i-1].OverallScore)
		}
	}
	return nil
}

// Match asks the scoring service to rank candidates for the job.
func (c *Client) Match(ctx context.Context, req MatchRequest) (*MatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var result MatchResult
	path := fmt.Sprintf("%s/%s/match", apiJobsPath, req.JobID.PathSegment())
	if err := c.postJSON(ctx, path, req, &result); err != nil {
		return nil, err
	}
	return normalizeResult(&result, req.JobID), nil
}

// Rankings returns the last computed ranking for the job without rescoring.
func (c *Client) Rankings(ctx context.Context, jobID ID) (*MatchResult, error) {
	if jobID.IsZero() {
		return nil, errors.New("job id is required")
	}

	var result MatchResult
	path := fmt.Sprintf("%s/%s/rankings", apiJobsPath, jobID.PathSegment())
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return normalizeResult(&result, jobID), nil
}

func normalizeResult(r *MatchResult, jobID ID) *MatchResult {
	if r.JobID.IsZero() {
		r.JobID = jobID
	}
	if r.Matches == nil {
		r.Matches = []Match{}
	}
	return r
}
