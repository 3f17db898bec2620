package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/screener/internal/screening"
)

func TestValidateResumeFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		size    int64
		wantErr bool
	}{
		{name: "pdf", file: "cv.pdf", size: 1024},
		{name: "docx upper case", file: "/tmp/CV.DOCX", size: 1024},
		{name: "unknown size", file: "cv.pdf", size: -1},
		{name: "txt refused", file: "cv.txt", size: 10, wantErr: true},
		{name: "doc refused", file: "cv.doc", size: 10, wantErr: true},
		{name: "no extension", file: "cv", size: 10, wantErr: true},
		{name: "empty name", file: " ", size: 10, wantErr: true},
		{name: "empty file", file: "cv.pdf", size: 0, wantErr: true},
		{name: "too large", file: "cv.pdf", size: MaxResumeSize + 1, wantErr: true},
		{name: "at the limit", file: "cv.pdf", size: MaxResumeSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateResumeFile(tt.file, tt.size)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, "file", vErr.Field)
		})
	}
}

func TestValidateResumeFileMessage(t *testing.T) {
	err := ValidateResumeFile("cv.txt", 10)
	require.Error(t, err)
	assert.Equal(t, "Please select a PDF or DOCX file", err.Error())
}

func TestSplitSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "empty", input: "", expect: []string{}},
		{name: "only separators", input: " , ,", expect: []string{}},
		{name: "trims items", input: "A, B ,C", expect: []string{"A", "B", "C"}},
		{name: "single", input: "Go", expect: []string{"Go"}},
		{name: "keeps inner spaces", input: "machine learning, sql", expect: []string{"machine learning", "sql"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitSkills(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestDecodeJobInput(t *testing.T) {
	input, err := DecodeJobInput(map[string]any{
		"title":            "Backend Engineer",
		"description":      "Build APIs",
		"required_skills":  "Go, SQL",
		"preferred_skills": "",
		"experience_level": "Senior",
	})
	require.NoError(t, err)

	job, err := input.Job()
	require.NoError(t, err)
	assert.Equal(t, screening.NewJob{
		Title:           "Backend Engineer",
		Description:     "Build APIs",
		RequiredSkills:  []string{"Go", "SQL"},
		PreferredSkills: []string{},
		ExperienceLevel: screening.LevelSenior,
	}, job)
}

func TestDecodeJobInputRejectsUnknownFields(t *testing.T) {
	_, err := DecodeJobInput(map[string]any{"title": "x", "salary": 10})
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestJobInputValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input JobInput
		field string
	}{
		{name: "missing title", input: JobInput{Description: "d"}, field: "title"},
		{name: "blank title", input: JobInput{Title: "  ", Description: "d"}, field: "title"},
		{name: "missing description", input: JobInput{Title: "t"}, field: "description"},
		{name: "bad level", input: JobInput{Title: "t", Description: "d", ExperienceLevel: "guru"}, field: "experience_level"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.input.Job()
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestJobInputWithoutLevel(t *testing.T) {
	job, err := JobInput{Title: "t", Description: "d"}.Job()
	require.NoError(t, err)
	assert.Equal(t, screening.LevelUnset, job.ExperienceLevel)
	assert.Equal(t, []string{}, job.RequiredSkills)
}

func TestJobInputEmpty(t *testing.T) {
	assert.True(t, JobInput{Title: "  "}.Empty())
	assert.False(t, JobInput{RequiredSkills: "Go"}.Empty())
}
