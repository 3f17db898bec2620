package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/screening"
)

type ResumeLister interface {
	ListResumes(ctx context.Context) ([]screening.Resume, error)
}

type JobLister interface {
	ListJobs(ctx context.Context) ([]screening.Job, error)
}

type (
	Resumes = Collection[screening.Resume]
	Jobs    = Collection[screening.Job]
)

func NewResumes(client ResumeLister, logger *zap.Logger, opts ...Option) *Resumes {
	return NewCollection("resumes", client.ListResumes, logger, opts...)
}

func NewJobs(client JobLister, logger *zap.Logger, opts ...Option) *Jobs {
	return NewCollection("jobs", client.ListJobs, logger, opts...)
}
