package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldJobID     = "job_id"
	FieldResumeID  = "resume_id"
	FieldRequestID = "request_id"
	FieldView      = "view"
)

// Strings builds string fields from key/value pairs and leaves out pairs
// with a blank value. A trailing key without a value is ignored.
func Strings(pairs ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			continue
		}
		fields = append(fields, zap.String(pairs[i], pairs[i+1]))
	}
	return fields
}

// WithFields attaches the fields to the logger, defaulting to a no-op logger
// when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

func JobID(id string) zap.Field {
	return zap.String(FieldJobID, id)
}

func ResumeID(id string) zap.Field {
	return zap.String(FieldResumeID, id)
}

func View(name string) zap.Field {
	return zap.String(FieldView, name)
}
