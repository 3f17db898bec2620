package screening

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/logger"
)

const apiResumesPath = "/resumes"

// Entry is an extracted experience or education item. Its content is owned by
// the ingestion service; the client only counts entries.
type Entry map[string]any

type Resume struct {
	ID         ID        `json:"id"`
	Filename   string    `json:"filename"`
	Skills     []string  `json:"skills"`
	Experience []Entry   `json:"experience"`
	Education  []Entry   `json:"education"`
	CreatedAt  Timestamp `json:"created_at"`
}

func (r Resume) Key() ID { return r.ID }

type uploadResponse struct {
	Resume
	Message string `json:"message"`
}

// ListResumes returns every resume visible to the current user.
func (c *Client) ListResumes(ctx context.Context) ([]Resume, error) {
	var resumes []Resume
	if err := c.getJSON(ctx, apiResumesPath, &resumes); err != nil {
		return nil, err
	}
	if resumes == nil {
		resumes = []Resume{}
	}
	return resumes, nil
}

func (c *Client) GetResume(ctx context.Context, id ID) (*Resume, error) {
	if id.IsZero() {
		return nil, errors.New("resume id is required")
	}

	var resume Resume
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s", apiResumesPath, id.PathSegment()), &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// UploadResume sends the document for ingestion. The returned record carries
// at least the identifier and filename; extracted fields arrive with the next
// listing.
func (c *Client) UploadResume(ctx context.Context, filename string, content io.Reader) (*Resume, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, errors.New("filename is required")
	}

	req := c.rest.R().SetFileReader("file", filename, content)

	path := apiResumesPath + "/upload"
	resp, err := c.do(ctx, req, http.MethodPost, path)
	if err != nil {
		return nil, err
	}

	var uploaded uploadResponse
	if err := decode(resp, &uploaded); err != nil {
		return nil, err
	}

	c.logger.Info("resume uploaded",
		logger.ResumeID(uploaded.ID.String()),
		zap.String("filename", uploaded.Filename),
		zap.String("message", uploaded.Message),
	)

	if uploaded.Filename == "" {
		uploaded.Filename = filename
	}

	return &uploaded.Resume, nil
}

func (c *Client) DeleteResume(ctx context.Context, id ID) error {
	if id.IsZero() {
		return errors.New("resume id is required")
	}
	return c.delete(ctx, fmt.Sprintf("%s/%s", apiResumesPath, id.PathSegment()))
}
