package screening

import (
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "http://localhost:8000/api/v1"
	userAgent     = "spigell/screener"
	// Matching scores every candidate server-side, so keep this generous.
	defaultTimeout = 30 * time.Second
)

// Credentials is the part of the session the transport depends on.
type Credentials interface {
	Token() string
	Clear(reason string)
}

// Client talks to the screening backend. Every call goes through the same
// resty client, so credential attachment and authorization failures are
// handled in one place.
type Client struct {
	rest *resty.Client
	// bare has no auth hooks. Login must not purge the credential on 401.
	bare   *resty.Client
	creds  Credentials
	logger *zap.Logger

	loginRequired func()

	UserAgent string
	APIURL    string
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.rest.SetTimeout(d)
			c.bare.SetTimeout(d)
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.UserAgent = ua
		}
	}
}

// WithLoginRequired registers the handler invoked after an authorization
// failure has purged the credential.
func WithLoginRequired(fn func()) Option {
	return func(c *Client) {
		c.loginRequired = fn
	}
}

func New(apiURL string, creds Credentials, logger *zap.Logger, opts ...Option) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		rest:      resty.New(),
		bare:      resty.New(),
		creds:     creds,
		logger:    logger,
		UserAgent: userAgent,
		APIURL:    apiURL,
	}

	for _, r := range []*resty.Client{c.rest, c.bare} {
		r.SetBaseURL(apiURL).
			SetTimeout(defaultTimeout).
			SetLogger(logger.Sugar()).
			OnBeforeRequest(c.setHeaders)
	}

	c.rest.OnBeforeRequest(c.attachCredential)
	c.rest.OnAfterResponse(c.handleUnauthorized)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetLoginRequired replaces the login-required handler. The interactive shell
// installs its own after construction.
func (c *Client) SetLoginRequired(fn func()) {
	c.loginRequired = fn
}
