package screening

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const apiAuthPath = "/auth"

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Account struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login exchanges credentials for a bearer token. It uses the client without
// auth hooks: a rejected password is an ordinary failure, not a session expiry.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	req := c.bare.R().SetMultipartFormData(map[string]string{
		"username": username,
		"password": password,
	})

	resp, err := c.do(ctx, req, http.MethodPost, apiAuthPath+"/login")
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(gjson.GetBytes(resp.Body(), "access_token").String())
	if token == "" {
		return "", errors.New("login response carries no access_token")
	}

	return token, nil
}

func (c *Client) Register(ctx context.Context, r Registration) (*Account, error) {
	if r.Username == "" || r.Email == "" || r.Password == "" {
		return nil, errors.New("username, email and password are required")
	}

	var account Account
	if err := c.postJSON(ctx, apiAuthPath+"/register", r, &account); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &account, nil
}
