package session

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrEmptySecret = errors.New("secret is empty")

// Source describes where a secret comes from. File wins over Value.
type Source struct {
	// Name is used in error messages.
	Name  string
	Value string
	File  string
}

// LoadSecret resolves src to a trimmed, non-empty value.
func LoadSecret(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q: %w", name, file, ErrEmptySecret)
		}
		return secret, nil
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured: %w", name, ErrEmptySecret)
	}

	return secret, nil
}
