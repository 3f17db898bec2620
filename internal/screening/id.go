package screening

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ID is a server assigned identifier. The backend uses integers, but the
// client treats identifiers as opaque and accepts both JSON numbers and strings.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

// PathSegment returns the identifier escaped for use in a URL path.
func (id ID) PathSegment() string {
	return url.PathEscape(string(id))
}

// ParseID reads an identifier typed by the user. Numeric ids are stored in
// their canonical form so "01" and 1 name the same record.
func ParseID(s string) ID {
	return ID(strings.TrimSpace(s)).Canonical()
}

// Canonical strips leading zeros from an all-digit identifier, matching the
// integer the backend echoes back. Other identifiers are returned unchanged.
func (id ID) Canonical() ID {
	if id == "" {
		return id
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return id
		}
	}
	if trimmed := strings.TrimLeft(string(id), "0"); trimmed != "" {
		return ID(trimmed)
	}
	return "0"
}

// Equal compares identifiers by canonical form.
func (id ID) Equal(other ID) bool {
	return id.Canonical() == other.Canonical()
}

func (id ID) numeric() bool {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MarshalJSON writes numeric identifiers as JSON numbers so the backend sees
// the same type it issued.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// IDs parses plain strings into identifiers.
func IDs(values ...string) []ID {
	ids := make([]ID, 0, len(values))
	for _, v := range values {
		ids = append(ids, ParseID(v))
	}
	return ids
}
