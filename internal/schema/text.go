package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a scalar that decodes from a JSON string, number, bool or null.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Int parses the value as a base-10 integer.
func (t Text) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(t)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsZero reports whether the value is absent, empty or the literal "0".
func (t Text) IsZero() bool {
	s := strings.TrimSpace(string(t))
	return s == "" || s == "0"
}
