package responses

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a free-text field that the backend sometimes sends as a number.
// null and non-scalar values decode to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[', 't', 'f':
		*t = ""
	default:
		*t = Text(string(b))
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Number is a numeric field tolerant of quoted numbers.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' {
		*n = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// not a number: treat as absent
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// String renders the shortest representation, 4 -> "4", 4.5 -> "4.5".
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// URLField is an image reference that is either a plain URL string or an
// object exposing a url or src field.
type URLField struct {
	Str string
	URL string
	Src string
	// IsObject reports the object form.
	IsObject bool
}

func (f *URLField) UnmarshalJSON(b []byte) error {
	*f = URLField{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &f.Str)
	case '{':
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			return nil
		}
		f.IsObject = true
		f.URL, _ = m["url"].(string)
		f.Src, _ = m["src"].(string)
	}
	return nil
}

func (f URLField) MarshalJSON() ([]byte, error) {
	if !f.IsObject {
		return json.Marshal(f.Str)
	}
	m := map[string]string{}
	if f.URL != "" {
		m["url"] = f.URL
	}
	if f.Src != "" {
		m["src"] = f.Src
	}
	return json.Marshal(m)
}

// Resolve normalizes the field to a URL: the string itself, else url, else src.
func (f URLField) Resolve() (string, bool) {
	if !f.IsObject {
		return f.Str, f.Str != ""
	}
	if f.URL != "" {
		return f.URL, true
	}
	if f.Src != "" {
		return f.Src, true
	}
	return "", false
}

// URLFields decodes an array of URLField. Anything that is not an array is
// treated as absent.
type URLFields []URLField

func (fs *URLFields) UnmarshalJSON(b []byte) error {
	*fs = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	out := make(URLFields, 0, len(raw))
	for _, r := range raw {
		var f URLField
		_ = f.UnmarshalJSON(r)
		out = append(out, f)
	}
	*fs = out
	return nil
}

// URLList keeps only the string entries of a JSON array.
type URLList []string

func (l *URLList) UnmarshalJSON(b []byte) error {
	*l = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	out := make(URLList, 0, len(raw))
	for _, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) == 0 || r[0] != '"' {
			continue
		}
		var s string
		if json.Unmarshal(r, &s) == nil {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}
