package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type APIError struct {
	Status  int
	Code    any
	Message string
	Body    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	return fmt.Sprintf("api error: status=%d code=%v message=%s", e.Status, e.Code, msg)
}

// ParseAPIError reads {error} / {error:{message}} / {message} bodies.
func ParseAPIError(status int, body []byte) *APIError {
	out := &APIError{Status: status, Body: string(body)}

	var m map[string]any
	if json.Unmarshal(body, &m) == nil {
		if v, ok := m["code"]; ok {
			out.Code = v
		}
		switch v := m["error"].(type) {
		case string:
			out.Message = v
		case map[string]any:
			out.Message, _ = v["message"].(string)
			if c, ok := v["code"]; ok && out.Code == nil {
				out.Code = c
			}
		}
		if out.Message == "" {
			out.Message, _ = m["message"].(string)
		}
	}
	return out
}

// Message returns the server supplied message carried by err, if any.
func Message(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
