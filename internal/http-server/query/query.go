package query

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

func Int(r *http.Request, key string) (val int, present bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be integer", key)
	}
	return n, true, nil
}

// IntOr is Int with def for a missing or malformed value.
func IntOr(r *http.Request, key string, def int) int {
	v, ok, err := Int(r, key)
	if err != nil || !ok {
		return def
	}
	return v
}

// String returns the first non-blank value among keys, trimmed.
func String(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}
