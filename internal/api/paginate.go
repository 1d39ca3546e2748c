package api

import (
	"net/http"
	"strconv"
)

// parsePage extracts page and page_size query parameters. Out-of-range
// values are left to the core's pagination clamping; non-numeric input
// falls back to the defaults.
func parsePage(r *http.Request) (page, pageSize int) {
	page = 1
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}
	return page, pageSize
}
