package httpx

import (
	"net/http"
	"strings"
)

// IsMultipart reports whether the request body is a multipart form (file
// uploads); handlers fall back to JSON otherwise.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// FormValue returns a parsed multipart form field and whether the client
// supplied it, which is what patch semantics need to distinguish "absent"
// from "empty".
func FormValue(r *http.Request, field string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vals := r.MultipartForm.Value[field]
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}
