package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

type parsedBodyContextKey struct{}

// ParseBody parses structured request bodies once, before any handler runs.
//
// Requests under the auth base path pass through untouched: the auth handlers
// read their own body, and parsing it here would desynchronize the stream.
// For everything else the body is size-capped and decoded (JSON or
// url-encoded form), with the result attached to the request context and the
// raw bytes restored on r.Body for typed decoding downstream. A body that
// fails to parse short-circuits the request instead of continuing
// half-populated.
func ParseBody(authBasePath string, limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, authBasePath) {
				next.ServeHTTP(w, r)
				return
			}
			if r.Body == nil || r.ContentLength == 0 || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				var maxBytesErr *http.MaxBytesError
				if errors.As(err, &maxBytesErr) {
					respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
					return
				}
				respondError(w, http.StatusBadRequest, "malformed request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))

			if len(bytes.TrimSpace(raw)) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			mediaType, _, _ := mime.ParseMediaType(contentType)

			var parsed map[string]any
			switch mediaType {
			case "application/x-www-form-urlencoded":
				values, err := url.ParseQuery(string(raw))
				if err != nil {
					respondError(w, http.StatusBadRequest, "malformed request body")
					return
				}
				parsed = make(map[string]any, len(values))
				for key, vals := range values {
					if len(vals) == 1 {
						parsed[key] = vals[0]
					} else {
						parsed[key] = vals
					}
				}
			default:
				// JSON unless told otherwise
				if err := json.Unmarshal(raw, &parsed); err != nil {
					respondError(w, http.StatusBadRequest, "malformed request body")
					return
				}
			}

			ctx := context.WithValue(r.Context(), parsedBodyContextKey{}, parsed)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParsedBody returns the body parsed by ParseBody, if any. Auth routes and
// bodyless requests have none.
func ParsedBody(ctx context.Context) (map[string]any, bool) {
	body, ok := ctx.Value(parsedBodyContextKey{}).(map[string]any)
	return body, ok
}
