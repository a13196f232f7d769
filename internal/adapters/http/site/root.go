// Package site serves the embedded single-page presence tracker.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded page and its assets at the root of mux.
// The API routes are more specific and keep precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", http.FileServer(FS()))
}
