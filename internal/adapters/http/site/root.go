// Package site serves the embedded chat page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded chat page at / to mux. Paths without a
// matching embedded file are 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
