package web

import "embed"

// Templates holds the HTML templates for the board page.
//
//go:embed templates/*.html
var Templates embed.FS
