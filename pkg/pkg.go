//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of atx embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and in the default
	// configuration and cache paths.
	Name = "atx"
	// Description is a short summary used in help output.
	Description = "Template expression evaluator"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
