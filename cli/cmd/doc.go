// Package cmd implements the atx subcommands: render, eval, ast, funcs,
// init and repl.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file written by init.
	ConfigIdentifier = "config"
)
