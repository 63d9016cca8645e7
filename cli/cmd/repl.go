package cmd

import (
	"context"

	"github.com/ardnew/atx/cli/cmd/repl"
)

// REPL starts an interactive session for evaluating expressions.
type REPL struct {
	Vars `embed:""`

	NoHistory bool `help:"Do not read or write the command history"`
}

// Run executes the repl command.
func (r *REPL) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := r.session(ctx)
	if err != nil {
		return err
	}

	cfg := repl.Config{
		Vars:     s.vars,
		Registry: s.reg,
		Options:  s.opts,
		Logger:   s.logger,
	}

	if !r.NoHistory {
		cfg.CacheDir = kongVar(ctx, CacheIdentifier)
	}

	return repl.Run(ctx, cfg)
}
