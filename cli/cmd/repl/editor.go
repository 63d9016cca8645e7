package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/atx/lang"
	"github.com/ardnew/atx/log"
)

const defaultEditor = "vi"

// editVarsCommand implements [tea.ExecCommand]. It writes the session
// variables to a temporary YAML file, opens $EDITOR on it and decodes the
// result, offering to re-edit when the YAML is invalid.
type editVarsCommand struct {
	vars    lang.Context
	ctxFunc func() context.Context
	logger  log.Logger
	updated *lang.Context
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editVarsCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editVarsCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editVarsCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-decode-retry loop. Declining to re-edit returns
// [ErrEditDeclined]; saving an empty file leaves the variables unchanged.
func (c *editVarsCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := yaml.MarshalContext(ctx, c.vars.Value(), yaml.Indent(2))
	if err != nil {
		return fmt.Errorf("encode variables: %w", err)
	}

	f, err := os.CreateTemp("", "atx-repl-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()
	f.Close()

	defer os.Remove(path)

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		if content, err = os.ReadFile(path); err != nil {
			return err
		}

		if strings.TrimSpace(string(content)) == "" {
			return nil
		}

		var decoded map[string]any

		decodeErr := yaml.UnmarshalContext(ctx, content, &decoded)

		c.logger.TraceContext(ctx, "editor decode attempt",
			slog.Int("length", len(content)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			vars := lang.NewContext(decoded)
			c.updated = &vars

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", yaml.FormatError(decodeErr, false, true))
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR (or vi) on path and waits for it to exit.
func runEditor(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
