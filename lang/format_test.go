package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ardnew/atx/log"
)

func TestWriteAST(t *testing.T) {
	n, err := ParseExpression(`f(a.b[1], "x") + 2`)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteAST(&buf, n); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"BinaryOp: +",
		"  Call: f: 2",
		"    IndexAccess",
		"      PropertyAccess: b",
		"        Identifier: a",
		"      Literal: integer: 1",
		`    Literal: string: "x"`,
		"  Literal: integer: 2",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	n, err := ParseExpression("a + 1")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatJSON(t.Context(), &buf, ASTMap(n), 0); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if got["type"] != "BinaryOp" || got["operator"] != "+" {
		t.Errorf("expected + BinaryOp, got %v", got)
	}
}

func TestFormatYAML(t *testing.T) {
	tmpl := ParseTemplate("hi @name")

	var buf bytes.Buffer
	if err := FormatYAML(t.Context(), &buf, TemplateMap(tmpl), 2); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"type: Text", "type: Expression", "@name"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf, ParseTemplate("a @b")); err != nil {
		t.Fatal(err)
	}

	want := "Text: \"a \"\nExpression: @b\n  Identifier: b\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestTraceLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithTimeLayout("none"))

	if _, err := ParseExpression("1 + 2", WithLogger(logger)); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "ast=\"1 + 2\"") {
		t.Errorf("expected lazily formatted AST in log, got %q", buf.String())
	}

	buf.Reset()

	if _, err := ParseExpression("1 +", WithLogger(log.Make(&buf))); err == nil {
		t.Fatal("expected parse error")
	}

	if buf.Len() != 0 {
		t.Errorf("expected nothing logged above trace, got %q", buf.String())
	}
}
