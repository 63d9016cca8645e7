package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/atx/lang"
	"github.com/ardnew/atx/log"
)

// varsEditedMsg carries the variables decoded after an edit.
type varsEditedMsg struct{ vars lang.Context }

// editCancelledMsg is sent when the edited file was left empty.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to fix invalid YAML.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode, or prefix with ':' in eval mode):

  help               Print this help
  vars               List variables
  funcs              List functions
  set NAME EXPR      Bind the value of EXPR to variable NAME
  edit               Edit variables as YAML in $EDITOR
  clear              Clear screen
  quit               Exit REPL

Usage:
  Type an expression to evaluate it, such as upper(contact.name) & "!"
  Completions appear as you type; Tab / Shift-Tab cycle through them
  Up/Down navigate history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Config holds what a REPL session evaluates against.
type Config struct {
	Vars     lang.Context
	Registry *lang.Registry
	Options  []lang.Option
	CacheDir string // history is kept in memory when empty
	Logger   log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	vars         lang.Context
	reg          *lang.Registry
	opts         []lang.Option
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	candidates   []string
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive session and blocks until the user quits.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Registry == nil {
		return ErrNoRegistry
	}

	path := ""
	if cfg.CacheDir != "" {
		path = filepath.Join(cfg.CacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.Int("vars", cfg.Vars.Len()),
		slog.Int("functions", cfg.Registry.Len()),
		slog.Int("history", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, cfg, history), tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		vars:       cfg.Vars,
		reg:        cfg.Registry,
		opts:       cfg.Options,
		logger:     cfg.Logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case varsEditedMsg:
		m.vars = msg.vars

		return m, tea.Println(resultStyle.Render(
			"variables updated (" + strconv.Itoa(m.vars.Len()) + ")"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint renders the line below the input: history position, usage hint,
// signature of the enclosing call or completion candidates.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type an expression or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") +
			" (press Esc to return)")
	}

	if m.mode == modeEval && !m.tabActive {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if sig, params := getSignature(m.reg, call.name); sig != "" {
				return renderSignatureHint(sig, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width, m.isFunction)
}

func (m model) isFunction(name string) bool {
	if m.mode != modeEval {
		return false
	}

	_, ok := m.reg.Lookup(name)

	return ok
}

// historyKeys maps arrow keys to a history step and whether the step only
// visits entries sharing the typed prefix.
var historyKeys = map[tea.KeyType]struct {
	step   int
	prefix bool
}{
	tea.KeyUp:        {-1, false},
	tea.KeyDown:      {1, false},
	tea.KeyShiftUp:   {-1, true},
	tea.KeyShiftDown: {1, true},
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if h, ok := historyKeys[msg.Type]; ok {
		return m.historyStep(h.step, h.prefix), nil
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		if msg.Type == tea.KeyCtrlC {
			m.input.SetValue("")

			return m.edited(false), nil
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			refreshMatches(&m, true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyEsc:
		switch {
		case m.tabActive:
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)

			return m.edited(false), nil

		case m.mode == modeEval:
			return m.switchToMode(modeCtrl), nil

		default:
			return m.switchToMode(modeEval), nil
		}
	}

	// Typed runes keep an open candidate list unless the word was ended by
	// a space; any other key closes it.
	typed := msg.Type == tea.KeyRunes
	keepTab := typed && m.tabActive && msg.String() != " "

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.tabActive = keepTab

	return m.edited(typed), cmd
}

// edited resets history browsing and recomputes completions after the input
// line changed.
func (m model) edited(autoConfirm bool) model {
	m.tabActive = m.tabActive && autoConfirm
	m.historyIdx = m.history.Len()
	refreshMatches(&m, autoConfirm)

	return m
}

// cycle moves the tab selection by step, completing immediately when only
// one candidate remains.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord substitutes replacement for the word under the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(replacement))
	m.wordEnd = m.wordStart + len(replacement)
}

// refreshMatches recomputes the completion candidates. With autoConfirm set,
// a word that already equals its sole candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode
	if cmd, ok := strings.CutPrefix(input, ":"); ok && mode == modeEval {
		input, mode = strings.TrimSpace(cmd), modeCtrl
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	m.logger.TraceContext(m.ctxFunc(), "repl input",
		slog.String("input", input),
		slog.Int("mode", int(mode)),
	)

	if mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	v, err := m.evaluate(input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(v.String())))
}

func (m model) evaluate(input string) (lang.Value, error) {
	node, err := lang.ParseExpression(input, m.opts...)
	if err != nil {
		return lang.Null(), err
	}

	return lang.Evaluate(m.ctxFunc(), node, m.vars, m.reg, m.opts...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.listVars()))

	case "f", "funcs":
		return m, tea.Sequence(echo, tea.Println(m.listFuncs(rest)))

	case "s", "set":
		var out string

		m, out = m.set(rest)

		return m, tea.Sequence(echo, tea.Println(out))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + name + " (try 'help')"),
		)
	}
}

// set evaluates "NAME EXPR" and binds the result to NAME.
func (m model) set(args string) (model, string) {
	name, expr, _ := strings.Cut(args, " ")
	if name == "" || strings.TrimSpace(expr) == "" {
		return m, errorStyle.Render("usage: set NAME EXPR")
	}

	v, err := m.evaluate(expr)
	if err != nil {
		return m, errorStyle.Render("error: " + err.Error())
	}

	m.vars = m.vars.With(name, v)

	return m, resultStyle.Render(strings.ToLower(name) + " = " + v.String())
}

func (m model) edit() tea.Cmd {
	cmd := &editVarsCommand{
		vars:    m.vars,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case cmd.updated == nil:
			return editCancelledMsg{}

		default:
			return varsEditedMsg{vars: *cmd.updated}
		}
	})
}

func (m model) listVars() string {
	var b strings.Builder

	for _, name := range m.vars.Names() {
		v, _ := m.vars.Lookup(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(v, 60)))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no variables)")
	}

	return b.String()
}

func (m model) listFuncs(filter string) string {
	var b strings.Builder

	for _, fn := range m.reg.Functions() {
		if filter != "" && len(fuzzy.Find(filter, []string{fn.Name()})) == 0 {
			continue
		}

		fmt.Fprintf(&b, "  %s %s\n", fn.Signature(), hintStyle.Render(fn.Doc()))
	}

	return b.String()
}

// historyStep moves through history by step. Within mode restricts the
// walk to entries of the current mode; otherwise the mode follows the entry.
func (m model) historyStep(step int, withinMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if withinMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches the input mode, keeping each mode's pending text.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
