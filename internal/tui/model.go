// Package tui implements the interactive calculation wizard.
package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/tdm-calculator/internal/catalog"
	"github.com/Veraticus/tdm-calculator/internal/common"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/session"
	"github.com/Veraticus/tdm-calculator/internal/tui/themes"
	"github.com/Veraticus/tdm-calculator/internal/wizard"
)

// Status messages.
const (
	MsgUnsavedChanges = "You have unsaved changes. Press q again to quit."
	MsgReadOnly       = "This project is read-only."
	MsgNotEditable    = "This value is calculated."
	MsgSaved          = "Project saved."
	MsgLoading        = "Loading project..."
	MsgSaving         = "Saving..."
	MsgSignIn         = "Sign in to open this project."
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Model is the state of the wizard.
type Model struct {
	session     *session.Session
	catalog     *catalog.Catalog
	controller  *wizard.Controller
	packageKeys map[model.RuleCode]string
	message     string
	theme       themes.Theme
	keys        KeyMap
	resultCodes []model.RuleCode
	help        help.Model
	progress    progress.Model
	input       textinput.Model
	editCode    model.RuleCode
	cursor      int
	width       int
	height      int
	status      statusKind
	loading     bool
	saving      bool
	editing     bool
	confirmQuit bool
	quitting    bool

	signInRequired bool
}

// New creates the wizard model. The controller is bound to cfg.Router's
// current location.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50

	packageKeys := make(map[model.RuleCode]string, len(cfg.Catalog.Packages))
	for k, pkg := range cfg.Catalog.Packages {
		packageKeys[pkg.Rule] = k
	}

	m := Model{
		session:     cfg.Session,
		catalog:     cfg.Catalog,
		controller:  wizard.NewController(cfg.Router, cfg.Account, cfg.ResultCodes),
		packageKeys: packageKeys,
		theme:       cfg.Theme,
		keys:        DefaultKeyMap(),
		resultCodes: cfg.ResultCodes,
		help:        help.New(),
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		input:       ti,
		width:       cfg.Width,
		height:      cfg.Height,
	}
	m.progress.Width = 40
	m.syncFlags()

	switch m.controller.Open(0) {
	case wizard.LoginPath:
		m.signInRequired = true
		m.setStatus(statusWarning, MsgSignIn)
	case "":
		if m.controller.ProjectID() != 0 {
			m.loading = true
			m.setStatus(statusInfo, MsgLoading)
		}
	}
	return m
}

// Init starts loading the bound project, if any.
func (m Model) Init() tea.Cmd {
	if m.loading {
		return m.loadProject(m.controller.ProjectID())
	}
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case projectLoadedMsg:
		return m.handleLoaded(msg)

	case projectSavedMsg:
		return m.handleSaved(msg)

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleLoaded(msg projectLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if errors.Is(msg.err, common.ErrSuperseded) {
		return m, nil
	}
	if msg.err != nil {
		m.setStatus(statusError, errorMessage(msg.err))
		return m, nil
	}
	if path := m.controller.Open(msg.project.LoginID); path != "" {
		slog.Debug("wizard redirected", "path", path)
	}
	m.syncFlags()
	m.cursor = 0
	m.setStatus(statusInfo, "")
	return m, nil
}

func (m Model) handleSaved(msg projectSavedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		m.setStatus(statusError, errorMessage(msg.err))
		return m, nil
	}
	if m.controller.ProjectID() == 0 && msg.id != 0 {
		m.controller.BindProject(msg.id)
	}
	m.confirmQuit = false
	m.setStatus(statusSuccess, MsgSaved)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Quit) {
		m.confirmQuit = false
	}
	if (m.loading || m.signInRequired) && !key.Matches(msg, m.keys.Quit, m.keys.Help) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.session.Dirty() && !m.confirmQuit && !m.session.ReadOnly() {
			m.confirmQuit = true
			m.setStatus(statusWarning, MsgUnsavedChanges)
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.pageRules())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.NextPage):
		m.syncFlags()
		t := m.controller.Next(m.session.Repository())
		m.afterTransition(t)

	case key.Matches(msg, m.keys.PrevPage):
		m.syncFlags()
		m.afterTransition(m.controller.Previous())

	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()

	case key.Matches(msg, m.keys.Toggle):
		m.toggle()

	case key.Matches(msg, m.keys.UncheckAll):
		if m.controller.ContentPage() == wizard.PageStrategies || m.controller.Page() == wizard.PagePackages {
			m.apply(m.session.UncheckAll())
		}

	case key.Matches(msg, m.keys.Save):
		if m.saving {
			return m, nil
		}
		if m.session.ReadOnly() {
			m.setStatus(statusWarning, MsgReadOnly)
			return m, nil
		}
		m.saving = true
		m.setStatus(statusInfo, MsgSaving)
		return m, m.saveProject()
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEdit()
		return m, nil

	case msg.Type == tea.KeyEnter:
		code := m.editCode
		raw := m.input.Value()
		m.stopEdit()
		m.apply(m.session.Edit(code, raw))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) afterTransition(t wizard.Transition) {
	if t.Moved {
		m.cursor = 0
		m.setStatus(statusInfo, "")
		return
	}
	if t.Message != "" {
		m.setStatus(statusWarning, t.Message)
	}
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	if m.session.ReadOnly() {
		m.setStatus(statusWarning, MsgReadOnly)
		return m, nil
	}
	if _, isPackage := m.packageKeys[r.Code]; isPackage || r.DataType == model.DataTypeBoolean {
		m.toggle()
		return m, nil
	}
	if !m.editable(r) {
		m.setStatus(statusWarning, MsgNotEditable)
		return m, nil
	}

	m.editing = true
	m.editCode = r.Code
	m.input.SetValue(r.Value.String())
	m.input.Placeholder = r.Name
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) stopEdit() {
	m.editing = false
	m.editCode = ""
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) toggle() {
	r, ok := m.selected()
	if !ok {
		return
	}
	if m.session.ReadOnly() {
		m.setStatus(statusWarning, MsgReadOnly)
		return
	}
	if pkgKey, ok := m.packageKeys[r.Code]; ok {
		m.apply(m.session.SelectPackage(pkgKey, !r.Value.Truthy()))
		return
	}
	if r.DataType != model.DataTypeBoolean || !m.editable(r) {
		return
	}
	m.apply(m.session.SetValue(r.Code, model.Bool(!r.Value.Truthy())))
}

// apply reports the outcome of a session edit and refreshes page flags.
func (m *Model) apply(err error) {
	if err != nil {
		m.setStatus(statusError, errorMessage(err))
		return
	}
	m.syncFlags()
	if n := len(m.pageRules()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.setStatus(statusInfo, "")
}

// editable reports whether a rule takes user input. Computed rules other
// than scored strategies and packages are read-only.
func (m Model) editable(r model.Rule) bool {
	if _, ok := m.packageKeys[r.Code]; ok {
		return true
	}
	def, ok := m.catalog.Definition(r.Code)
	if !ok {
		return false
	}
	return def.Formula == nil || def.Formula.Kind == catalog.FormulaPoints
}

func (m *Model) syncFlags() {
	m.controller.SetFlags(m.session.Flags())
}

func (m Model) pageRules() []model.Rule {
	if m.controller.Page() == wizard.PageSummary {
		return nil
	}
	all := m.controller.PageRules(m.session.Repository())
	shown := all[:0]
	for _, r := range all {
		if r.Display {
			shown = append(shown, r)
		}
	}
	return shown
}

func (m Model) selected() (model.Rule, bool) {
	rules := m.pageRules()
	if m.cursor < 0 || m.cursor >= len(rules) {
		return model.Rule{}, false
	}
	return rules[m.cursor], true
}

func (m *Model) setStatus(kind statusKind, message string) {
	m.status = kind
	m.message = message
}

// Page returns the current wizard page.
func (m Model) Page() wizard.Page {
	return m.controller.Page()
}

// Message returns the current status line.
func (m Model) Message() string {
	return m.message
}

// Quitting reports whether the wizard is exiting.
func (m Model) Quitting() bool {
	return m.quitting
}

func errorMessage(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	switch {
	case errors.Is(err, common.ErrReadOnly):
		return MsgReadOnly
	case errors.Is(err, common.ErrNotSignedIn):
		return "Sign in to save projects."
	case errors.Is(err, common.ErrNotFound):
		return "Project not found."
	}
	return fmt.Sprintf("Error: %v", err)
}
