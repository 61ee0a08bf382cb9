package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tdm-calculator/internal/calc"
	"github.com/Veraticus/tdm-calculator/internal/catalog"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/service"
	"github.com/Veraticus/tdm-calculator/internal/session"
	"github.com/Veraticus/tdm-calculator/internal/testutil"
	"github.com/Veraticus/tdm-calculator/internal/wizard"
)

type harness struct {
	model   Model
	session *session.Session
	router  *wizard.MemoryRouter
	store   *testutil.ProjectStoreStub
}

func newHarness(t *testing.T, path string, account *model.Account, store *testutil.ProjectStoreStub) *harness {
	t.Helper()
	if store == nil {
		store = testutil.NewProjectStoreStub()
	}
	cat := catalog.MustDefault()
	sess := session.New(store, calc.New(cat), account,
		service.RetryOptions{MaxAttempts: 1, InitialDelay: time.Millisecond})
	router := wizard.NewMemoryRouter(path)

	cfg := DefaultConfig()
	cfg.Session = sess
	cfg.Catalog = cat
	cfg.Router = router
	cfg.Account = account
	cfg.ResultCodes = model.DefaultResultCodes()

	return &harness{model: New(cfg), session: sess, router: router, store: store}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys and returns the command of the last one.
func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = h.model.Update(keyMsg(k))
		h.model = next.(Model)
	}
	return cmd
}

func (h *harness) typeText(s string) {
	next, _ := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	h.model = next.(Model)
}

// run executes cmd and feeds its message back into the model.
func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := h.model.Update(cmd())
	h.model = next.(Model)
}

func (h *harness) editSelected(text string) {
	h.press("enter")
	h.typeText(text)
	h.press("enter")
}

func (h *harness) fillDescription() {
	h.editSelected("Exposition Lofts")
	h.press("down")
	h.editSelected("1020 W Exposition Blvd")
}

func ruleValue(t *testing.T, s *session.Session, code model.RuleCode) model.Value {
	t.Helper()
	r, ok := s.Repository().Get(code)
	require.True(t, ok, "rule %s", code)
	return r.Value
}

func TestNew_StartsOnFirstPage(t *testing.T) {
	h := newHarness(t, "/calculation/3", &model.Account{ID: 5}, nil)

	assert.Nil(t, h.model.Init())
	assert.Equal(t, wizard.PageProjectDescription, h.model.Page())
	assert.Equal(t, "/calculation/1", h.router.Path())

	view := h.model.View()
	assert.Contains(t, view, "Project Information")
	assert.Contains(t, view, "Project Name")
	assert.Contains(t, view, "Step 1 of")
}

func TestNextPage_RefusedWithMissingFields(t *testing.T) {
	h := newHarness(t, "/calculation/1", &model.Account{ID: 5}, nil)

	h.press("n")

	assert.Equal(t, wizard.PageProjectDescription, h.model.Page())
	assert.Equal(t, wizard.MsgFillRequired, h.model.Message())
}

func TestEdit_UpdatesSessionAndAdvances(t *testing.T) {
	h := newHarness(t, "/calculation/1", &model.Account{ID: 5}, nil)

	h.fillDescription()

	assert.True(t, h.session.Dirty())
	assert.Equal(t, "Exposition Lofts", ruleValue(t, h.session, model.CodeProjectName).String())
	assert.Equal(t, "1020 W Exposition Blvd", ruleValue(t, h.session, model.CodeProjectAddress).String())

	h.press("n")
	assert.Equal(t, wizard.PageSpecification, h.model.Page())
	assert.Equal(t, "/calculation/2", h.router.Path())
	assert.Empty(t, h.model.Message())

	h.press("p")
	assert.Equal(t, wizard.PageProjectDescription, h.model.Page())
}

func TestEdit_Cancel(t *testing.T) {
	h := newHarness(t, "/calculation/1", &model.Account{ID: 5}, nil)

	h.press("enter")
	h.typeText("Draft")
	h.press("esc")

	assert.True(t, ruleValue(t, h.session, model.CodeProjectName).IsAbsent())
	assert.False(t, h.session.Dirty())
	assert.NotContains(t, h.model.View(), "Draft")
}

func TestToggle_LandUse(t *testing.T) {
	h := newHarness(t, "/calculation/1", &model.Account{ID: 5}, nil)
	h.fillDescription()
	h.press("n")
	require.Equal(t, wizard.PageSpecification, h.model.Page())

	h.press(" ")
	assert.True(t, ruleValue(t, h.session, model.CodeLandUseResidential).Truthy())
	assert.Contains(t, h.model.View(), "[x]")

	h.press("x")
	assert.False(t, ruleValue(t, h.session, model.CodeLandUseResidential).Truthy())
}

func TestQuit_ConfirmsUnsavedChanges(t *testing.T) {
	h := newHarness(t, "/calculation/1", &model.Account{ID: 5}, nil)
	h.editSelected("Exposition Lofts")

	cmd := h.press("q")
	assert.Nil(t, cmd)
	assert.False(t, h.model.Quitting())
	assert.Equal(t, MsgUnsavedChanges, h.model.Message())

	cmd = h.press("q")
	assert.NotNil(t, cmd)
	assert.True(t, h.model.Quitting())
	assert.Empty(t, h.model.View())
}

func TestQuit_Clean(t *testing.T) {
	h := newHarness(t, "/calculation/1", &model.Account{ID: 5}, nil)

	cmd := h.press("q")
	assert.NotNil(t, cmd)
	assert.True(t, h.model.Quitting())
}

func TestSave_BindsNewProject(t *testing.T) {
	h := newHarness(t, "/calculation/1", &model.Account{ID: 5}, nil)
	h.fillDescription()

	h.run(t, h.press("w"))

	assert.Equal(t, MsgSaved, h.model.Message())
	assert.Equal(t, 1, h.store.Saves())
	assert.False(t, h.session.Dirty())

	h.press("n")
	assert.Equal(t, "/calculation/2/1", h.router.Path())
}

func TestSave_RequiresSignIn(t *testing.T) {
	h := newHarness(t, "/calculation/1", &model.Account{}, nil)
	h.editSelected("Exposition Lofts")

	h.run(t, h.press("w"))

	assert.Equal(t, "Sign in to save projects.", h.model.Message())
	assert.Equal(t, 0, h.store.Saves())
}

func TestLoad_OtherOwnerOpensReadOnlySummary(t *testing.T) {
	store := testutil.NewProjectStoreStub()
	project := testutil.NewProject(9).WithResidentialUnits(30).Build()
	require.NoError(t, store.CreateProject(context.Background(), project))

	h := newHarness(t, fmt.Sprintf("/calculation/2/%d", project.ID), &model.Account{ID: 5}, store)
	assert.Equal(t, MsgLoading, h.model.Message())
	h.run(t, h.model.Init())

	assert.Equal(t, wizard.PageSummary, h.model.Page())
	assert.Equal(t, fmt.Sprintf("/calculation/6/%d", project.ID), h.router.Path())
	assert.True(t, h.session.ReadOnly())

	view := h.model.View()
	assert.Contains(t, view, MsgReadOnly)
	assert.Contains(t, view, "Exposition Lofts")

	h.press("w")
	assert.Equal(t, MsgReadOnly, h.model.Message())
}

func TestLoad_OwnerSelectsPackage(t *testing.T) {
	store := testutil.NewProjectStoreStub()
	project := testutil.NewProject(5).WithResidentialUnits(30).Build()
	require.NoError(t, store.CreateProject(context.Background(), project))

	h := newHarness(t, fmt.Sprintf("/calculation/4/%d", project.ID), &model.Account{ID: 5}, store)
	h.run(t, h.model.Init())

	require.Equal(t, wizard.PagePackages, h.model.Page())
	assert.Contains(t, h.model.View(), "Residential Package")

	h.press(" ")
	for _, code := range []model.RuleCode{
		model.CodePackageResidential,
		model.CodeStrategyBikeParking,
		model.CodeStrategyUnbundle,
		model.CodeStrategyInfo,
	} {
		assert.True(t, ruleValue(t, h.session, code).Truthy(), "rule %s", code)
	}

	h.press("U")
	assert.False(t, ruleValue(t, h.session, model.CodePackageResidential).Truthy())
}

func TestLoad_SignedOutRedirectsToLogin(t *testing.T) {
	h := newHarness(t, "/calculation/1/7", &model.Account{}, nil)

	assert.Nil(t, h.model.Init())
	assert.Equal(t, wizard.LoginPath, h.router.Path())
	assert.Equal(t, MsgSignIn, h.model.Message())

	h.press("n")
	assert.Equal(t, wizard.LoginPath, h.router.Path())
}

func TestLoad_NotFound(t *testing.T) {
	h := newHarness(t, "/calculation/1/42", &model.Account{ID: 5}, nil)

	h.run(t, h.model.Init())

	assert.Equal(t, "Project not found.", h.model.Message())
}
