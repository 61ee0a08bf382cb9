// Package session holds the project being edited: its recomputed rule
// repository, the dirty flag and the link to the stored project.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/tdm-calculator/internal/calc"
	"github.com/Veraticus/tdm-calculator/internal/common"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/rules"
	"github.com/Veraticus/tdm-calculator/internal/service"
	"github.com/Veraticus/tdm-calculator/internal/summary"
	"github.com/Veraticus/tdm-calculator/internal/wizard"
)

// MsgStaleProject is shown when a save loses to a concurrent edit.
const MsgStaleProject = "This project was changed in another session. Reload it before saving."

// Session is the editing state of one project. Every edit recomputes a
// copy of the repository and swaps it in, so readers always see a fully
// derived state.
type Session struct {
	store    service.ProjectStore
	calc     *calc.Calculator
	account  *model.Account
	repo     *rules.Repository
	project  *model.Project
	retry    service.RetryOptions
	gen      common.Generation
	edits    uint64
	saved    uint64
	mu       sync.Mutex
	readOnly bool
}

// New creates a session holding a new, unsaved project.
func New(store service.ProjectStore, calculator *calc.Calculator, account *model.Account, retry service.RetryOptions) *Session {
	s := &Session{
		store:   store,
		calc:    calculator,
		account: account,
		retry:   retry,
	}
	s.repo = s.fresh()
	return s
}

func (s *Session) fresh() *rules.Repository {
	return s.calc.Recompute(s.calc.Catalog().NewRepository())
}

// NewProject discards the current project and starts an unsaved one.
// Pending loads are superseded.
func (s *Session) NewProject() {
	s.gen.Next()
	repo := s.fresh()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = repo
	s.project = nil
	s.readOnly = false
	s.edits, s.saved = 0, 0
}

// Load fetches a project and rebuilds its repository from the catalog and
// the saved inputs. A load that completes after a newer load or reset
// started is discarded with common.ErrSuperseded.
func (s *Session) Load(ctx context.Context, id int) error {
	gen := s.gen.Next()

	var project *model.Project
	err := common.WithRetry(ctx, func() error {
		var getErr error
		project, getErr = s.store.GetProject(ctx, id)
		return getErr
	}, s.retry)
	if err != nil {
		return fmt.Errorf("failed to load project %d: %w", id, err)
	}

	repo := s.calc.Catalog().NewRepository()
	if unknown := repo.ApplyInputs(project.Inputs); len(unknown) > 0 {
		slog.Warn("ignoring saved inputs for unknown rules",
			"project_id", id,
			"codes", unknown)
	}
	repo = s.calc.Recompute(repo)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gen.IsCurrent(gen) {
		slog.Debug("discarding superseded project load", "project_id", id, "generation", gen)
		return common.ErrSuperseded
	}
	s.repo = repo
	s.project = project
	s.readOnly = !s.account.CanEdit(project.LoginID)
	s.edits, s.saved = 0, 0
	return nil
}

// Repository returns a copy of the current recomputed repository.
func (s *Session) Repository() *rules.Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Clone()
}

// Project returns the stored project, or nil while it is unsaved.
func (s *Session) Project() *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return nil
	}
	p := *s.project
	return &p
}

// ProjectID returns the stored project id, or 0 while it is unsaved.
func (s *Session) ProjectID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return 0
	}
	return s.project.ID
}

// ReadOnly reports whether the current account may not modify the project.
func (s *Session) ReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnly
}

// Dirty reports whether there are edits that have not been saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edits != s.saved
}

// Edit parses raw according to the rule's data type and stores it.
func (s *Session) Edit(code model.RuleCode, raw string) error {
	return s.mutate(func(repo *rules.Repository) (*rules.Repository, error) {
		rule, ok := repo.Get(code)
		if !ok {
			return nil, fmt.Errorf("%w: %s", rules.ErrUnknownCode, code)
		}
		next := repo.Clone()
		if err := next.SetValue(code, model.ParseValue(rule.DataType, raw)); err != nil {
			return nil, err
		}
		return s.calc.Recompute(next), nil
	})
}

// SetValue stores a typed value.
func (s *Session) SetValue(code model.RuleCode, v model.Value) error {
	return s.mutate(func(repo *rules.Repository) (*rules.Repository, error) {
		next := repo.Clone()
		if err := next.SetValue(code, v); err != nil {
			return nil, err
		}
		return s.calc.Recompute(next), nil
	})
}

// SetComment stores the free-text comment of a rule.
func (s *Session) SetComment(code model.RuleCode, comment string) error {
	return s.mutate(func(repo *rules.Repository) (*rules.Repository, error) {
		next := repo.Clone()
		if err := next.SetComment(code, comment); err != nil {
			return nil, err
		}
		return next, nil
	})
}

// SelectPackage checks or unchecks every strategy of a package.
func (s *Session) SelectPackage(key string, selected bool) error {
	return s.mutate(func(repo *rules.Repository) (*rules.Repository, error) {
		return s.calc.SelectPackage(repo, key, selected)
	})
}

// UncheckAll clears every strategy selection.
func (s *Session) UncheckAll() error {
	return s.mutate(func(repo *rules.Repository) (*rules.Repository, error) {
		return s.calc.UncheckAll(repo), nil
	})
}

// InitializeStrategies resets strategies to their defaults.
func (s *Session) InitializeStrategies() error {
	return s.mutate(func(repo *rules.Repository) (*rules.Repository, error) {
		return s.calc.InitializeStrategies(repo), nil
	})
}

func (s *Session) mutate(fn func(*rules.Repository) (*rules.Repository, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return common.ErrReadOnly
	}
	next, err := fn(s.repo)
	if err != nil {
		return err
	}
	s.repo = next
	s.edits++
	return nil
}

// Flags derives the wizard page flags from the current repository.
func (s *Session) Flags() wizard.Flags {
	repo := s.Repository()
	eligible := s.calc.PackageEligibility(repo)
	return wizard.Flags{
		IsLevel0:                calc.ProjectLevel(repo) == 0,
		AllowResidentialPackage: eligible.Residential,
		AllowEmploymentPackage:  eligible.Employment,
	}
}

// Summary builds the project summary.
func (s *Session) Summary(resultCodes []model.RuleCode) summary.Summary {
	return summary.Build(s.Repository(), resultCodes)
}

// Save writes a snapshot of the user inputs. An unsaved project is created
// and owned by the session account. Edits made while the save is in flight
// keep the session dirty.
func (s *Session) Save(ctx context.Context) error {
	if !s.account.SignedIn() {
		return common.ErrNotSignedIn
	}

	s.mu.Lock()
	if s.readOnly {
		s.mu.Unlock()
		return common.ErrReadOnly
	}
	snapshot := s.snapshotLocked()
	seq := s.edits
	gen := s.gen.Current()
	s.mu.Unlock()

	var err error
	if snapshot.ID == 0 {
		// A timeout may arrive after the insert committed; only a busy
		// database guarantees nothing was written.
		err = common.WithRetryIf(ctx, func() error {
			return s.store.CreateProject(ctx, snapshot)
		}, s.retry, isBusy)
	} else {
		expected := snapshot.Revision
		err = common.WithRetry(ctx, func() error {
			return s.store.SaveProject(ctx, snapshot, expected)
		}, s.retry)
	}
	if errors.Is(err, common.ErrStaleRevision) {
		return common.NewUserError(MsgStaleProject, err)
	}
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gen.IsCurrent(gen) {
		// A load or reset replaced the project while saving.
		return nil
	}
	s.project = snapshot
	s.saved = seq
	slog.Info("saved project", "project_id", snapshot.ID, "revision", snapshot.Revision)
	return nil
}

func isBusy(err error) bool {
	return errors.Is(err, common.ErrDatabaseBusy)
}

func (s *Session) snapshotLocked() *model.Project {
	p := &model.Project{LoginID: s.account.ID}
	if s.project != nil {
		*p = *s.project
	}
	p.Inputs = s.repo.Inputs()
	p.Name = ruleText(s.repo, model.CodeProjectName)
	p.Address = ruleText(s.repo, model.CodeProjectAddress)
	return p
}

func ruleText(repo *rules.Repository, code model.RuleCode) string {
	r, ok := repo.Get(code)
	if !ok {
		return ""
	}
	return r.Value.String()
}
