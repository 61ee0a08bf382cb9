package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Veraticus/tdm-calculator/internal/common"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/service"
)

// ProjectBuilder assembles project fixtures.
type ProjectBuilder struct {
	project model.Project
}

// NewProject starts a project owned by loginID with a name and address.
func NewProject(loginID int) *ProjectBuilder {
	b := &ProjectBuilder{project: model.Project{
		Name:    "Exposition Lofts",
		Address: "1020 W Exposition Blvd",
		LoginID: loginID,
		Inputs:  map[model.RuleCode]model.Input{},
	}}
	b.set(model.CodeProjectName, model.String(b.project.Name))
	b.set(model.CodeProjectAddress, model.String(b.project.Address))
	return b
}

func (b *ProjectBuilder) set(code model.RuleCode, v model.Value) *ProjectBuilder {
	in := b.project.Inputs[code]
	in.Value = v
	b.project.Inputs[code] = in
	return b
}

// WithName sets the project name input.
func (b *ProjectBuilder) WithName(name string) *ProjectBuilder {
	b.project.Name = name
	return b.set(model.CodeProjectName, model.String(name))
}

// WithInput sets any input value.
func (b *ProjectBuilder) WithInput(code model.RuleCode, v model.Value) *ProjectBuilder {
	return b.set(code, v)
}

// WithComment sets the comment of an input.
func (b *ProjectBuilder) WithComment(code model.RuleCode, comment string) *ProjectBuilder {
	in := b.project.Inputs[code]
	in.Comment = comment
	b.project.Inputs[code] = in
	return b
}

// WithResidentialUnits selects the residential land use with the given
// number of habitable units and provides parking.
func (b *ProjectBuilder) WithResidentialUnits(units float64) *ProjectBuilder {
	b.set(model.CodeLandUseResidential, model.Bool(true))
	b.set(model.CodeUnitsHabitable, model.Number(units))
	return b.set(model.CodeParkSpaces, model.Number(units))
}

// Build returns a copy of the project.
func (b *ProjectBuilder) Build() *model.Project {
	p := b.project
	p.Inputs = make(map[model.RuleCode]model.Input, len(b.project.Inputs))
	for k, v := range b.project.Inputs {
		p.Inputs[k] = v
	}
	return &p
}

// SampleFaqs returns two provisional categories with three questions.
func SampleFaqs() []model.FaqCategory {
	return []model.FaqCategory{
		{
			ID: 1, Name: "About the Calculator", DisplayOrder: 10, Provisional: true,
			Faqs: []model.Faq{
				{ID: 1, CategoryID: 1, Question: "What is TDM?", Answer: "Transportation demand management.", DisplayOrder: 10, Provisional: true},
				{ID: 2, CategoryID: 1, Question: "Which projects must comply?", Answer: "Projects at level 1 or above.", DisplayOrder: 20, Provisional: true},
			},
		},
		{
			ID: 2, Name: "Points", DisplayOrder: 20, Provisional: true,
			Faqs: []model.Faq{
				{ID: 3, CategoryID: 2, Question: "How are target points set?", Answer: "From the project level and parking ratio.", DisplayOrder: 10, Provisional: true},
			},
		},
	}
}

var _ service.ProjectStore = (*ProjectStoreStub)(nil)

// ProjectStoreStub is an in-memory ProjectStore. BeforeGet, when set, runs
// before every GetProject and may block or fail it. BeforeCreate fails a
// create before anything is stored; AfterCreate fails it after the project
// was stored.
type ProjectStoreStub struct {
	BeforeGet    func(id int) error
	BeforeCreate func() error
	AfterCreate  func() error
	projects     map[int]model.Project
	nextID       int
	saves        int
	mu           sync.Mutex
}

// NewProjectStoreStub creates an empty stub.
func NewProjectStoreStub() *ProjectStoreStub {
	return &ProjectStoreStub{projects: make(map[int]model.Project)}
}

func (s *ProjectStoreStub) nextRevision() string {
	s.saves++
	return uuid.NewString()
}

// Saves returns the number of revisions written.
func (s *ProjectStoreStub) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// CreateProject stores a copy of project under a new id.
func (s *ProjectStoreStub) CreateProject(_ context.Context, project *model.Project) error {
	if s.BeforeCreate != nil {
		if err := s.BeforeCreate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.nextID++
	project.ID = s.nextID
	project.Revision = s.nextRevision()
	s.projects[project.ID] = copyProject(*project)
	s.mu.Unlock()

	if s.AfterCreate != nil {
		return s.AfterCreate()
	}
	return nil
}

// GetProject returns a copy of a stored project.
func (s *ProjectStoreStub) GetProject(_ context.Context, id int) (*model.Project, error) {
	if s.BeforeGet != nil {
		if err := s.BeforeGet(id); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := copyProject(p)
	return &out, nil
}

// ListProjects returns the projects of loginID, or all of them for 0.
func (s *ProjectStoreStub) ListProjects(_ context.Context, loginID int) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Project
	for id := 1; id <= s.nextID; id++ {
		p, ok := s.projects[id]
		if ok && (loginID == 0 || p.LoginID == loginID) {
			out = append(out, copyProject(p))
		}
	}
	return out, nil
}

// SaveProject replaces a stored project when the revision matches.
func (s *ProjectStoreStub) SaveProject(_ context.Context, project *model.Project, expectedRevision string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.projects[project.ID]
	if !ok {
		return common.ErrNotFound
	}
	if stored.Revision != expectedRevision {
		return common.ErrStaleRevision
	}
	project.Revision = s.nextRevision()
	s.projects[project.ID] = copyProject(*project)
	return nil
}

// DeleteProject removes a stored project.
func (s *ProjectStoreStub) DeleteProject(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return common.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// Touch bumps the stored revision as if another session had saved.
func (s *ProjectStoreStub) Touch(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.projects[id]
	p.Revision = s.nextRevision()
	s.projects[id] = p
}

func copyProject(p model.Project) model.Project {
	inputs := make(map[model.RuleCode]model.Input, len(p.Inputs))
	for k, v := range p.Inputs {
		inputs[k] = v
	}
	p.Inputs = inputs
	return p
}
