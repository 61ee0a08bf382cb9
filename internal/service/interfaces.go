// Package service defines the interfaces of the collaborators the
// calculator core depends on.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/tdm-calculator/internal/model"
)

// ProjectStore persists projects. A project is always loaded and saved as
// a whole; partial updates are not supported.
type ProjectStore interface {
	CreateProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id int) (*model.Project, error)
	ListProjects(ctx context.Context, loginID int) ([]model.Project, error)
	// SaveProject replaces the stored inputs. expectedRevision must match
	// the stored revision; the new revision is written back to project.
	SaveProject(ctx context.Context, project *model.Project, expectedRevision string) error
	DeleteProject(ctx context.Context, id int) error
}

// FaqStore persists FAQ content.
type FaqStore interface {
	GetFaqCategories(ctx context.Context) ([]model.FaqCategory, error)
	GetFaqs(ctx context.Context) ([]model.Faq, error)
	// SaveFaqCategories replaces all FAQ content and returns it with
	// authoritative ids.
	SaveFaqCategories(ctx context.Context, categories []model.FaqCategory) ([]model.FaqCategory, error)
}

// Storage is the full persistence layer.
type Storage interface {
	ProjectStore
	FaqStore
	Migrate(ctx context.Context) error
	Close() error
}

// RouteParams are the path parameters of the current wizard location.
type RouteParams struct {
	Page      int
	ProjectID int
}

// Router exposes the current location and accepts navigation requests.
type Router interface {
	Params() RouteParams
	Push(path string)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
