package faq

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/tdm-calculator/internal/common"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/service"
)

// Service loads and saves FAQ content through a store.
type Service struct {
	store service.FaqStore
}

// NewService creates a FAQ service.
func NewService(store service.FaqStore) *Service {
	return &Service{store: store}
}

// Load fetches categories and faqs concurrently and joins them into a
// board ordered by display order.
func (s *Service) Load(ctx context.Context) (Board, error) {
	var (
		categories []model.FaqCategory
		faqs       []model.Faq
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.store.GetFaqCategories(gctx)
		if err != nil {
			return fmt.Errorf("failed to load faq categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		faqs, err = s.store.GetFaqs(gctx)
		if err != nil {
			return fmt.Errorf("failed to load faqs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Board{}, err
	}

	return NewBoard(join(categories, faqs)), nil
}

// join places each faq under its category. Faqs whose category is missing
// are dropped.
func join(categories []model.FaqCategory, faqs []model.Faq) []model.FaqCategory {
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].DisplayOrder < categories[j].DisplayOrder
	})
	sort.SliceStable(faqs, func(i, j int) bool {
		return faqs[i].DisplayOrder < faqs[j].DisplayOrder
	})

	byID := make(map[int]int, len(categories))
	for i := range categories {
		categories[i].Faqs = []model.Faq{}
		byID[categories[i].ID] = i
	}
	orphans := 0
	for _, f := range faqs {
		i, ok := byID[f.CategoryID]
		if !ok {
			orphans++
			continue
		}
		categories[i].Faqs = append(categories[i].Faqs, f)
	}
	if orphans > 0 {
		slog.Warn("dropped faqs without a category", "count", orphans)
	}
	return categories
}

// Save renumbers display orders from positions and replaces the stored
// content. The returned board carries authoritative ids.
func (s *Service) Save(ctx context.Context, b Board) (Board, error) {
	saved, err := s.store.SaveFaqCategories(ctx, b.Renumbered())
	if err != nil {
		return b, fmt.Errorf("failed to save faqs: %w", err)
	}
	slog.Info("saved faqs", "categories", len(saved))
	return NewBoard(saved), nil
}

// Editor is the FAQ page state: the board, admin edit mode and the
// expand-all toggle.
type Editor struct {
	service  *Service
	gen      common.Generation
	board    Board
	mu       sync.Mutex
	admin    bool
	expanded bool
}

// NewEditor creates an editor with an empty board.
func NewEditor(svc *Service) *Editor {
	return &Editor{service: svc}
}

// Board returns the current board.
func (e *Editor) Board() Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

// Admin reports whether edit mode is on.
func (e *Editor) Admin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.admin
}

// Apply replaces the board with the result of an edit.
func (e *Editor) Apply(fn func(Board) (Board, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, err := fn(e.board)
	if err != nil {
		return err
	}
	e.board = next
	return nil
}

// Reload fetches the board. A reload that finishes after a newer one
// started is discarded and returns common.ErrSuperseded.
func (e *Editor) Reload(ctx context.Context) error {
	gen := e.gen.Next()
	board, err := e.service.Load(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.gen.IsCurrent(gen) {
		slog.Debug("discarding superseded faq load", "generation", gen)
		return common.ErrSuperseded
	}
	if e.expanded {
		board = board.SetAllExpanded(true)
	}
	e.board = board
	return nil
}

// ToggleAdmin switches edit mode. Leaving edit mode saves the board.
func (e *Editor) ToggleAdmin(ctx context.Context) error {
	e.mu.Lock()
	if !e.admin {
		e.admin = true
		e.mu.Unlock()
		return nil
	}
	board := e.board
	e.mu.Unlock()

	saved, err := e.service.Save(ctx, board)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen.Next()
	e.board = saved
	e.admin = false
	return nil
}

// ToggleExpandAll opens every faq when they were closed and closes them
// otherwise.
func (e *Editor) ToggleExpandAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expanded = !e.expanded
	e.board = e.board.SetAllExpanded(e.expanded)
}
