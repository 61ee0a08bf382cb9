package faq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tdm-calculator/internal/common"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/testutil"
)

func TestService_LoadJoinsByDisplayOrder(t *testing.T) {
	store := testutil.NewDatabase(t, testutil.Seed{Faqs: testutil.SampleFaqs()})
	svc := NewService(store)

	board, err := svc.Load(context.Background())
	require.NoError(t, err)

	categories := board.Categories()
	require.Len(t, categories, 2)
	assert.Equal(t, "About the Calculator", categories[0].Name)
	assert.Equal(t, "Points", categories[1].Name)
	require.Len(t, categories[0].Faqs, 2)
	assert.Equal(t, "What is TDM?", categories[0].Faqs[0].Question)
	assert.Equal(t, "Which projects must comply?", categories[0].Faqs[1].Question)
	for _, c := range categories {
		assert.False(t, c.Provisional)
		for _, f := range c.Faqs {
			assert.Equal(t, c.ID, f.CategoryID)
		}
	}
}

func TestService_SaveRenumbersAndAssignsIDs(t *testing.T) {
	store := testutil.NewDatabase(t, testutil.Seed{Faqs: testutil.SampleFaqs()})
	svc := NewService(store)
	ctx := context.Background()

	board, err := svc.Load(ctx)
	require.NoError(t, err)
	first := board.Categories()[0]

	board, err = board.Move(KindCategory, Location{Index: 0}, &Location{Index: 1})
	require.NoError(t, err)
	board, added := board.AddCategory("Parking")
	board, _, err = board.AddFaq(added.ID, "Does parking affect targets?", "Yes.")
	require.NoError(t, err)

	saved, err := svc.Save(ctx, board)
	require.NoError(t, err)

	reloaded, err := svc.Load(ctx)
	require.NoError(t, err)

	names := func(b Board) []string {
		var out []string
		for _, c := range b.Categories() {
			out = append(out, c.Name)
		}
		return out
	}
	assert.Equal(t, []string{"Points", "About the Calculator", "Parking"}, names(saved))
	assert.Equal(t, names(saved), names(reloaded))

	categories := reloaded.Categories()
	for i, c := range categories {
		assert.Equal(t, (i+1)*DisplayOrderStep, c.DisplayOrder)
		assert.False(t, c.Provisional)
	}
	assert.Equal(t, first.ID, categories[1].ID)
	require.Len(t, categories[2].Faqs, 1)
	assert.Equal(t, "Does parking affect targets?", categories[2].Faqs[0].Question)
}

func TestJoin_DropsOrphans(t *testing.T) {
	out := join(
		[]model.FaqCategory{{ID: 2, DisplayOrder: 20}, {ID: 1, DisplayOrder: 10}},
		[]model.Faq{
			{ID: 1, CategoryID: 1, DisplayOrder: 20},
			{ID: 2, CategoryID: 1, DisplayOrder: 10},
			{ID: 3, CategoryID: 7, DisplayOrder: 10},
		},
	)

	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, []int{2, 1}, faqIDs(out[0]))
	assert.Empty(t, out[1].Faqs)
	assert.NotNil(t, out[1].Faqs)
}

// blockingStore serves FAQ content, holding the first category fetch until
// release is closed.
type blockingStore struct {
	entered chan struct{}
	release chan struct{}
	fail    error
	mu      sync.Mutex
	calls   int
}

func newBlockingStore() *blockingStore {
	return &blockingStore{entered: make(chan struct{}), release: make(chan struct{})}
}

func (s *blockingStore) GetFaqCategories(ctx context.Context) ([]model.FaqCategory, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()

	if call == 1 {
		close(s.entered)
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []model.FaqCategory{{ID: 1, Name: fmt.Sprintf("load %d", call), DisplayOrder: 10}}, nil
}

func (s *blockingStore) GetFaqs(context.Context) ([]model.Faq, error) {
	return []model.Faq{{ID: 1, CategoryID: 1, Question: "What is TDM?", DisplayOrder: 10}}, nil
}

func (s *blockingStore) SaveFaqCategories(_ context.Context, categories []model.FaqCategory) ([]model.FaqCategory, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	out := make([]model.FaqCategory, len(categories))
	for i, c := range categories {
		out[i] = c.Clone()
		out[i].Provisional = false
	}
	return out, nil
}

func TestEditor_SupersededReloadIsDiscarded(t *testing.T) {
	store := newBlockingStore()
	editor := NewEditor(NewService(store))
	ctx := context.Background()

	firstErr := make(chan error, 1)
	go func() {
		firstErr <- editor.Reload(ctx)
	}()
	<-store.entered

	require.NoError(t, editor.Reload(ctx))
	close(store.release)

	assert.ErrorIs(t, <-firstErr, common.ErrSuperseded)
	cat, ok := editor.Board().Category(1)
	require.True(t, ok)
	assert.Equal(t, "load 2", cat.Name)
}

func TestEditor_AdminModeSavesOnExit(t *testing.T) {
	store := newBlockingStore()
	close(store.release)
	editor := NewEditor(NewService(store))
	ctx := context.Background()

	require.NoError(t, editor.Reload(ctx))
	require.NoError(t, editor.ToggleAdmin(ctx))
	assert.True(t, editor.Admin())

	require.NoError(t, editor.Apply(func(b Board) (Board, error) {
		return b.RenameCategory(1, "General")
	}))
	err := editor.Apply(func(b Board) (Board, error) {
		return b.RenameCategory(9, "Missing")
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	require.NoError(t, editor.ToggleAdmin(ctx))
	assert.False(t, editor.Admin())
	cat, _ := editor.Board().Category(1)
	assert.Equal(t, "General", cat.Name)
	assert.Equal(t, DisplayOrderStep, cat.DisplayOrder)
}

func TestEditor_SaveFailureKeepsAdminMode(t *testing.T) {
	store := newBlockingStore()
	close(store.release)
	store.fail = errors.New("disk full")
	editor := NewEditor(NewService(store))
	ctx := context.Background()

	require.NoError(t, editor.Reload(ctx))
	require.NoError(t, editor.ToggleAdmin(ctx))

	err := editor.ToggleAdmin(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, editor.Admin())
}

func TestEditor_ExpandAllSurvivesReload(t *testing.T) {
	store := newBlockingStore()
	close(store.release)
	editor := NewEditor(NewService(store))
	ctx := context.Background()

	require.NoError(t, editor.Reload(ctx))
	editor.ToggleExpandAll()
	require.NoError(t, editor.Reload(ctx))

	cat, _ := editor.Board().Category(1)
	assert.True(t, cat.Faqs[0].Expanded)

	editor.ToggleExpandAll()
	cat, _ = editor.Board().Category(1)
	assert.False(t, cat.Faqs[0].Expanded)
}
