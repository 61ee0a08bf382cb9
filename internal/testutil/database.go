// Package testutil provides shared fixtures for tests: an in-memory
// database, project builders and FAQ content.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/storage"
)

// Seed is the content written to a test database before it is handed out.
type Seed struct {
	Projects []*model.Project
	Faqs     []model.FaqCategory
}

// NewDatabase returns a migrated in-memory database holding seed. It is
// closed when the test ends.
//
//	store := testutil.NewDatabase(t, testutil.Seed{
//		Projects: []*model.Project{testutil.NewProject(1).WithResidentialUnits(120).Build()},
//		Faqs:     testutil.SampleFaqs(),
//	})
func NewDatabase(t *testing.T, seed Seed) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx), "migrate test database")

	for _, p := range seed.Projects {
		require.NoError(t, store.CreateProject(ctx, p), "seed project %q", p.Name)
	}
	if len(seed.Faqs) > 0 {
		_, err := store.SaveFaqCategories(ctx, seed.Faqs)
		require.NoError(t, err, "seed faqs")
	}
	return store
}
