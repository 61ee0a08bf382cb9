package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/tdm-calculator/internal/model"
)

// GetFaqCategories returns every category ordered by display order. The
// Faqs of each category are left empty.
func (s *SQLiteStorage) GetFaqCategories(ctx context.Context) ([]model.FaqCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, display_order
		FROM faq_categories
		ORDER BY display_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query faq categories: %w", classify(err))
	}
	defer func() { _ = rows.Close() }()

	var categories []model.FaqCategory
	for rows.Next() {
		var c model.FaqCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan faq category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating faq categories: %w", err)
	}
	return categories, nil
}

// GetFaqs returns every faq ordered by display order.
func (s *SQLiteStorage) GetFaqs(ctx context.Context) ([]model.Faq, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, question, answer, display_order
		FROM faqs
		ORDER BY display_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", classify(err))
	}
	defer func() { _ = rows.Close() }()

	var faqs []model.Faq
	for rows.Next() {
		var f model.Faq
		if err := rows.Scan(&f.ID, &f.CategoryID, &f.Question, &f.Answer, &f.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating faqs: %w", err)
	}
	return faqs, nil
}

// SaveFaqCategories replaces all FAQ content in one transaction. Rows
// absent from categories are deleted. Provisional categories and faqs are
// inserted under ids chosen by the database, and the returned content
// carries those ids.
func (s *SQLiteStorage) SaveFaqCategories(ctx context.Context, categories []model.FaqCategory) ([]model.FaqCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFaqCategories(categories); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer func() { _ = tx.Rollback() }()

	existingCategories, err := existingIDs(ctx, tx, `SELECT id FROM faq_categories`)
	if err != nil {
		return nil, err
	}
	existingFaqs, err := existingIDs(ctx, tx, `SELECT id FROM faqs`)
	if err != nil {
		return nil, err
	}

	saved := make([]model.FaqCategory, len(categories))
	keptCategories := make(map[int]bool, len(categories))
	keptFaqs := make(map[int]bool)

	for i, c := range categories {
		c = c.Clone()
		c.ID, err = upsertRow(ctx, tx, existingCategories, c.ID, c.Provisional,
			`UPDATE faq_categories SET name = ?, display_order = ? WHERE id = ?`,
			`INSERT INTO faq_categories (id, name, display_order) VALUES (?, ?, ?)`,
			`INSERT INTO faq_categories (name, display_order) VALUES (?, ?)`,
			c.Name, c.DisplayOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to save faq category %q: %w", c.Name, err)
		}
		c.Provisional = false
		keptCategories[c.ID] = true

		for j := range c.Faqs {
			f := &c.Faqs[j]
			f.CategoryID = c.ID
			f.ID, err = upsertRow(ctx, tx, existingFaqs, f.ID, f.Provisional,
				`UPDATE faqs SET category_id = ?, question = ?, answer = ?, display_order = ? WHERE id = ?`,
				`INSERT INTO faqs (id, category_id, question, answer, display_order) VALUES (?, ?, ?, ?, ?)`,
				`INSERT INTO faqs (category_id, question, answer, display_order) VALUES (?, ?, ?, ?)`,
				f.CategoryID, f.Question, f.Answer, f.DisplayOrder)
			if err != nil {
				return nil, fmt.Errorf("failed to save faq %q: %w", f.Question, err)
			}
			f.Provisional = false
			keptFaqs[f.ID] = true
		}
		saved[i] = c
	}

	deletedFaqs, err := deleteMissing(ctx, tx, `DELETE FROM faqs WHERE id = ?`, existingFaqs, keptFaqs)
	if err != nil {
		return nil, err
	}
	deletedCategories, err := deleteMissing(ctx, tx, `DELETE FROM faq_categories WHERE id = ?`, existingCategories, keptCategories)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit faqs: %w", classify(err))
	}

	slog.Debug("saved faq content",
		"categories", len(saved),
		"faqs", len(keptFaqs),
		"deleted_categories", deletedCategories,
		"deleted_faqs", deletedFaqs)
	return saved, nil
}

func existingIDs(ctx context.Context, q queryable, query string) (map[int]bool, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", classify(err))
	}
	defer func() { _ = rows.Close() }()

	ids := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// upsertRow updates the row with id when it exists and is not
// provisional. Otherwise it inserts, letting the database choose the id
// for provisional rows. args are the column values without the id.
func upsertRow(ctx context.Context, q queryable, existing map[int]bool, id int, provisional bool,
	update, insertWithID, insertNew string, args ...any,
) (int, error) {
	switch {
	case !provisional && existing[id]:
		if _, err := q.ExecContext(ctx, update, append(args, id)...); err != nil {
			return 0, classify(err)
		}
		return id, nil

	case !provisional && id > 0:
		if _, err := q.ExecContext(ctx, insertWithID, append([]any{id}, args...)...); err != nil {
			return 0, classify(err)
		}
		return id, nil
	}

	result, err := q.ExecContext(ctx, insertNew, args...)
	if err != nil {
		return 0, classify(err)
	}
	newID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(newID), nil
}

func deleteMissing(ctx context.Context, q queryable, query string, existing, kept map[int]bool) (int, error) {
	deleted := 0
	for id := range existing {
		if kept[id] {
			continue
		}
		if _, err := q.ExecContext(ctx, query, id); err != nil {
			return deleted, fmt.Errorf("failed to delete row %d: %w", id, classify(err))
		}
		deleted++
	}
	return deleted, nil
}
