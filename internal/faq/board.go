// Package faq edits the two-level FAQ list: ordered categories that each
// hold ordered questions.
package faq

import (
	"errors"
	"fmt"

	"github.com/Veraticus/tdm-calculator/internal/model"
)

// Board errors.
var (
	ErrCategoryNotFound = errors.New("faq category not found")
	ErrFaqNotFound      = errors.New("faq not found")
	ErrIndexOutOfRange  = errors.New("index out of range")
)

// DisplayOrderStep is the gap between consecutive display orders.
const DisplayOrderStep = 10

// Kind is what a drag gesture moves.
type Kind int

const (
	// KindFaq moves one question.
	KindFaq Kind = iota
	// KindCategory moves a whole category.
	KindCategory
)

// Location is a position in the board. CategoryID is ignored when moving
// categories.
type Location struct {
	CategoryID int
	Index      int
}

// Board is an editable snapshot of FAQ content. Operations return a new
// Board and leave the receiver untouched.
type Board struct {
	categories []model.FaqCategory
}

// NewBoard copies categories into a board.
func NewBoard(categories []model.FaqCategory) Board {
	return Board{categories: cloneAll(categories)}
}

// Categories returns a copy of the categories in order.
func (b Board) Categories() []model.FaqCategory {
	return cloneAll(b.categories)
}

// Len returns the number of categories.
func (b Board) Len() int { return len(b.categories) }

// Category returns the category with the given id.
func (b Board) Category(id int) (model.FaqCategory, bool) {
	i := b.indexOf(id)
	if i < 0 {
		return model.FaqCategory{}, false
	}
	return b.categories[i].Clone(), true
}

func (b Board) indexOf(categoryID int) int {
	for i := range b.categories {
		if b.categories[i].ID == categoryID {
			return i
		}
	}
	return -1
}

// Move applies a drag gesture. A nil destination, or one equal to the
// source, leaves the board unchanged. Ids never change.
func (b Board) Move(kind Kind, source Location, dest *Location) (Board, error) {
	if dest == nil {
		return b, nil
	}
	if kind == KindCategory {
		if source.Index == dest.Index {
			return b, nil
		}
		return b.moveCategory(source.Index, dest.Index)
	}
	if source.CategoryID == dest.CategoryID && source.Index == dest.Index {
		return b, nil
	}
	return b.moveFaq(source, *dest)
}

func (b Board) moveCategory(from, to int) (Board, error) {
	if from < 0 || from >= len(b.categories) || to < 0 || to >= len(b.categories) {
		return b, fmt.Errorf("%w: move category %d to %d of %d", ErrIndexOutOfRange, from, to, len(b.categories))
	}
	out := cloneAll(b.categories)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = insertAt(out, to, moved)
	return Board{categories: out}, nil
}

func (b Board) moveFaq(source, dest Location) (Board, error) {
	si := b.indexOf(source.CategoryID)
	if si < 0 {
		return b, fmt.Errorf("%w: %d", ErrCategoryNotFound, source.CategoryID)
	}
	di := b.indexOf(dest.CategoryID)
	if di < 0 {
		return b, fmt.Errorf("%w: %d", ErrCategoryNotFound, dest.CategoryID)
	}
	if source.Index < 0 || source.Index >= len(b.categories[si].Faqs) {
		return b, fmt.Errorf("%w: faq %d of %d", ErrIndexOutOfRange, source.Index, len(b.categories[si].Faqs))
	}

	out := cloneAll(b.categories)
	faqs := out[si].Faqs
	moved := faqs[source.Index]
	out[si].Faqs = append(faqs[:source.Index:source.Index], faqs[source.Index+1:]...)

	target := out[di].Faqs
	if dest.Index < 0 || dest.Index > len(target) {
		return b, fmt.Errorf("%w: destination %d of %d", ErrIndexOutOfRange, dest.Index, len(target))
	}
	if si != di {
		moved.CategoryID = out[di].ID
	}
	out[di].Faqs = insertAt(target, dest.Index, moved)
	return Board{categories: out}, nil
}

func insertAt[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

// AddCategory appends an empty category. Its id is provisional: one more
// than the highest id on the board, until the store assigns the real one.
func (b Board) AddCategory(name string) (Board, model.FaqCategory) {
	highest, lastOrder := 0, 0
	for _, c := range b.categories {
		highest = max(highest, c.ID)
	}
	if n := len(b.categories); n > 0 {
		lastOrder = b.categories[n-1].DisplayOrder
	}

	cat := model.FaqCategory{
		ID:           highest + 1,
		Name:         name,
		DisplayOrder: lastOrder + DisplayOrderStep,
		Faqs:         []model.Faq{},
		Provisional:  true,
	}
	out := cloneAll(b.categories)
	out = append(out, cat)
	return Board{categories: out}, cat.Clone()
}

// AddFaq appends a question to a category with a provisional id one more
// than the highest faq id on the board.
func (b Board) AddFaq(categoryID int, question, answer string) (Board, model.Faq, error) {
	ci := b.indexOf(categoryID)
	if ci < 0 {
		return b, model.Faq{}, fmt.Errorf("%w: %d", ErrCategoryNotFound, categoryID)
	}

	highest := 0
	for _, c := range b.categories {
		for _, f := range c.Faqs {
			highest = max(highest, f.ID)
		}
	}
	lastOrder := 0
	if faqs := b.categories[ci].Faqs; len(faqs) > 0 {
		lastOrder = faqs[len(faqs)-1].DisplayOrder
	}

	f := model.Faq{
		ID:           highest + 1,
		CategoryID:   categoryID,
		Question:     question,
		Answer:       answer,
		DisplayOrder: lastOrder + DisplayOrderStep,
		Provisional:  true,
	}
	out := cloneAll(b.categories)
	out[ci].Faqs = append(out[ci].Faqs, f)
	return Board{categories: out}, f, nil
}

// RenameCategory changes a category name.
func (b Board) RenameCategory(categoryID int, name string) (Board, error) {
	ci := b.indexOf(categoryID)
	if ci < 0 {
		return b, fmt.Errorf("%w: %d", ErrCategoryNotFound, categoryID)
	}
	out := cloneAll(b.categories)
	out[ci].Name = name
	return Board{categories: out}, nil
}

// EditFaq replaces the question and answer of a faq.
func (b Board) EditFaq(categoryID, faqID int, question, answer string) (Board, error) {
	return b.updateFaq(categoryID, faqID, func(f *model.Faq) {
		f.Question = question
		f.Answer = answer
	})
}

// DeleteFaq removes a faq from its category.
func (b Board) DeleteFaq(categoryID, faqID int) (Board, error) {
	ci := b.indexOf(categoryID)
	if ci < 0 {
		return b, fmt.Errorf("%w: %d", ErrCategoryNotFound, categoryID)
	}
	out := cloneAll(b.categories)
	kept := out[ci].Faqs[:0]
	found := false
	for _, f := range out[ci].Faqs {
		if f.ID == faqID {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		return b, fmt.Errorf("%w: %d", ErrFaqNotFound, faqID)
	}
	out[ci].Faqs = kept
	return Board{categories: out}, nil
}

// DeleteCategory removes a category and its faqs.
func (b Board) DeleteCategory(categoryID int) (Board, error) {
	ci := b.indexOf(categoryID)
	if ci < 0 {
		return b, fmt.Errorf("%w: %d", ErrCategoryNotFound, categoryID)
	}
	out := cloneAll(b.categories)
	out = append(out[:ci], out[ci+1:]...)
	return Board{categories: out}, nil
}

// Expand opens one faq.
func (b Board) Expand(faqID int) Board {
	return b.setExpanded(func(f model.Faq) bool { return f.ID == faqID }, true)
}

// Collapse closes one faq.
func (b Board) Collapse(faqID int) Board {
	return b.setExpanded(func(f model.Faq) bool { return f.ID == faqID }, false)
}

// SetAllExpanded opens or closes every faq.
func (b Board) SetAllExpanded(expanded bool) Board {
	return b.setExpanded(func(model.Faq) bool { return true }, expanded)
}

func (b Board) setExpanded(match func(model.Faq) bool, expanded bool) Board {
	out := cloneAll(b.categories)
	for ci := range out {
		for fi := range out[ci].Faqs {
			if match(out[ci].Faqs[fi]) {
				out[ci].Faqs[fi].Expanded = expanded
			}
		}
	}
	return Board{categories: out}
}

func (b Board) updateFaq(categoryID, faqID int, fn func(*model.Faq)) (Board, error) {
	ci := b.indexOf(categoryID)
	if ci < 0 {
		return b, fmt.Errorf("%w: %d", ErrCategoryNotFound, categoryID)
	}
	out := cloneAll(b.categories)
	for fi := range out[ci].Faqs {
		if out[ci].Faqs[fi].ID == faqID {
			fn(&out[ci].Faqs[fi])
			return Board{categories: out}, nil
		}
	}
	return b, fmt.Errorf("%w: %d", ErrFaqNotFound, faqID)
}

// Renumbered returns the categories with display orders rewritten from
// their current positions. It is applied when saving, never while
// dragging.
func (b Board) Renumbered() []model.FaqCategory {
	out := cloneAll(b.categories)
	for ci := range out {
		out[ci].DisplayOrder = (ci + 1) * DisplayOrderStep
		for fi := range out[ci].Faqs {
			out[ci].Faqs[fi].DisplayOrder = (fi + 1) * DisplayOrderStep
			out[ci].Faqs[fi].CategoryID = out[ci].ID
		}
	}
	return out
}

func cloneAll(categories []model.FaqCategory) []model.FaqCategory {
	out := make([]model.FaqCategory, len(categories))
	for i, c := range categories {
		out[i] = c.Clone()
	}
	return out
}
