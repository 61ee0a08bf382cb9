// Package storage provides the data persistence layer for the TDM calculator.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/tdm-calculator/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidProject  = errors.New("invalid project")
	ErrInvalidCategory = errors.New("invalid faq category")
	ErrInvalidFaq      = errors.New("invalid faq")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateID(id int, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s=%d", ErrInvalidID, paramName, id)
	}
	return nil
}

// validateProject validates a project before it is written.
func validateProject(project *model.Project) error {
	if project == nil {
		return fmt.Errorf("%w: project", ErrNilParameter)
	}
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProject)
	}
	if project.LoginID <= 0 {
		return fmt.Errorf("%w: missing owner", ErrInvalidProject)
	}
	for code := range project.Inputs {
		if code == "" {
			return fmt.Errorf("%w: input with empty code", ErrInvalidProject)
		}
	}
	return nil
}

// validateFaqCategories validates FAQ content before it replaces the
// stored content.
func validateFaqCategories(categories []model.FaqCategory) error {
	if categories == nil {
		return fmt.Errorf("%w: categories", ErrNilParameter)
	}
	for i, c := range categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: category at index %d has no name", ErrInvalidCategory, i)
		}
		for j, f := range c.Faqs {
			if strings.TrimSpace(f.Question) == "" {
				return fmt.Errorf("%w: faq %d in category %q has no question", ErrInvalidFaq, j, c.Name)
			}
		}
	}
	return nil
}
