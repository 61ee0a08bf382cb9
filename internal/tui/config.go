package tui

import (
	"github.com/Veraticus/tdm-calculator/internal/catalog"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/service"
	"github.com/Veraticus/tdm-calculator/internal/session"
	"github.com/Veraticus/tdm-calculator/internal/tui/themes"
)

// Config holds the collaborators of the wizard.
type Config struct {
	Session     *session.Session
	Catalog     *catalog.Catalog
	Router      service.Router
	Account     *model.Account
	ResultCodes []model.RuleCode
	Theme       themes.Theme
	Width       int
	Height      int
}

// DefaultConfig returns a configuration with the default theme and size.
func DefaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  100,
		Height: 40,
	}
}
