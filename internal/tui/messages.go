package tui

import "github.com/Veraticus/tdm-calculator/internal/model"

// projectLoadedMsg reports the end of a project load.
type projectLoadedMsg struct {
	err     error
	project *model.Project
}

// projectSavedMsg reports the end of a save.
type projectSavedMsg struct {
	err error
	id  int
}
