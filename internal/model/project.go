package model

import "time"

// Input is the user-entered part of a rule. It is all that is persisted
// for a project; everything else is rebuilt from the catalog.
type Input struct {
	Value   Value  `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// Project is a saved calculation.
type Project struct {
	DateCreated  time.Time
	DateModified time.Time
	Inputs       map[RuleCode]Input
	Name         string
	Address      string
	Revision     string
	ID           int
	LoginID      int
}

// Account is the signed-in user.
type Account struct {
	ID      int
	IsAdmin bool
}

// SignedIn reports whether the account belongs to a logged-in user.
func (a *Account) SignedIn() bool {
	return a != nil && a.ID != 0
}

// CanEdit reports whether the account may modify a project owned by loginID.
func (a *Account) CanEdit(loginID int) bool {
	if !a.SignedIn() {
		return false
	}
	return a.IsAdmin || a.ID == loginID
}
