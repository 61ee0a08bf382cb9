// Package wizard implements page navigation for the calculation wizard.
package wizard

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/rules"
	"github.com/Veraticus/tdm-calculator/internal/service"
)

// Page is a wizard page number.
type Page int

// Wizard pages.
const (
	PageProjectDescription Page = iota + 1
	PageSpecification
	PageTargetPoints
	PagePackages
	PageStrategies
	PageSummary
)

// FirstPage and LastPage bound the wizard.
const (
	FirstPage = PageProjectDescription
	LastPage  = PageSummary
)

// LoginPath is where signed-out users are sent for existing projects.
const LoginPath = "/login"

// MsgFillRequired is shown when forward navigation is refused.
const MsgFillRequired = "Please fill out all required fields"

var pageTitles = map[Page]string{
	PageProjectDescription: "Project Information",
	PageSpecification:      "Project Specifications",
	PageTargetPoints:       "Target Points",
	PagePackages:           "TDM Packages",
	PageStrategies:         "TDM Strategies",
	PageSummary:            "TDM Calculation Summary",
}

// Title returns the heading of the page.
func (p Page) Title() string {
	if t, ok := pageTitles[p]; ok {
		return t
	}
	return fmt.Sprintf("Page %d", int(p))
}

// Valid reports whether p is inside the wizard.
func (p Page) Valid() bool {
	return p >= FirstPage && p <= LastPage
}

// Flags are the project facts that change which pages apply.
type Flags struct {
	IsLevel0                bool
	AllowResidentialPackage bool
	AllowEmploymentPackage  bool
}

func (f Flags) skipPackages() bool {
	return !f.AllowResidentialPackage && !f.AllowEmploymentPackage
}

// Transition is the outcome of a navigation request.
type Transition struct {
	Message string
	From    Page
	To      Page
	Moved   bool
}

// Controller tracks the current page and decides transitions. The router
// and account are supplied by the caller; the controller reads no globals.
type Controller struct {
	router      service.Router
	account     *model.Account
	resultCodes []model.RuleCode
	flags       Flags
	page        Page
	projectID   int
	readOnly    bool
}

// NewController binds a controller to the router's current location.
func NewController(router service.Router, account *model.Account, resultCodes []model.RuleCode) *Controller {
	params := router.Params()
	page := Page(params.Page)
	if !page.Valid() {
		page = FirstPage
	}
	return &Controller{
		router:      router,
		account:     account,
		resultCodes: resultCodes,
		page:        page,
		projectID:   params.ProjectID,
	}
}

// Page returns the current page.
func (c *Controller) Page() Page { return c.page }

// ProjectID returns the bound project, or 0 for a new project.
func (c *Controller) ProjectID() int { return c.projectID }

// ReadOnly reports whether the project may only be viewed.
func (c *Controller) ReadOnly() bool { return c.readOnly }

// Flags returns the current page applicability flags.
func (c *Controller) Flags() Flags { return c.flags }

// SetFlags updates the page applicability flags after a recompute.
func (c *Controller) SetFlags(f Flags) { c.flags = f }

// BindProject attaches a newly created project id to the wizard.
func (c *Controller) BindProject(id int) {
	c.projectID = id
}

// Open applies the entry guard. ownerLoginID is the owner of the bound
// project, or 0 while it is not yet known. It returns the path pushed, or
// "" when the requested location stands.
func (c *Controller) Open(ownerLoginID int) string {
	switch {
	case c.projectID == 0:
		c.page = FirstPage
		return c.push(c.Path(FirstPage))

	case !c.account.SignedIn():
		c.router.Push(LoginPath)
		return LoginPath

	case ownerLoginID != 0 && !c.account.CanEdit(ownerLoginID):
		slog.Debug("project opened read-only",
			"project_id", c.projectID,
			"owner", ownerLoginID,
			"account", c.account.ID)
		c.readOnly = true
		c.page = PageSummary
		return c.push(c.Path(PageSummary))
	}
	return ""
}

// ContentPage returns the page whose content is shown. Level 0 projects
// have no target points step; page 3 shows the strategies instead.
func (c *Controller) ContentPage() Page {
	if c.flags.IsLevel0 && c.page == PageTargetPoints {
		return PageStrategies
	}
	return c.page
}

// PageRules returns the rules shown on the current content page.
func (c *Controller) PageRules(repo *rules.Repository) []model.Rule {
	return repo.Filter(c.pagePredicate(c.ContentPage()))
}

func (c *Controller) pagePredicate(p Page) rules.Predicate {
	switch p {
	case PageProjectDescription:
		return rules.ProjectDescription
	case PageSpecification:
		return rules.Or(rules.LandUse, rules.Specification)
	case PageTargetPoints:
		return rules.TargetPoint
	case PagePackages:
		return rules.Package
	case PageStrategies:
		return rules.Strategy
	default:
		return rules.Result(c.resultCodes)
	}
}

// CanAdvance reports whether forward navigation is currently allowed.
func (c *Controller) CanAdvance(repo *rules.Repository) bool {
	if c.page >= LastPage {
		return false
	}
	return !repo.Any(rules.And(c.pagePredicate(c.ContentPage()), rules.Invalid))
}

// Next moves forward one page, skipping the packages page when no package
// applies. It refuses while the current page has validation errors.
func (c *Controller) Next(repo *rules.Repository) Transition {
	t := Transition{From: c.page, To: c.page}
	if c.page >= LastPage {
		return t
	}
	if !c.CanAdvance(repo) {
		t.Message = MsgFillRequired
		return t
	}

	next := c.page + 1
	if c.page == PageTargetPoints && c.flags.skipPackages() {
		next = PageStrategies
	}
	return c.moveTo(next, t)
}

// Previous moves back one page, skipping the packages page when no
// package applies.
func (c *Controller) Previous() Transition {
	t := Transition{From: c.page, To: c.page}
	if c.page <= FirstPage {
		return t
	}

	prev := c.page - 1
	if c.page == PageStrategies && c.flags.skipPackages() {
		prev = PageTargetPoints
	}
	return c.moveTo(prev, t)
}

func (c *Controller) moveTo(p Page, t Transition) Transition {
	c.page = p
	c.push(c.Path(p))
	t.To = p
	t.Moved = true
	return t
}

func (c *Controller) push(path string) string {
	c.router.Push(path)
	return path
}

// Path returns the route of page p for the bound project.
func (c *Controller) Path(p Page) string {
	if c.projectID != 0 {
		return fmt.Sprintf("/calculation/%d/%d", p, c.projectID)
	}
	return fmt.Sprintf("/calculation/%d", p)
}

// VisiblePages lists the pages the user steps through.
func (c *Controller) VisiblePages() []Page {
	pages := make([]Page, 0, int(LastPage))
	for p := FirstPage; p <= LastPage; p++ {
		if p == PagePackages && c.flags.skipPackages() {
			continue
		}
		pages = append(pages, p)
	}
	return pages
}

// ProgressStep returns the 1-based position of the current content page
// among the visible pages. A level 0 project on the target points page is
// counted at the strategies position, since that is what it shows.
func (c *Controller) ProgressStep() int {
	current := c.ContentPage()
	step := 0
	for _, p := range c.VisiblePages() {
		if p > current {
			break
		}
		step++
	}
	return step
}

// TotalSteps returns the number of visible pages.
func (c *Controller) TotalSteps() int {
	return len(c.VisiblePages())
}
