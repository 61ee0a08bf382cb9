package wizard

import (
	"strconv"
	"strings"

	"github.com/Veraticus/tdm-calculator/internal/service"
)

// MemoryRouter is a Router that keeps its location in memory. It backs the
// terminal wizard and tests.
type MemoryRouter struct {
	path    string
	history []string
	params  service.RouteParams
}

// NewMemoryRouter starts a router at path.
func NewMemoryRouter(path string) *MemoryRouter {
	r := &MemoryRouter{}
	r.set(path)
	return r
}

// Params returns the parameters of the current path.
func (r *MemoryRouter) Params() service.RouteParams {
	return r.params
}

// Push moves to path.
func (r *MemoryRouter) Push(path string) {
	r.history = append(r.history, path)
	r.set(path)
}

// Path returns the current path.
func (r *MemoryRouter) Path() string {
	return r.path
}

// History returns every pushed path in order.
func (r *MemoryRouter) History() []string {
	return append([]string(nil), r.history...)
}

func (r *MemoryRouter) set(path string) {
	r.path = path
	r.params = ParsePath(path)
}

// ParsePath extracts the page and project id from a /calculation path.
// Paths outside the wizard yield zero parameters.
func ParsePath(path string) service.RouteParams {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "calculation" {
		return service.RouteParams{}
	}
	var params service.RouteParams
	if page, err := strconv.Atoi(parts[1]); err == nil {
		params.Page = page
	}
	if len(parts) > 2 {
		if id, err := strconv.Atoi(parts[2]); err == nil {
			params.ProjectID = id
		}
	}
	return params
}
