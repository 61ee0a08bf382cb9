// Package rules holds the ordered rule collection of a project and the
// named filters that slice it into page subsets.
package rules

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Veraticus/tdm-calculator/internal/model"
)

// Repository errors.
var (
	ErrDuplicateCode = errors.New("duplicate rule code")
	ErrUnknownCode   = errors.New("unknown rule code")
	ErrEmptyCode     = errors.New("rule code cannot be empty")
)

// Repository is the ordered set of rules for one project session.
// It has no internal locking; it is owned by a single session.
type Repository struct {
	index map[model.RuleCode]int
	rules []model.Rule
}

// New builds a repository, rejecting empty or duplicate codes.
func New(rules []model.Rule) (*Repository, error) {
	repo := &Repository{
		rules: make([]model.Rule, 0, len(rules)),
		index: make(map[model.RuleCode]int, len(rules)),
	}
	for i, r := range rules {
		if r.Code == "" {
			return nil, fmt.Errorf("%w: rule at index %d", ErrEmptyCode, i)
		}
		if _, exists := repo.index[r.Code]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, r.Code)
		}
		repo.index[r.Code] = len(repo.rules)
		repo.rules = append(repo.rules, r.Clone())
	}
	return repo, nil
}

// MustNew is New for fixed rule sets known to be valid.
func MustNew(rules []model.Rule) *Repository {
	repo, err := New(rules)
	if err != nil {
		panic(err)
	}
	return repo
}

// Len returns the number of rules.
func (r *Repository) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// Get returns a copy of the rule with the given code.
func (r *Repository) Get(code model.RuleCode) (model.Rule, bool) {
	if r == nil {
		return model.Rule{}, false
	}
	i, ok := r.index[code]
	if !ok {
		return model.Rule{}, false
	}
	return r.rules[i].Clone(), true
}

// Has reports whether a rule with the given code exists.
func (r *Repository) Has(code model.RuleCode) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[code]
	return ok
}

// Rules returns a copy of every rule in repository order.
func (r *Repository) Rules() []model.Rule {
	return r.Filter(nil)
}

// Filter returns copies of the rules matching pred, in repository order.
// A nil predicate matches everything.
func (r *Repository) Filter(pred Predicate) []model.Rule {
	if r == nil {
		return nil
	}
	out := make([]model.Rule, 0, len(r.rules))
	for i := range r.rules {
		if pred == nil || pred(&r.rules[i]) {
			out = append(out, r.rules[i].Clone())
		}
	}
	return out
}

// Any reports whether some rule matches pred.
func (r *Repository) Any(pred Predicate) bool {
	if r == nil {
		return false
	}
	for i := range r.rules {
		if pred(&r.rules[i]) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the repository.
func (r *Repository) Clone() *Repository {
	if r == nil {
		return nil
	}
	out := &Repository{
		rules: make([]model.Rule, len(r.rules)),
		index: make(map[model.RuleCode]int, len(r.index)),
	}
	for i := range r.rules {
		out.rules[i] = r.rules[i].Clone()
	}
	for code, i := range r.index {
		out.index[code] = i
	}
	return out
}

// Update applies fn to the rule with the given code in place.
func (r *Repository) Update(code model.RuleCode, fn func(*model.Rule)) error {
	i, ok := r.index[code]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCode, code)
	}
	fn(&r.rules[i])
	return nil
}

// Each calls fn for every rule in order, allowing in-place changes.
func (r *Repository) Each(fn func(*model.Rule)) {
	for i := range r.rules {
		fn(&r.rules[i])
	}
}

// SetValue replaces the raw value of a rule.
func (r *Repository) SetValue(code model.RuleCode, v model.Value) error {
	return r.Update(code, func(rule *model.Rule) {
		rule.Value = v
	})
}

// SetComment replaces the comment of a rule.
func (r *Repository) SetComment(code model.RuleCode, comment string) error {
	return r.Update(code, func(rule *model.Rule) {
		rule.Comment = comment
	})
}

// Inputs extracts the user-entered slice of every rule that is not
// computed. This is the snapshot that is persisted.
func (r *Repository) Inputs() map[model.RuleCode]model.Input {
	out := make(map[model.RuleCode]model.Input)
	if r == nil {
		return out
	}
	for i := range r.rules {
		rule := &r.rules[i]
		if rule.Value.IsAbsent() && rule.Comment == "" {
			continue
		}
		out[rule.Code] = model.Input{Value: rule.Value, Comment: rule.Comment}
	}
	return out
}

// ApplyInputs overwrites values and comments from a saved snapshot.
// Codes the repository does not know are returned, not applied.
func (r *Repository) ApplyInputs(inputs map[model.RuleCode]model.Input) []model.RuleCode {
	var unknown []model.RuleCode
	for code, in := range inputs {
		i, ok := r.index[code]
		if !ok {
			unknown = append(unknown, code)
			continue
		}
		r.rules[i].Value = in.Value
		r.rules[i].Comment = in.Comment
	}
	sort.Slice(unknown, func(a, b int) bool { return unknown[a] < unknown[b] })
	return unknown
}
