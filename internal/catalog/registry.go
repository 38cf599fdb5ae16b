// Package catalog provides the strategy template registry: an immutable,
// in-memory catalog of templates with lookup, filtering, sorting, tag
// search, forking, validation, and derived-metric computation.
//
// The registry never mutates its contents after construction. Fork
// returns a new, independent template owned by the caller; filters and
// sorts operate on copies. All operations are safe for concurrent use.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"stratboard/internal/domain"
)

// ErrTemplateNotFound is returned by id/name lookups, fork, and export
// when the requested template is not in the registry.
var ErrTemplateNotFound = errors.New("template not found")

// Registry holds strategy templates in registration order.
type Registry struct {
	templates []*domain.StrategyTemplate
	byID      map[string]*domain.StrategyTemplate
}

// New creates a Registry over the given templates. Registration order is
// preserved and determines the stable order of all filter results. A
// duplicate id keeps the first registration for id lookup.
func New(templates ...*domain.StrategyTemplate) *Registry {
	r := &Registry{
		templates: make([]*domain.StrategyTemplate, 0, len(templates)),
		byID:      make(map[string]*domain.StrategyTemplate, len(templates)),
	}
	for _, t := range templates {
		r.templates = append(r.templates, t)
		if _, exists := r.byID[t.ID]; !exists {
			r.byID[t.ID] = t
		}
	}
	return r
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.templates) }

// All returns the templates in registration order. The slice is a copy;
// the templates themselves are shared and must be treated as read-only.
func (r *Registry) All() []*domain.StrategyTemplate {
	out := make([]*domain.StrategyTemplate, len(r.templates))
	copy(out, r.templates)
	return out
}

// ByID returns the template with the given id, or ErrTemplateNotFound.
func (r *Registry) ByID(id string) (*domain.StrategyTemplate, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return t, nil
}

// ByName returns the first template whose name matches case-insensitively,
// in registration order, or ErrTemplateNotFound.
func (r *Registry) ByName(name string) (*domain.StrategyTemplate, error) {
	for _, t := range r.templates {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: name %q", ErrTemplateNotFound, name)
}

// filter returns templates matching pred, preserving registration order.
func (r *Registry) filter(pred func(*domain.StrategyTemplate) bool) []*domain.StrategyTemplate {
	var out []*domain.StrategyTemplate
	for _, t := range r.templates {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByCategory returns templates in the given category.
func (r *Registry) FilterByCategory(c domain.Category) []*domain.StrategyTemplate {
	return r.filter(func(t *domain.StrategyTemplate) bool { return t.Category == c })
}

// FilterByRiskProfile returns templates with the given risk profile.
func (r *Registry) FilterByRiskProfile(p domain.RiskProfile) []*domain.StrategyTemplate {
	return r.filter(func(t *domain.StrategyTemplate) bool { return t.RiskProfile == p })
}

// FilterByDifficulty returns templates at the given difficulty level.
func (r *Registry) FilterByDifficulty(d domain.Difficulty) []*domain.StrategyTemplate {
	return r.filter(func(t *domain.StrategyTemplate) bool { return t.Difficulty == d })
}

// FilterByCapital returns templates whose minimum capital requirement is
// within the given capital.
func (r *Registry) FilterByCapital(capital float64) []*domain.StrategyTemplate {
	return r.filter(func(t *domain.StrategyTemplate) bool {
		return t.Requirements.MinCapital <= capital
	})
}

// SortedBy returns a copy of the registry sorted by the named backtest
// metric. A missing backtest record or unknown metric name counts as 0.
// The sort is stable: ties keep registration order.
func (r *Registry) SortedBy(metric string, descending bool) []*domain.StrategyTemplate {
	out := r.All()
	value := func(t *domain.StrategyTemplate) float64 {
		v, ok := t.Backtest.Metric(metric)
		if !ok {
			return 0
		}
		return v
	}
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return value(out[i]) > value(out[j])
		}
		return value(out[i]) < value(out[j])
	})
	return out
}

// SearchByTags returns templates matching the queried tags,
// case-insensitively. With matchAll, every queried tag must be present;
// otherwise one match suffices. An empty query returns nothing.
func (r *Registry) SearchByTags(tags []string, matchAll bool) []*domain.StrategyTemplate {
	if len(tags) == 0 {
		return nil
	}
	return r.filter(func(t *domain.StrategyTemplate) bool {
		if matchAll {
			for _, tag := range tags {
				if !t.HasTag(tag) {
					return false
				}
			}
			return true
		}
		for _, tag := range tags {
			if t.HasTag(tag) {
				return true
			}
		}
		return false
	})
}

// Overrides carries the fields a fork may replace on its source
// template. Zero values mean "keep the original". Config entries are
// deep-merged into the original config; Entry/Exit, when non-nil,
// replace the original rule sequences wholesale.
type Overrides struct {
	Name        string             `json:"name,omitempty"`
	Author      string             `json:"author,omitempty"`
	Description string             `json:"description,omitempty"`
	Category    domain.Category    `json:"category,omitempty"`
	Difficulty  domain.Difficulty  `json:"difficulty,omitempty"`
	RiskProfile domain.RiskProfile `json:"riskProfile,omitempty"`
	Config      domain.Config      `json:"config,omitempty"`
	Entry       []domain.Condition `json:"entry,omitempty"`
	Exit        []domain.Condition `json:"exit,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
}

// forkSeq disambiguates fork ids created within the same millisecond.
var forkSeq atomic.Int64

// Fork produces a new template derived from the source plus overrides.
// The result shares no mutable state with the source: config and rules
// are deep copies. Fork does not validate the result; callers that need
// a guaranteed-valid template must run Validate on it afterwards.
func (r *Registry) Fork(id string, o Overrides) (*domain.StrategyTemplate, error) {
	src, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}

	now := time.Now().UTC()
	fork := src.Clone()
	fork.ID = fmt.Sprintf("%s-fork-%d-%d", src.ID, now.UnixMilli(), forkSeq.Add(1))
	fork.Version = "1.0.0"
	fork.Author = "User"
	fork.CreatedAt = now
	fork.UpdatedAt = now
	fork.ForkedFrom = src.ID

	if o.Name != "" {
		fork.Name = o.Name
	}
	if o.Author != "" {
		fork.Author = o.Author
	}
	if o.Description != "" {
		fork.Description = o.Description
	}
	if o.Category != "" {
		fork.Category = o.Category
	}
	if o.Difficulty != "" {
		fork.Difficulty = o.Difficulty
	}
	if o.RiskProfile != "" {
		fork.RiskProfile = o.RiskProfile
	}
	if o.Tags != nil {
		fork.Tags = append([]string(nil), o.Tags...)
	}

	// Deep-merge override config entries into the cloned config.
	if len(o.Config) > 0 {
		if fork.Config == nil {
			fork.Config = make(domain.Config, len(o.Config))
		}
		for k, v := range o.Config {
			fork.Config[k] = v
		}
	}

	// Rules are replaced, never merged.
	if o.Entry != nil {
		fork.Rules.Entry = domain.CloneConditions(o.Entry)
	}
	if o.Exit != nil {
		fork.Rules.Exit = domain.CloneConditions(o.Exit)
	}

	return fork, nil
}
