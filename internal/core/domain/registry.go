package domain

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Registry holds task definitions keyed by identifier.
// It is populated at startup and read by the runner.
type Registry struct {
	tasks map[TaskID]*Task
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[TaskID]*Task),
	}
}

// Register adds t to the registry. Registering an identifier that already
// exists merges the definitions: prerequisites and actions are appended in
// registration order, a non-empty description replaces the previous one and
// the task stays scoped once any registration scopes it.
func (r *Registry) Register(t Task) {
	existing, ok := r.tasks[t.ID]
	if !ok {
		r.tasks[t.ID] = &Task{
			ID:            t.ID,
			Description:   t.Description,
			Prerequisites: slices.Clone(t.Prerequisites),
			Actions:       slices.Clone(t.Actions),
			Scoped:        t.Scoped,
		}
		return
	}

	if t.Description != "" {
		existing.Description = t.Description
	}
	existing.Prerequisites = append(existing.Prerequisites, t.Prerequisites...)
	existing.Actions = append(existing.Actions, t.Actions...)
	existing.Scoped = existing.Scoped || t.Scoped
}

// Lookup returns the task registered under id.
func (r *Registry) Lookup(id TaskID) (*Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrUnknownTask, id.String()), "task", id.String())
	}
	return t, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id TaskID) bool {
	_, ok := r.tasks[id]
	return ok
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int {
	return len(r.tasks)
}

// IDs returns all registered identifiers sorted by name.
func (r *Registry) IDs() []TaskID {
	ids := slices.Collect(maps.Keys(r.tasks))
	slices.SortFunc(ids, func(a, b TaskID) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

// Described returns the tasks that carry a description, sorted by name.
func (r *Registry) Described() []Task {
	var out []Task
	for _, id := range r.IDs() {
		if t := r.tasks[id]; t.Description != "" {
			out = append(out, *t)
		}
	}
	return out
}
