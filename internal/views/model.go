// Package views handles server-side saved views: the wire model, an HTTP
// client for the saved-view resource, and a local cache backed by the
// database layer.
package views

import (
	"github.com/docsieve/docsieve/internal/filter"
)

// SavedView is a named, persisted filter as the server represents it.
type SavedView struct {
	ID              uint          `json:"id,omitempty"`
	Name            string        `json:"name"`
	ShowOnDashboard bool          `json:"show_on_dashboard"`
	ShowInSidebar   bool          `json:"show_in_sidebar"`
	SortField       string        `json:"sort_field"`
	SortReverse     bool          `json:"sort_reverse"`
	FilterRules     []filter.Rule `json:"filter_rules"`
}

// ToState folds the view's rule list into structured filter state carrying
// the view's sort configuration and identity. Fold diagnostics are passed
// through for the caller to report.
func (v SavedView) ToState(d filter.Defaults) (filter.State, []filter.Diagnostic) {
	s, diags := filter.FromRules(v.FilterRules, d)

	if v.SortField != "" {
		s.SortField = filter.SortField(v.SortField)
		if v.SortReverse {
			s.SortOrder = filter.SortDescending
		} else {
			s.SortOrder = filter.SortAscending
		}
	}
	if v.ID != 0 {
		s.SavedView = filter.SomeRef(v.ID)
	}

	return s, diags
}

// FromState builds a view ready for persistence from structured state. The
// state's saved-view reference, if any, becomes the view id so an update
// targets the originating view.
func FromState(name string, s filter.State) SavedView {
	v := SavedView{
		Name:        name,
		SortField:   string(s.SortField),
		SortReverse: s.SortOrder == filter.SortDescending,
		FilterRules: s.Rules(),
	}
	if s.SavedView.Valid {
		v.ID = s.SavedView.ID
	}
	return v
}
