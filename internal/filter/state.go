// internal/filter/state.go
package filter

/*
 * Structured filter state.
 *
 * State groups flat wire rules into per-facet set semantics the caller can
 * render and mutate: one IDFilter per reference facet (correspondent,
 * document type, storage path) and for the owner (plain user ids), a richer
 * TagFilter supporting simultaneous include/exclude, a free-text search
 * field with mode, sort configuration, and the ordered list of rules no
 * facet recognized.
 *
 * State is an immutable-per-update value: every facet mutation is a
 * whole-value replacement via the With* helpers, which also raise the
 * Modified flag. Modified tracks drift from a saved baseline for the UI
 * only and never participates in equality.
 */

// Mode is the constraint mode of an IDFilter.
type Mode int

const (
	// ModeAny places no constraint on the facet.
	ModeAny Mode = iota
	// ModeNotAssigned requires the facet to be absent on the document.
	ModeNotAssigned
	// ModeAnyOf requires the document to match at least one id.
	ModeAnyOf
	// ModeNoneOf requires the document to match none of the ids.
	ModeNoneOf
)

// IDFilter is the per-facet constraint for single-valued reference facets
// and for the owner facet (user ids, semantic type integer). AnyOf and
// NoneOf are never simultaneously representable; combining them during
// reconstruction is a documented last-rule-wins inconsistency, not a merge.
type IDFilter struct {
	Mode Mode
	IDs  []uint
}

// Equal compares structurally. Id order matters: accumulation order is part
// of the value (no dedup, no resort).
func (f IDFilter) Equal(o IDFilter) bool {
	return f.Mode == o.Mode && equalIDs(f.IDs, o.IDs)
}

// TagMode is the constraint mode of a TagFilter.
type TagMode int

const (
	TagAny TagMode = iota
	TagNotAssigned
	// TagAnyOf matches documents carrying at least one of Include.
	TagAnyOf
	// TagAllOf matches documents carrying all of Include and none of
	// Exclude.
	TagAllOf
)

// TagFilter is richer than IDFilter because tags support simultaneous
// include/exclude. Mode switches between AnyOf and AllOf are explicit caller
// actions, never inferred by the fold.
type TagFilter struct {
	Mode    TagMode
	Include []uint
	Exclude []uint
}

// Equal compares structurally, order-sensitive like IDFilter.
func (f TagFilter) Equal(o TagFilter) bool {
	return f.Mode == o.Mode && equalIDs(f.Include, o.Include) && equalIDs(f.Exclude, o.Exclude)
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SearchMode selects which fields free-text search applies to.
type SearchMode int

const (
	SearchTitle SearchMode = iota
	SearchContent
	SearchTitleContent
	// SearchAdvanced is the backend's full query syntax.
	SearchAdvanced
)

// ruleType maps each mode to the rule type carrying its text.
func (m SearchMode) ruleType() RuleType {
	switch m {
	case SearchTitle:
		return RuleTitle
	case SearchContent:
		return RuleContent
	case SearchAdvanced:
		return RuleFulltextQuery
	default:
		return RuleTitleContent
	}
}

// SortField names a sortable document attribute.
type SortField string

const (
	SortASN           SortField = "archive_serial_number"
	SortCorrespondent SortField = "correspondent__name"
	SortTitle         SortField = "title"
	SortDocumentType  SortField = "document_type__name"
	SortCreated       SortField = "created"
	SortAdded         SortField = "added"
	SortModified      SortField = "modified"
	SortStoragePath   SortField = "storage_path__name"
	SortOwner         SortField = "owner"
	SortScore         SortField = "score"
)

// SortOrder is ascending or descending.
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// Defaults configures a freshly constructed State. Passed explicitly by the
// caller; the engine reads no ambient process-wide settings.
type Defaults struct {
	SortField  SortField
	SortOrder  SortOrder
	SearchMode SearchMode
}

// StandardDefaults matches the backend's document list defaults.
func StandardDefaults() Defaults {
	return Defaults{
		SortField:  SortCreated,
		SortOrder:  SortDescending,
		SearchMode: SearchTitleContent,
	}
}

// State is the structured filter aggregate.
type State struct {
	Correspondent IDFilter
	DocumentType  IDFilter
	StoragePath   IDFilter
	Owner         IDFilter
	Tags          TagFilter

	SearchText string
	SearchMode SearchMode

	// Remaining holds rules no facet recognized, as an order-preserving
	// sub-sequence of the source rule list. They re-emit unchanged so data
	// is never lost even when not understood.
	Remaining []Rule

	SortField SortField
	SortOrder SortOrder

	// SavedView references the originating saved view, if any.
	SavedView Ref

	// Modified tracks drift from the saved baseline. UI bookkeeping only;
	// excluded from Equal.
	Modified bool
}

// NewState returns an unconstrained state using the supplied defaults.
func NewState(d Defaults) State {
	return State{
		SearchMode: d.SearchMode,
		SortField:  d.SortField,
		SortOrder:  d.SortOrder,
	}
}

// Equal compares two states structurally, ignoring the Modified flag.
func (s State) Equal(o State) bool {
	if !s.Correspondent.Equal(o.Correspondent) ||
		!s.DocumentType.Equal(o.DocumentType) ||
		!s.StoragePath.Equal(o.StoragePath) ||
		!s.Owner.Equal(o.Owner) ||
		!s.Tags.Equal(o.Tags) {
		return false
	}
	if s.SearchText != o.SearchText || s.SearchMode != o.SearchMode {
		return false
	}
	if s.SortField != o.SortField || s.SortOrder != o.SortOrder {
		return false
	}
	if s.SavedView != o.SavedView {
		return false
	}
	if len(s.Remaining) != len(o.Remaining) {
		return false
	}
	for i := range s.Remaining {
		if s.Remaining[i] != o.Remaining[i] {
			return false
		}
	}
	return true
}

// WithSearch replaces the search text and mode.
func (s State) WithSearch(mode SearchMode, text string) State {
	s.SearchMode = mode
	s.SearchText = text
	s.Modified = true
	return s
}

// WithCorrespondent replaces the correspondent facet.
func (s State) WithCorrespondent(f IDFilter) State {
	s.Correspondent = f
	s.Modified = true
	return s
}

// WithDocumentType replaces the document type facet.
func (s State) WithDocumentType(f IDFilter) State {
	s.DocumentType = f
	s.Modified = true
	return s
}

// WithStoragePath replaces the storage path facet.
func (s State) WithStoragePath(f IDFilter) State {
	s.StoragePath = f
	s.Modified = true
	return s
}

// WithOwner replaces the owner facet.
func (s State) WithOwner(f IDFilter) State {
	s.Owner = f
	s.Modified = true
	return s
}

// WithTags replaces the tag facet.
func (s State) WithTags(f TagFilter) State {
	s.Tags = f
	s.Modified = true
	return s
}

// WithSort replaces the sort configuration.
func (s State) WithSort(field SortField, order SortOrder) State {
	s.SortField = field
	s.SortOrder = order
	s.Modified = true
	return s
}

// OrderingValue renders the sort configuration as the backend's "ordering"
// query parameter value ("-" prefix for descending).
func (s State) OrderingValue() string {
	if s.SortOrder == SortDescending {
		return "-" + string(s.SortField)
	}
	return string(s.SortField)
}
