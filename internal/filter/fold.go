// internal/filter/fold.go
package filter

import "fmt"

/*
 * Rules -> state reduction.
 *
 * FromRules folds an ordered wire rule list into one State: an explicit
 * reduce over an accumulator, one merge step per rule, dispatched by rule
 * type. Each step is deterministic in the accumulator and the rule, so
 * individual merges are testable in isolation through FromRules with
 * single-rule inputs.
 *
 * Recovery policies, by facet:
 *
 *   - Repeatable id rules accumulate by union in rule-list order. Duplicate
 *     ids are kept; the engine does not dedupe.
 *   - An invalid value on a repeatable id rule is re-parsed as a
 *     comma-joined id list (legacy encodings delivered one joined value
 *     instead of one rule per id). Successful recovery emits a diagnostic,
 *     never an error.
 *   - Tag facet conflicts keep the established mode; the conflicting rule
 *     is appended to Remaining with a diagnostic.
 *   - Reference and owner facet conflicts overwrite with the later rule and
 *     emit a diagnostic. Documented lossy behavior, never a failure.
 *   - Everything else lands in Remaining verbatim, preserving its relative
 *     order against other unrecognized rules.
 *
 * The fold never fails and never panics: worst case a rule is preserved
 * opaquely in Remaining and round-trips unchanged.
 */

// DiagKind classifies a fold diagnostic.
type DiagKind int

const (
	// DiagCommaRecovery reports a legacy comma-joined id list recovered
	// from an invalid value.
	DiagCommaRecovery DiagKind = iota
	// DiagModeConflict reports conflicting facet-mode evidence.
	DiagModeConflict
	// DiagUnexpectedValue reports a value shape the facet cannot use.
	DiagUnexpectedValue
)

// Diagnostic is a warning-equivalent event recorded during the fold. The
// engine is pure and never logs; callers decide what to do with these.
type Diagnostic struct {
	Kind   DiagKind
	Rule   Rule
	Detail string
}

// FromRules reconstructs structured state from a flat rule list.
func FromRules(rules []Rule, d Defaults) (State, []Diagnostic) {
	acc := accumulator{state: NewState(d)}
	for _, r := range rules {
		acc.apply(r)
	}
	return acc.state, acc.diags
}

type accumulator struct {
	state State
	diags []Diagnostic
}

func (acc *accumulator) apply(r Rule) {
	switch r.Type {
	case RuleTitle:
		acc.applySearch(r, SearchTitle)
	case RuleContent:
		acc.applySearch(r, SearchContent)
	case RuleTitleContent:
		acc.applySearch(r, SearchTitleContent)
	case RuleFulltextQuery:
		acc.applySearch(r, SearchAdvanced)

	case RuleCorrespondent:
		acc.applyLegacyRef(r, &acc.state.Correspondent)
	case RuleDocumentType:
		acc.applyLegacyRef(r, &acc.state.DocumentType)
	case RuleStoragePath:
		acc.applyLegacyRef(r, &acc.state.StoragePath)

	case RuleHasCorrespondentAny:
		acc.applyIDUnion(r, &acc.state.Correspondent, ModeAnyOf)
	case RuleHasDocumentTypeAny:
		acc.applyIDUnion(r, &acc.state.DocumentType, ModeAnyOf)
	case RuleHasStoragePathAny:
		acc.applyIDUnion(r, &acc.state.StoragePath, ModeAnyOf)
	case RuleDoesNotHaveCorrespondent:
		acc.applyIDUnion(r, &acc.state.Correspondent, ModeNoneOf)
	case RuleDoesNotHaveDocumentType:
		acc.applyIDUnion(r, &acc.state.DocumentType, ModeNoneOf)
	case RuleDoesNotHaveStoragePath:
		acc.applyIDUnion(r, &acc.state.StoragePath, ModeNoneOf)

	case RuleHasTagsAll:
		acc.applyTagAll(r, false)
	case RuleDoesNotHaveTag:
		acc.applyTagAll(r, true)
	case RuleHasTagsAny:
		acc.applyTagAny(r)
	case RuleHasAnyTag:
		acc.applyTagSentinel(r)

	case RuleOwner:
		acc.applyOwnerLegacy(r)
	case RuleOwnerAny:
		acc.applyIDUnion(r, &acc.state.Owner, ModeAnyOf)
	case RuleOwnerDoesNotInclude:
		acc.applyIDUnion(r, &acc.state.Owner, ModeNoneOf)
	case RuleOwnerIsnull:
		acc.applyOwnerIsnull(r)

	default:
		// Not understood by any facet: preserve verbatim, in order.
		acc.remaining(r)
	}
}

func (acc *accumulator) remaining(r Rule) {
	acc.state.Remaining = append(acc.state.Remaining, r)
}

func (acc *accumulator) diag(kind DiagKind, r Rule, format string, args ...any) {
	acc.diags = append(acc.diags, Diagnostic{Kind: kind, Rule: r, Detail: fmt.Sprintf(format, args...)})
}

// applySearch sets the search mode and text. A non-string value cannot be a
// search term; the rule is preserved in Remaining instead of failing.
func (acc *accumulator) applySearch(r Rule, mode SearchMode) {
	if r.Value.Kind != KindString {
		acc.diag(DiagUnexpectedValue, r, "%s: search rule without string value", r.Type)
		acc.remaining(r)
		return
	}
	acc.state.SearchMode = mode
	acc.state.SearchText = r.Value.Str
}

// ruleIDs extracts the id list a repeatable id rule contributes. Normally
// one id per rule instance; an invalid value is re-parsed as a comma-joined
// list (recovered=true). ok=false means the value cannot contribute ids.
func ruleIDs(v Value) (ids []uint, recovered, ok bool) {
	switch v.Kind {
	case KindTag:
		return []uint{v.ID}, false, true
	case KindCorrespondent, KindDocumentType, KindStoragePath:
		if !v.Ref.Valid {
			return nil, false, false
		}
		return []uint{v.Ref.ID}, false, true
	case KindInteger:
		if v.Int < 0 {
			return nil, false, false
		}
		return []uint{uint(v.Int)}, false, true
	case KindInvalid:
		ids, parsed := commaIDs(v.Str)
		return ids, true, parsed
	default:
		return nil, false, false
	}
}

// applyIDUnion merges a repeatable rule into an IDFilter under the given
// target mode. Same-mode evidence accumulates by union; cross-mode evidence
// is a documented inconsistency where the later rule wins.
func (acc *accumulator) applyIDUnion(r Rule, f *IDFilter, target Mode) {
	ids, recovered, ok := ruleIDs(r.Value)
	if !ok {
		acc.diag(DiagUnexpectedValue, r, "%s: value carries no usable ids", r.Type)
		acc.remaining(r)
		return
	}
	if recovered {
		acc.diag(DiagCommaRecovery, r, "%s: recovered %d ids from comma-joined value %q", r.Type, len(ids), r.Value.Str)
	}
	switch f.Mode {
	case ModeAny:
		f.Mode = target
		f.IDs = append([]uint(nil), ids...)
	case target:
		f.IDs = append(f.IDs, ids...)
	default:
		acc.diag(DiagModeConflict, r, "%s: conflicting facet mode, later rule wins", r.Type)
		f.Mode = target
		f.IDs = append([]uint(nil), ids...)
	}
}

// applyLegacyRef handles the legacy singular reference rules: an id behaves
// like a one-element any-of, a null value means not assigned.
func (acc *accumulator) applyLegacyRef(r Rule, f *IDFilter) {
	ref, ok := refOf(r.Value)
	if !ok {
		acc.diag(DiagUnexpectedValue, r, "%s: expected reference value", r.Type)
		acc.remaining(r)
		return
	}
	if ref.Valid {
		switch f.Mode {
		case ModeAny:
			f.Mode = ModeAnyOf
			f.IDs = []uint{ref.ID}
		case ModeAnyOf:
			f.IDs = append(f.IDs, ref.ID)
		default:
			acc.diag(DiagModeConflict, r, "%s: conflicting facet mode, later rule wins", r.Type)
			f.Mode = ModeAnyOf
			f.IDs = []uint{ref.ID}
		}
		return
	}
	if f.Mode != ModeAny && f.Mode != ModeNotAssigned {
		acc.diag(DiagModeConflict, r, "%s: conflicting facet mode, later rule wins", r.Type)
	}
	f.Mode = ModeNotAssigned
	f.IDs = nil
}

func refOf(v Value) (Ref, bool) {
	switch v.Kind {
	case KindCorrespondent, KindDocumentType, KindStoragePath:
		return v.Ref, true
	default:
		return Ref{}, false
	}
}

// applyTagAll feeds hasTagsAll / doesNotHaveTag into TagFilter.AllOf.
// Include and exclude accumulate across repeated rule instances. Conflicts
// with an established AnyOf or NotAssigned mode keep the established mode.
func (acc *accumulator) applyTagAll(r Rule, exclude bool) {
	ids, recovered, ok := ruleIDs(r.Value)
	if !ok {
		acc.diag(DiagUnexpectedValue, r, "%s: value carries no usable tag ids", r.Type)
		acc.remaining(r)
		return
	}
	if recovered {
		acc.diag(DiagCommaRecovery, r, "%s: recovered %d ids from comma-joined value %q", r.Type, len(ids), r.Value.Str)
	}
	t := &acc.state.Tags
	switch t.Mode {
	case TagAny, TagAllOf:
		t.Mode = TagAllOf
		if exclude {
			t.Exclude = append(t.Exclude, ids...)
		} else {
			t.Include = append(t.Include, ids...)
		}
	default:
		acc.diag(DiagModeConflict, r, "%s: tag facet mode already set, rule preserved", r.Type)
		acc.remaining(r)
	}
}

// applyTagAny feeds hasTagsAny into TagFilter.AnyOf.
func (acc *accumulator) applyTagAny(r Rule) {
	ids, recovered, ok := ruleIDs(r.Value)
	if !ok {
		acc.diag(DiagUnexpectedValue, r, "%s: value carries no usable tag ids", r.Type)
		acc.remaining(r)
		return
	}
	if recovered {
		acc.diag(DiagCommaRecovery, r, "%s: recovered %d ids from comma-joined value %q", r.Type, len(ids), r.Value.Str)
	}
	t := &acc.state.Tags
	switch t.Mode {
	case TagAny, TagAnyOf:
		t.Mode = TagAnyOf
		t.Include = append(t.Include, ids...)
	default:
		acc.diag(DiagModeConflict, r, "%s: tag facet mode already set, rule preserved", r.Type)
		acc.remaining(r)
	}
}

// applyTagSentinel handles hasAnyTag. Only the boolean false form ("must
// have zero tags") maps to a facet state; anything else is preserved.
func (acc *accumulator) applyTagSentinel(r Rule) {
	if r.Value.Kind != KindBoolean || r.Value.Bool {
		acc.diag(DiagUnexpectedValue, r, "%s: only the false sentinel maps to a tag state", r.Type)
		acc.remaining(r)
		return
	}
	switch acc.state.Tags.Mode {
	case TagAny, TagNotAssigned:
		acc.state.Tags = TagFilter{Mode: TagNotAssigned}
	default:
		acc.diag(DiagModeConflict, r, "%s: tag facet mode already set, rule preserved", r.Type)
		acc.remaining(r)
	}
}

// applyOwnerLegacy handles the legacy singular owner rule: one non-negative
// user id accumulating into any-of.
func (acc *accumulator) applyOwnerLegacy(r Rule) {
	if r.Value.Kind != KindInteger || r.Value.Int < 0 {
		acc.diag(DiagUnexpectedValue, r, "%s: expected non-negative user id", r.Type)
		acc.remaining(r)
		return
	}
	acc.applyIDUnion(r, &acc.state.Owner, ModeAnyOf)
}

// applyOwnerIsnull handles the owner sentinel: true means not assigned,
// false resets the facet to unconstrained. A second, conflicting owner mode
// overwrites the prior one per the mode-conflict policy above.
func (acc *accumulator) applyOwnerIsnull(r Rule) {
	if r.Value.Kind != KindBoolean {
		acc.diag(DiagUnexpectedValue, r, "%s: expected boolean value", r.Type)
		acc.remaining(r)
		return
	}
	target := ModeAny
	if r.Value.Bool {
		target = ModeNotAssigned
	}
	if acc.state.Owner.Mode != ModeAny && acc.state.Owner.Mode != target {
		acc.diag(DiagModeConflict, r, "%s: conflicting owner mode, later rule wins", r.Type)
	}
	acc.state.Owner = IDFilter{Mode: target}
}
