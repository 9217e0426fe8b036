// internal/filter/flatten.go
package filter

/*
 * State -> rules flattening, the inverse of FromRules.
 *
 * Emission order is fixed: Remaining first, then search (when text is
 * non-empty), then correspondent, document type, storage path, tags, owner.
 * Set facets expand into one rule per id rather than one comma-joined rule;
 * the backend expects repeatable rule instances. NotAssigned expands to
 * exactly one sentinel rule: the legacy null-value form for reference
 * facets, hasAnyTag=false for tags, ownerIsnull=true for the owner.
 * Unconstrained facets emit nothing.
 */

// Rules flattens the structured state back to a wire rule list.
func (s State) Rules() []Rule {
	out := make([]Rule, 0, len(s.Remaining)+8)
	out = append(out, s.Remaining...)

	if s.SearchText != "" {
		out = append(out, Rule{Type: s.SearchMode.ruleType(), Value: StringValue(s.SearchText)})
	}

	out = appendRefFacet(out, s.Correspondent, refFacetRules{
		legacy: RuleCorrespondent,
		anyOf:  RuleHasCorrespondentAny,
		noneOf: RuleDoesNotHaveCorrespondent,
		value:  CorrespondentValue,
	})
	out = appendRefFacet(out, s.DocumentType, refFacetRules{
		legacy: RuleDocumentType,
		anyOf:  RuleHasDocumentTypeAny,
		noneOf: RuleDoesNotHaveDocumentType,
		value:  DocumentTypeValue,
	})
	out = appendRefFacet(out, s.StoragePath, refFacetRules{
		legacy: RuleStoragePath,
		anyOf:  RuleHasStoragePathAny,
		noneOf: RuleDoesNotHaveStoragePath,
		value:  StoragePathValue,
	})

	out = appendTagFacet(out, s.Tags)
	out = appendOwnerFacet(out, s.Owner)

	return out
}

// refFacetRules binds one reference facet to its three rule types and value
// constructor.
type refFacetRules struct {
	legacy RuleType
	anyOf  RuleType
	noneOf RuleType
	value  func(Ref) Value
}

func appendRefFacet(out []Rule, f IDFilter, rt refFacetRules) []Rule {
	switch f.Mode {
	case ModeNotAssigned:
		out = append(out, Rule{Type: rt.legacy, Value: rt.value(NoRef)})
	case ModeAnyOf:
		for _, id := range f.IDs {
			out = append(out, Rule{Type: rt.anyOf, Value: rt.value(SomeRef(id))})
		}
	case ModeNoneOf:
		for _, id := range f.IDs {
			out = append(out, Rule{Type: rt.noneOf, Value: rt.value(SomeRef(id))})
		}
	}
	return out
}

func appendTagFacet(out []Rule, t TagFilter) []Rule {
	switch t.Mode {
	case TagNotAssigned:
		out = append(out, Rule{Type: RuleHasAnyTag, Value: BooleanValue(false)})
	case TagAnyOf:
		for _, id := range t.Include {
			out = append(out, Rule{Type: RuleHasTagsAny, Value: TagValue(id)})
		}
	case TagAllOf:
		for _, id := range t.Include {
			out = append(out, Rule{Type: RuleHasTagsAll, Value: TagValue(id)})
		}
		for _, id := range t.Exclude {
			out = append(out, Rule{Type: RuleDoesNotHaveTag, Value: TagValue(id)})
		}
	}
	return out
}

func appendOwnerFacet(out []Rule, f IDFilter) []Rule {
	switch f.Mode {
	case ModeNotAssigned:
		out = append(out, Rule{Type: RuleOwnerIsnull, Value: BooleanValue(true)})
	case ModeAnyOf:
		for _, id := range f.IDs {
			out = append(out, Rule{Type: RuleOwnerAny, Value: IntegerValue(int64(id))})
		}
	case ModeNoneOf:
		for _, id := range f.IDs {
			out = append(out, Rule{Type: RuleOwnerDoesNotInclude, Value: IntegerValue(int64(id))})
		}
	}
	return out
}
