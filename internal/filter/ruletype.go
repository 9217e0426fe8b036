// internal/filter/ruletype.go
package filter

import (
	"fmt"

	"github.com/docsieve/docsieve/internal/types"
)

/*
 * Static rule type registry.
 *
 * Every filter rule the backend understands is identified by a stable small
 * integer on the wire. The registry maps each RuleType to fixed metadata:
 * the semantic type its value must carry, whether the rule may repeat within
 * one request, the query parameter it serializes to, and (for nullable
 * reference facets) the companion is-null parameter.
 *
 * The wire ids and parameter names mirror the backend's filter API and must
 * never change; new rule types append new ids.
 *
 * Registry completeness is a compile-time concern surfaced at startup/test
 * time via ValidateSpecs: a singular nullable-reference type without a
 * NullParam cannot express its "field is unset" sentinel and is a defect in
 * this table, not a runtime input error.
 */

// RuleType identifies a filterable document attribute. The integer value is
// the wire encoding used in rule_type fields and saved views.
type RuleType int

const (
	RuleTitle                    RuleType = 0
	RuleContent                  RuleType = 1
	RuleASN                      RuleType = 2
	RuleCorrespondent            RuleType = 3
	RuleDocumentType             RuleType = 4
	RuleIsInInbox                RuleType = 5
	RuleHasTagsAll               RuleType = 6
	RuleHasAnyTag                RuleType = 7
	RuleCreatedBefore            RuleType = 8
	RuleCreatedAfter             RuleType = 9
	RuleCreatedYear              RuleType = 10
	RuleCreatedMonth             RuleType = 11
	RuleCreatedDay               RuleType = 12
	RuleAddedBefore              RuleType = 13
	RuleAddedAfter               RuleType = 14
	RuleModifiedBefore           RuleType = 15
	RuleModifiedAfter            RuleType = 16
	RuleDoesNotHaveTag           RuleType = 17
	RuleASNIsnull                RuleType = 18
	RuleTitleContent             RuleType = 19
	RuleFulltextQuery            RuleType = 20
	RuleFulltextMorelike         RuleType = 21
	RuleHasTagsAny               RuleType = 22
	RuleASNGreaterThan           RuleType = 23
	RuleASNLessThan              RuleType = 24
	RuleStoragePath              RuleType = 25
	RuleHasCorrespondentAny      RuleType = 26
	RuleDoesNotHaveCorrespondent RuleType = 27
	RuleHasDocumentTypeAny       RuleType = 28
	RuleDoesNotHaveDocumentType  RuleType = 29
	RuleHasStoragePathAny        RuleType = 30
	RuleDoesNotHaveStoragePath   RuleType = 31
	RuleOwner                    RuleType = 32
	RuleOwnerAny                 RuleType = 33
	RuleOwnerIsnull              RuleType = 34
	RuleOwnerDoesNotInclude      RuleType = 35
	RuleCustomFieldsContains     RuleType = 36
	RuleSharedByUser             RuleType = 37
)

// DataType declares the semantic type a rule type's value must carry.
type DataType int

const (
	DataDate DataType = iota
	DataInteger
	DataTag
	DataBoolean
	DataCorrespondent
	DataDocumentType
	DataStoragePath
	DataString
)

// RuleSpec is the fixed metadata for one rule type.
type RuleSpec struct {
	Type       RuleType
	DataType   DataType
	Repeatable bool   // multiple instances combine into a set
	QueryParam string // parameter name when a value is present
	NullParam  string // parameter name for the "is absent" sentinel, if any
}

// ruleSpecs is keyed by RuleType. Parameter names follow the backend's
// django-filter conventions (__icontains, __id, __id__in, __id__none,
// __isnull, __date__gt, ...).
var ruleSpecs = map[RuleType]RuleSpec{
	RuleTitle:                    {RuleTitle, DataString, false, "title__icontains", ""},
	RuleContent:                  {RuleContent, DataString, false, "content__icontains", ""},
	RuleASN:                      {RuleASN, DataInteger, false, "archive_serial_number", ""},
	RuleCorrespondent:            {RuleCorrespondent, DataCorrespondent, false, "correspondent__id", "correspondent__isnull"},
	RuleDocumentType:             {RuleDocumentType, DataDocumentType, false, "document_type__id", "document_type__isnull"},
	RuleIsInInbox:                {RuleIsInInbox, DataBoolean, false, "is_in_inbox", ""},
	RuleHasTagsAll:               {RuleHasTagsAll, DataTag, true, "tags__id__all", ""},
	RuleHasAnyTag:                {RuleHasAnyTag, DataBoolean, false, "is_tagged", ""},
	RuleCreatedBefore:            {RuleCreatedBefore, DataDate, false, "created__date__lt", ""},
	RuleCreatedAfter:             {RuleCreatedAfter, DataDate, false, "created__date__gt", ""},
	RuleCreatedYear:              {RuleCreatedYear, DataInteger, false, "created__year", ""},
	RuleCreatedMonth:             {RuleCreatedMonth, DataInteger, false, "created__month", ""},
	RuleCreatedDay:               {RuleCreatedDay, DataInteger, false, "created__day", ""},
	RuleAddedBefore:              {RuleAddedBefore, DataDate, false, "added__date__lt", ""},
	RuleAddedAfter:               {RuleAddedAfter, DataDate, false, "added__date__gt", ""},
	RuleModifiedBefore:           {RuleModifiedBefore, DataDate, false, "modified__date__lt", ""},
	RuleModifiedAfter:            {RuleModifiedAfter, DataDate, false, "modified__date__gt", ""},
	RuleDoesNotHaveTag:           {RuleDoesNotHaveTag, DataTag, true, "tags__id__none", ""},
	RuleASNIsnull:                {RuleASNIsnull, DataBoolean, false, "archive_serial_number__isnull", ""},
	RuleTitleContent:             {RuleTitleContent, DataString, false, "title_content", ""},
	RuleFulltextQuery:            {RuleFulltextQuery, DataString, false, "query", ""},
	RuleFulltextMorelike:         {RuleFulltextMorelike, DataInteger, false, "more_like_id", ""},
	RuleHasTagsAny:               {RuleHasTagsAny, DataTag, true, "tags__id__in", ""},
	RuleASNGreaterThan:           {RuleASNGreaterThan, DataInteger, false, "archive_serial_number__gt", ""},
	RuleASNLessThan:              {RuleASNLessThan, DataInteger, false, "archive_serial_number__lt", ""},
	RuleStoragePath:              {RuleStoragePath, DataStoragePath, false, "storage_path__id", "storage_path__isnull"},
	RuleHasCorrespondentAny:      {RuleHasCorrespondentAny, DataCorrespondent, true, "correspondent__id__in", ""},
	RuleDoesNotHaveCorrespondent: {RuleDoesNotHaveCorrespondent, DataCorrespondent, true, "correspondent__id__none", ""},
	RuleHasDocumentTypeAny:       {RuleHasDocumentTypeAny, DataDocumentType, true, "document_type__id__in", ""},
	RuleDoesNotHaveDocumentType:  {RuleDoesNotHaveDocumentType, DataDocumentType, true, "document_type__id__none", ""},
	RuleHasStoragePathAny:        {RuleHasStoragePathAny, DataStoragePath, true, "storage_path__id__in", ""},
	RuleDoesNotHaveStoragePath:   {RuleDoesNotHaveStoragePath, DataStoragePath, true, "storage_path__id__none", ""},
	RuleOwner:                    {RuleOwner, DataInteger, false, "owner__id", ""},
	RuleOwnerAny:                 {RuleOwnerAny, DataInteger, true, "owner__id__in", ""},
	RuleOwnerIsnull:              {RuleOwnerIsnull, DataBoolean, false, "owner__isnull", ""},
	RuleOwnerDoesNotInclude:      {RuleOwnerDoesNotInclude, DataInteger, true, "owner__id__none", ""},
	RuleCustomFieldsContains:     {RuleCustomFieldsContains, DataString, false, "custom_fields__icontains", ""},
	RuleSharedByUser:             {RuleSharedByUser, DataInteger, false, "shared_by__id", ""},
}

// Spec returns the fixed metadata for a rule type. Total over the constants
// declared above; the second return is false only for values never declared.
func Spec(rt RuleType) (RuleSpec, bool) {
	spec, ok := ruleSpecs[rt]
	return spec, ok
}

// Lookup resolves a wire rule_type id to a RuleType.
// Unknown ids are a hard decode failure per the round-trip contract.
func Lookup(id int) (RuleType, error) {
	rt := RuleType(id)
	if _, ok := ruleSpecs[rt]; !ok {
		return 0, fmt.Errorf("rule_type %d: %w", id, types.ErrUnknownRuleType)
	}
	return rt, nil
}

// ValidateSpecs checks static registry invariants. Returns an error when a
// singular nullable-reference rule type lacks a NullParam, since such a type
// could not serialize its "field is unset" sentinel. Callers run this at
// startup; the registry is also pinned by tests.
func ValidateSpecs() error {
	for rt, spec := range ruleSpecs {
		if spec.Repeatable {
			continue
		}
		switch spec.DataType {
		case DataCorrespondent, DataDocumentType, DataStoragePath:
			if spec.NullParam == "" {
				return fmt.Errorf("rule type %d (%s): %w", int(rt), spec.QueryParam, types.ErrMissingNullParam)
			}
		}
		if spec.QueryParam == "" {
			return fmt.Errorf("rule type %d: empty query parameter", int(rt))
		}
	}
	return nil
}

// String returns a readable name for diagnostics and CLI output.
func (rt RuleType) String() string {
	names := map[RuleType]string{
		RuleTitle:                    "title",
		RuleContent:                  "content",
		RuleASN:                      "asn",
		RuleCorrespondent:            "correspondent",
		RuleDocumentType:             "document_type",
		RuleIsInInbox:                "is_in_inbox",
		RuleHasTagsAll:               "has_tags_all",
		RuleHasAnyTag:                "has_any_tag",
		RuleCreatedBefore:            "created_before",
		RuleCreatedAfter:             "created_after",
		RuleCreatedYear:              "created_year",
		RuleCreatedMonth:             "created_month",
		RuleCreatedDay:               "created_day",
		RuleAddedBefore:              "added_before",
		RuleAddedAfter:               "added_after",
		RuleModifiedBefore:           "modified_before",
		RuleModifiedAfter:            "modified_after",
		RuleDoesNotHaveTag:           "does_not_have_tag",
		RuleASNIsnull:                "asn_isnull",
		RuleTitleContent:             "title_content",
		RuleFulltextQuery:            "fulltext_query",
		RuleFulltextMorelike:         "fulltext_morelike",
		RuleHasTagsAny:               "has_tags_any",
		RuleASNGreaterThan:           "asn_gt",
		RuleASNLessThan:              "asn_lt",
		RuleStoragePath:              "storage_path",
		RuleHasCorrespondentAny:      "has_correspondent_any",
		RuleDoesNotHaveCorrespondent: "does_not_have_correspondent",
		RuleHasDocumentTypeAny:       "has_document_type_any",
		RuleDoesNotHaveDocumentType:  "does_not_have_document_type",
		RuleHasStoragePathAny:        "has_storage_path_any",
		RuleDoesNotHaveStoragePath:   "does_not_have_storage_path",
		RuleOwner:                    "owner",
		RuleOwnerAny:                 "owner_any",
		RuleOwnerIsnull:              "owner_isnull",
		RuleOwnerDoesNotInclude:      "owner_does_not_include",
		RuleCustomFieldsContains:     "custom_fields_contains",
		RuleSharedByUser:             "shared_by_user",
	}
	if n, ok := names[rt]; ok {
		return n
	}
	return fmt.Sprintf("rule_type(%d)", int(rt))
}
