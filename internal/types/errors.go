package types

import "errors"

// Sentinel errors for docsieve operations.
var (
	// ErrUnknownRuleType indicates a wire rule_type id with no registered metadata.
	// Hard decode failure: unknown ids are propagated, never invented or dropped.
	ErrUnknownRuleType = errors.New("unknown filter rule type")

	// ErrValueMismatch indicates a rule value whose kind does not match the
	// rule type's declared data type. Only returned for already-typed values
	// (API misuse); wire decoding recovers into an invalid value instead.
	ErrValueMismatch = errors.New("rule value does not match rule type")

	// ErrMissingNullParam indicates a singular rule type needs an is-null
	// query parameter but the registry does not define one. A defect in the
	// static registry, not a runtime input error.
	ErrMissingNullParam = errors.New("rule type has no null query parameter")

	// ErrViewNotFound indicates a saved view id absent from the local cache.
	ErrViewNotFound = errors.New("saved view not found")

	// ErrRemoteStatus indicates a non-success HTTP status from the backend.
	ErrRemoteStatus = errors.New("unexpected response status from server")
)
