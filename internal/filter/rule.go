// internal/filter/rule.go
package filter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/docsieve/docsieve/internal/types"
)

/*
 * Filter rules and the wire codec.
 *
 * A Rule pairs a RuleType with a Value. Construction from already-typed
 * values validates that the value kind matches the type's declared data
 * type and returns types.ErrValueMismatch on caller misuse; a library
 * boundary must not terminate the process on bad input.
 *
 * Wire encoding is one JSON object per rule:
 *
 *   { "rule_type": <integer>, "value": <string> | null }
 *
 * value is null only for rules expressing "field is unset". Decoding
 * accepts either a native JSON scalar matching the declared type or a
 * string; when the payload does not parse as the declared type it is kept
 * verbatim as an invalid value so the rule still round-trips unchanged.
 * Only an unknown rule_type id fails the decode.
 */

// Rule is a single validated wire-level filter constraint.
// Equality is structural; Value is comparable.
type Rule struct {
	Type  RuleType
	Value Value
}

// NewRule validates the type/value pairing. The invalid kind is always
// permitted as the escape hatch for malformed wire data.
func NewRule(rt RuleType, v Value) (Rule, error) {
	spec, ok := Spec(rt)
	if !ok {
		return Rule{}, fmt.Errorf("rule_type %d: %w", int(rt), types.ErrUnknownRuleType)
	}
	if v.Kind != KindInvalid && v.Kind != kindFor(spec.DataType) {
		return Rule{}, fmt.Errorf("%s: %w", rt, types.ErrValueMismatch)
	}
	return Rule{Type: rt, Value: v}, nil
}

// ruleEnvelope is the raw wire shape. Value stays raw so native scalars and
// strings decode uniformly.
type ruleEnvelope struct {
	RuleType int             `json:"rule_type"`
	Value    json.RawMessage `json:"value"`
}

// UnmarshalJSON decodes a wire rule. Unknown rule_type ids propagate
// types.ErrUnknownRuleType; value parse failures recover as invalid.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var env ruleEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	rt, err := Lookup(env.RuleType)
	if err != nil {
		return err
	}
	spec, _ := Spec(rt)
	r.Type = rt
	r.Value = decodeWireValue(spec.DataType, env.Value)
	return nil
}

// MarshalJSON encodes the rule back to the wire shape. The value is null
// only for an explicit absent reference.
func (r Rule) MarshalJSON() ([]byte, error) {
	s, present := r.Value.wireString()
	env := struct {
		RuleType int     `json:"rule_type"`
		Value    *string `json:"value"`
	}{RuleType: int(r.Type)}
	if present {
		env.Value = &s
	}
	return json.Marshal(env)
}

// decodeWireValue turns a raw JSON value into a typed Value for dt.
// Native scalars (numbers, booleans) are accepted by rendering them through
// their JSON token text and parsing that as the declared type.
func decodeWireValue(dt DataType, raw json.RawMessage) Value {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		switch dt {
		case DataCorrespondent:
			return CorrespondentValue(NoRef)
		case DataDocumentType:
			return DocumentTypeValue(NoRef)
		case DataStoragePath:
			return StoragePathValue(NoRef)
		default:
			// Null where a concrete value is required: keep an empty raw
			// rather than failing the whole decode.
			return InvalidValue("")
		}
	}

	var s string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return InvalidValue(string(trimmed))
		}
	} else {
		// Native number or boolean token; its text form parses the same way
		// the string form does.
		s = string(trimmed)
	}
	return parseValue(dt, s)
}

// DecodeRules decodes a wire rule list, preserving order.
func DecodeRules(data []byte) ([]Rule, error) {
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("decode filter rules: %w", err)
	}
	return rules, nil
}

// EncodeRules encodes a rule list to the wire shape.
func EncodeRules(rules []Rule) ([]byte, error) {
	if rules == nil {
		rules = []Rule{}
	}
	return json.Marshal(rules)
}
