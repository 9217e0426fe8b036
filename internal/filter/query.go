// internal/filter/query.go
package filter

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/docsieve/docsieve/internal/types"
)

/*
 * Rule list -> URL query parameters.
 *
 * Repeatable rules of the same type collapse into a single comma-joined
 * parameter with the rendered values sorted lexicographically, so the same
 * rule set always produces the same parameter string. Singular rules emit
 * one parameter each: booleans as "1"/"0", everything else via the value's
 * query rendering. An absent nullable reference emits the type's NullParam
 * with value "1" instead; a singular type needing a NullParam without one
 * configured is a registry defect reported as an error (ValidateSpecs
 * catches it before any request is built).
 *
 * Output is an unordered parameter set with deterministic internal order:
 * singular parameters in rule-list order, then one parameter per repeatable
 * group in order of first appearance.
 */

// QueryItem is one name/value query parameter.
type QueryItem struct {
	Name  string
	Value string
}

// EncodeQuery serializes a flat rule list into query parameters.
func EncodeQuery(rules []Rule) ([]QueryItem, error) {
	var items []QueryItem
	var groupOrder []RuleType
	groups := make(map[RuleType][]string)

	for _, r := range rules {
		spec, ok := Spec(r.Type)
		if !ok {
			return nil, fmt.Errorf("rule_type %d: %w", int(r.Type), types.ErrUnknownRuleType)
		}

		rendered, present := r.Value.queryString()

		if spec.Repeatable {
			if !present {
				return nil, fmt.Errorf("%s: repeatable rule without value", r.Type)
			}
			if _, seen := groups[r.Type]; !seen {
				groupOrder = append(groupOrder, r.Type)
			}
			groups[r.Type] = append(groups[r.Type], rendered)
			continue
		}

		if !present {
			if spec.NullParam == "" {
				return nil, fmt.Errorf("%s: %w", r.Type, types.ErrMissingNullParam)
			}
			items = append(items, QueryItem{Name: spec.NullParam, Value: "1"})
			continue
		}
		items = append(items, QueryItem{Name: spec.QueryParam, Value: rendered})
	}

	for _, rt := range groupOrder {
		values := groups[rt]
		sort.Strings(values)
		spec, _ := Spec(rt)
		items = append(items, QueryItem{Name: spec.QueryParam, Value: strings.Join(values, ",")})
	}

	return items, nil
}

// QueryValues renders the rule list as url.Values for request building.
func QueryValues(rules []Rule) (url.Values, error) {
	items, err := EncodeQuery(rules)
	if err != nil {
		return nil, err
	}
	v := make(url.Values, len(items))
	for _, item := range items {
		v.Set(item.Name, item.Value)
	}
	return v, nil
}
