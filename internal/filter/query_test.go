package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/docsieve/docsieve/internal/types"
)

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		want  []QueryItem
	}{
		{
			name: "singular rules in order",
			rules: []Rule{
				mustRule(t, RuleTitle, StringValue("shantel")),
				mustRule(t, RuleAddedAfter, DateValue(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))),
			},
			want: []QueryItem{
				{Name: "title__icontains", Value: "shantel"},
				{Name: "added__date__gt", Value: "2023-01-01"},
			},
		},
		{
			name: "repeatable rules comma-joined",
			rules: []Rule{
				mustRule(t, RuleHasTagsAll, TagValue(66)),
				mustRule(t, RuleHasTagsAll, TagValue(71)),
				mustRule(t, RuleDoesNotHaveTag, TagValue(75)),
			},
			want: []QueryItem{
				{Name: "tags__id__all", Value: "66,71"},
				{Name: "tags__id__none", Value: "75"},
			},
		},
		{
			name: "group values sorted lexicographically",
			rules: []Rule{
				mustRule(t, RuleHasTagsAny, TagValue(7)),
				mustRule(t, RuleHasTagsAny, TagValue(66)),
			},
			want: []QueryItem{
				{Name: "tags__id__in", Value: "66,7"},
			},
		},
		{
			name: "boolean renders as digit",
			rules: []Rule{
				mustRule(t, RuleHasAnyTag, BooleanValue(false)),
			},
			want: []QueryItem{
				{Name: "is_tagged", Value: "0"},
			},
		},
		{
			name: "absent reference emits null parameter",
			rules: []Rule{
				mustRule(t, RuleCorrespondent, CorrespondentValue(NoRef)),
			},
			want: []QueryItem{
				{Name: "correspondent__isnull", Value: "1"},
			},
		},
		{
			name: "present reference emits id parameter",
			rules: []Rule{
				mustRule(t, RuleCorrespondent, CorrespondentValue(SomeRef(8))),
			},
			want: []QueryItem{
				{Name: "correspondent__id", Value: "8"},
			},
		},
		{
			name: "owner sentinel",
			rules: []Rule{
				mustRule(t, RuleOwnerIsnull, BooleanValue(true)),
			},
			want: []QueryItem{
				{Name: "owner__isnull", Value: "1"},
			},
		},
		{
			name: "singulars precede repeatable groups",
			rules: []Rule{
				mustRule(t, RuleHasTagsAll, TagValue(66)),
				mustRule(t, RuleTitle, StringValue("shantel")),
				mustRule(t, RuleHasTagsAll, TagValue(71)),
			},
			want: []QueryItem{
				{Name: "title__icontains", Value: "shantel"},
				{Name: "tags__id__all", Value: "66,71"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeQuery(tt.rules)
			if err != nil {
				t.Fatalf("EncodeQuery() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("EncodeQuery() = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("item %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEncodeQuery_Deterministic(t *testing.T) {
	rules := []Rule{
		mustRule(t, RuleHasTagsAny, TagValue(66)),
		mustRule(t, RuleHasTagsAny, TagValue(7)),
	}
	reversed := []Rule{rules[1], rules[0]}

	a, err := EncodeQuery(rules)
	if err != nil {
		t.Fatalf("EncodeQuery() error = %v", err)
	}
	b, err := EncodeQuery(reversed)
	if err != nil {
		t.Fatalf("EncodeQuery() error = %v", err)
	}
	if len(a) != 1 || len(b) != 1 || a[0] != b[0] {
		t.Errorf("EncodeQuery order-dependent: %+v vs %+v", a, b)
	}
}

func TestEncodeQuery_Errors(t *testing.T) {
	t.Run("unknown rule type", func(t *testing.T) {
		_, err := EncodeQuery([]Rule{{Type: RuleType(99), Value: StringValue("x")}})
		if !errors.Is(err, types.ErrUnknownRuleType) {
			t.Errorf("error = %v, want ErrUnknownRuleType", err)
		}
	})
	t.Run("repeatable without value", func(t *testing.T) {
		_, err := EncodeQuery([]Rule{{Type: RuleHasCorrespondentAny, Value: CorrespondentValue(NoRef)}})
		if err == nil {
			t.Error("error = nil, want failure for valueless repeatable rule")
		}
	})
}

func TestQueryValues(t *testing.T) {
	rules := []Rule{
		mustRule(t, RuleTitle, StringValue("shantel")),
		mustRule(t, RuleHasTagsAll, TagValue(66)),
		mustRule(t, RuleHasTagsAll, TagValue(71)),
	}
	v, err := QueryValues(rules)
	if err != nil {
		t.Fatalf("QueryValues() error = %v", err)
	}
	if got := v.Get("title__icontains"); got != "shantel" {
		t.Errorf("title__icontains = %q, want %q", got, "shantel")
	}
	if got := v.Get("tags__id__all"); got != "66,71" {
		t.Errorf("tags__id__all = %q, want %q", got, "66,71")
	}
}

func TestQueryValues_StateEndToEnd(t *testing.T) {
	s := NewState(StandardDefaults()).
		WithSearch(SearchTitle, "shantel").
		WithTags(TagFilter{Mode: TagAllOf, Include: []uint{66, 71}, Exclude: []uint{75}}).
		WithCorrespondent(IDFilter{Mode: ModeNotAssigned})

	v, err := QueryValues(s.Rules())
	if err != nil {
		t.Fatalf("QueryValues() error = %v", err)
	}
	want := map[string]string{
		"title__icontains":      "shantel",
		"tags__id__all":         "66,71",
		"tags__id__none":        "75",
		"correspondent__isnull": "1",
	}
	for name, value := range want {
		if got := v.Get(name); got != value {
			t.Errorf("%s = %q, want %q", name, got, value)
		}
	}
	if len(v) != len(want) {
		t.Errorf("got %d parameters %v, want %d", len(v), v, len(want))
	}
}
