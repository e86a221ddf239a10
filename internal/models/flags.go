package models

import (
	"encoding/json"
	"sort"
	"strings"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const (
	FlagHighIntent     = "high_intent"
	FlagNeedsEssayHelp = "needs_essay_help"
	FlagNotContacted7d = "not_contacted_7d"
)

// NotContactedTagDays is the silence, in days, that FlagNotContacted7d marks.
// It is fixed by the tag name and does not follow the dashboard threshold.
const NotContactedTagDays = 7

// Flags is a set of segmentation tags stored as a sorted, de-duplicated list.
// Decoding accepts a list of strings or a record of booleans; anything else
// decodes to an empty set.
type Flags []string

// NewFlags normalizes and de-duplicates tags.
func NewFlags(tags ...string) Flags {
	seen := make(map[string]struct{}, len(tags))
	out := make(Flags, 0, len(tags))
	for _, t := range tags {
		t = NormalizeFlag(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (f Flags) Has(tag string) bool {
	tag = NormalizeFlag(tag)
	for _, t := range f {
		if t == tag {
			return true
		}
	}
	return false
}

// With returns a copy of f with tag added.
func (f Flags) With(tag string) Flags {
	return NewFlags(append(append([]string{}, f...), tag)...)
}

// Without returns a copy of f with tag removed.
func (f Flags) Without(tag string) Flags {
	tag = NormalizeFlag(tag)
	out := make([]string, 0, len(f))
	for _, t := range f {
		if t != tag {
			out = append(out, t)
		}
	}
	return NewFlags(out...)
}

// NormalizeFlag converts "highIntent", "High Intent" and "high-intent" to "high_intent".
func NormalizeFlag(tag string) string {
	var b strings.Builder
	var prev rune
	sep := true
	for _, r := range strings.TrimSpace(tag) {
		switch {
		case r == '-' || r == ' ' || r == '_':
			if !sep {
				b.WriteByte('_')
				sep = true
			}
		case unicode.IsUpper(r):
			if !sep && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			sep = false
		case unicode.IsDigit(r):
			if !sep && unicode.IsLetter(prev) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			sep = false
		default:
			b.WriteRune(r)
			sep = false
		}
		prev = r
	}
	return strings.TrimSuffix(b.String(), "_")
}

func (f Flags) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(f))
}

func (f *Flags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = NewFlags(list...)
		return nil
	}

	var record map[string]interface{}
	if err := json.Unmarshal(data, &record); err == nil {
		var tags []string
		for k, v := range record {
			if b, ok := v.(bool); ok && b {
				tags = append(tags, k)
			}
		}
		*f = NewFlags(tags...)
		return nil
	}

	*f = Flags{}
	return nil
}

func (f *Flags) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	var tags []string

	switch t {
	case bsontype.Array:
		values, err := rv.Array().Values()
		if err != nil {
			break
		}
		for _, v := range values {
			if s, ok := v.StringValueOK(); ok {
				tags = append(tags, s)
			}
		}
	case bsontype.EmbeddedDocument:
		elems, err := rv.Document().Elements()
		if err != nil {
			break
		}
		for _, e := range elems {
			if b, ok := e.Value().BooleanOK(); ok && b {
				tags = append(tags, e.Key())
			}
		}
	}

	*f = NewFlags(tags...)
	return nil
}
