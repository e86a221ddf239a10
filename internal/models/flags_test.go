package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizeFlag(t *testing.T) {
	cases := map[string]string{
		"highIntent":       "high_intent",
		"needsEssayHelp":   "needs_essay_help",
		"notContacted7d":   "not_contacted_7d",
		"High Intent":      "high_intent",
		"needs-essay-help": "needs_essay_help",
		"  high_intent  ":  "high_intent",
		"HIGH":             "high",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeFlag(in), "input %q", in)
	}
}

func TestFlags_SetOperations(t *testing.T) {
	f := NewFlags("highIntent", "high_intent", "needs_essay_help")
	assert.Equal(t, Flags{"high_intent", "needs_essay_help"}, f)
	assert.True(t, f.Has("highIntent"))
	assert.False(t, f.Has(FlagNotContacted7d))

	added := f.With(FlagNotContacted7d)
	assert.True(t, added.Has(FlagNotContacted7d))
	assert.False(t, f.Has(FlagNotContacted7d), "With must not mutate the receiver")

	removed := added.Without("highIntent")
	assert.Equal(t, Flags{"needs_essay_help", "not_contacted_7d"}, removed)
}

func TestFlags_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Flags
	}{
		{"tag list", `["high_intent","needs_essay_help"]`, Flags{"high_intent", "needs_essay_help"}},
		{"boolean record", `{"highIntent":true,"notContacted7d":false,"needsEssayHelp":true}`, Flags{"high_intent", "needs_essay_help"}},
		{"null", `null`, Flags{}},
		{"number", `42`, Flags{}},
		{"mixed record", `{"highIntent":"yes"}`, Flags{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f Flags
			require.NoError(t, json.Unmarshal([]byte(tc.in), &f))
			assert.Equal(t, tc.want, f)
		})
	}
}

func TestFlags_MarshalJSONNil(t *testing.T) {
	data, err := json.Marshal(Student{ID: "stu_1"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"flags":[]`)
}

func TestFlags_UnmarshalBSON(t *testing.T) {
	decode := func(t *testing.T, doc bson.M) Flags {
		raw, err := bson.Marshal(doc)
		require.NoError(t, err)
		var s Student
		require.NoError(t, bson.Unmarshal(raw, &s))
		return s.Flags
	}

	assert.Equal(t, Flags{"high_intent"}, decode(t, bson.M{"_id": "a", "flags": bson.A{"high_intent", 3}}))
	assert.Equal(t, Flags{"needs_essay_help"}, decode(t, bson.M{"_id": "b", "flags": bson.M{"needsEssayHelp": true, "highIntent": false}}))
	assert.Empty(t, decode(t, bson.M{"_id": "c", "flags": "high_intent"}))
	assert.Empty(t, decode(t, bson.M{"_id": "d"}))
}

func TestStatus_Progress(t *testing.T) {
	assert.Equal(t, 0.25, StatusExploring.Progress())
	assert.Equal(t, 1.0, StatusSubmitted.Progress())
	assert.Equal(t, 0.0, Status("Enrolled").Progress())
	assert.False(t, Status("Enrolled").Valid())
}
