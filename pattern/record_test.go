package pattern

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		kind  Kind
		title string
		grid  bool
	}{
		{
			name:  "tagged beat",
			doc:   `{"kind":"beat","id":"1","title":"Mine","tempo":100,"data":{"grid":[[true]]},"isCustom":true}`,
			kind:  KindBeat,
			title: "Mine",
			grid:  true,
		},
		{
			name:  "tagged lesson",
			doc:   `{"kind":"lesson","id":"2","title":"Rock","difficulty":"beginner","data":{"grid":[[false]]}}`,
			kind:  KindLesson,
			title: "Rock",
			grid:  true,
		},
		{
			name:  "untagged with difficulty",
			doc:   `{"id":"3","title":"Funk","difficulty":"advanced","tempo":110,"data":{"grid":[[true]]}}`,
			kind:  KindLesson,
			title: "Funk",
			grid:  true,
		},
		{
			name:  "untagged without difficulty",
			doc:   `{"id":"4","title":"Saved","tempo":90,"data":{}}`,
			kind:  KindBeat,
			title: "Saved",
		},
		{
			name:  "empty difficulty is a beat",
			doc:   `{"id":"5","title":"Odd","difficulty":""}`,
			kind:  KindBeat,
			title: "Odd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeRecord([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.title, r.Title())
			assert.Equal(t, tt.grid, r.Grid() != nil)
		})
	}
}

func TestDecodeRecordErrors(t *testing.T) {
	_, err := DecodeRecord([]byte(`{"kind":"song"}`))
	assert.Error(t, err)
	_, err = DecodeRecord([]byte(`not json`))
	assert.Error(t, err)
}

func TestRecordJSONCarriesKind(t *testing.T) {
	r := FromLesson(Lesson{ID: "l1", Title: "Shuffle", Difficulty: Intermediate, Tempo: 90})
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"lesson"`)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, KindLesson, back.Kind)
	assert.Equal(t, "l1", back.ID())
	assert.Equal(t, 90, back.Tempo())
}

func TestEmptyRecordAccessors(t *testing.T) {
	var r Record
	assert.Nil(t, r.Grid())
	assert.Zero(t, r.Tempo())
	assert.Empty(t, r.Title())
	assert.Empty(t, r.ID())
	_, err := json.Marshal(r)
	assert.Error(t, err)
}

func TestDifficultyRank(t *testing.T) {
	assert.Less(t, Beginner.Rank(), Intermediate.Rank())
	assert.Less(t, Intermediate.Rank(), Advanced.Rank())
	assert.Less(t, Advanced.Rank(), Difficulty("expert").Rank())
}
