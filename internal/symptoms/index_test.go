package symptoms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []Entry{
	{Condition: "Influenza", Symptoms: "1. Fever 2. Cough 3. Muscle aches 4. Fatigue"},
	{Condition: "Migraine", Symptoms: "1. Throbbing headache 2. Nausea 3. Sensitivity to light"},
	{Condition: "Asthma", Symptoms: "1. Shortness of breath 2. Wheezing 3. Cough at night"},
}

func TestTopK_RanksByOverlap(t *testing.T) {
	idx := NewIndex(sample)
	require.Equal(t, 3, idx.Len())

	got := idx.TopK("I had a throbbing headache and some nausea today", 2)
	require.NotEmpty(t, got)
	assert.Equal(t, "Migraine", got[0].Entry.Condition)
	assert.Greater(t, got[0].Score, 0.0)
}

func TestTopK_SharedTokenReturnsBoth(t *testing.T) {
	got := NewIndex(sample).TopK("cough", 5)
	require.Len(t, got, 2)
	conds := []string{got[0].Entry.Condition, got[1].Entry.Condition}
	assert.ElementsMatch(t, []string{"Influenza", "Asthma"}, conds)
}

func TestTopK_EmptyInputs(t *testing.T) {
	idx := NewIndex(sample)
	assert.Nil(t, idx.TopK("   ", 3))
	assert.Nil(t, idx.TopK("the and of", 3), "stop words only")
	assert.Nil(t, idx.TopK("zebra", 3))
	assert.Nil(t, NewIndex(nil).TopK("fever", 3))
}

func TestTopK_DefaultK(t *testing.T) {
	entries := []Entry{
		{Condition: "A", Symptoms: "pain"}, {Condition: "B", Symptoms: "pain"},
		{Condition: "C", Symptoms: "pain"}, {Condition: "D", Symptoms: "pain"},
	}
	got := NewIndex(entries).TopK("pain", 0)
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Entry.Condition, "ties break by condition name")
}

func TestOptions(t *testing.T) {
	idx := NewIndex(sample, WithMaxEntries(1))
	assert.Equal(t, 1, idx.Len())

	idx = NewIndex([]Entry{{Condition: "X", Symptoms: "the"}}, WithStopwords(nil))
	assert.Len(t, idx.TopK("the", 1), 1, "stop words disabled")

	idx = NewIndex([]Entry{{Condition: "  ", Symptoms: "fever"}})
	assert.Equal(t, 0, idx.Len(), "entries without a name are skipped")
}
