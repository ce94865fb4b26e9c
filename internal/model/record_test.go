package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_WithKeepsUneditedFields(t *testing.T) {
	original := Record{
		Name:        "Bylaw A",
		Number:      "7",
		Year:        "2011",
		AmendingLeg: "Bylaw Z",
	}

	edited := original.With(map[FieldKey]string{
		FieldAmendingNumber: "15",
		FieldKey("bogus"):   "ignored",
	})

	assert.Equal(t, "15", edited.AmendingNumber)
	assert.Equal(t, "Bylaw A", edited.Name)
	assert.Equal(t, "7", edited.Number)
	assert.Equal(t, "2011", edited.Year)
	assert.Equal(t, "Bylaw Z", edited.AmendingLeg)
	assert.Empty(t, original.AmendingNumber, "original must not change")
}

func TestRecord_NonEmptyFieldsCanonicalOrder(t *testing.T) {
	r := Record{Link: "http://x", Name: "A", GazettePage: "12"}

	assert.Equal(t, []Field{
		{Key: FieldName, Value: "A"},
		{Key: FieldGazettePage, Value: "12"},
		{Key: FieldLink, Value: "http://x"},
	}, r.NonEmptyFields())
	assert.Len(t, r.Fields(), len(RecordFieldKeys))
}

func TestRecord_GetEveryKeyRoundTrips(t *testing.T) {
	var r Record
	overrides := make(map[FieldKey]string)
	for _, key := range RecordFieldKeys {
		overrides[key] = string(key) + "-value"
	}

	r = r.With(overrides)

	for _, key := range RecordFieldKeys {
		assert.Equal(t, string(key)+"-value", r.Get(key), key)
	}
	assert.Empty(t, r.Get(FieldKey("unknown")))
}

func TestCursor_Advance(t *testing.T) {
	c := Cursor{Current: 2, MaxReached: 5}.Advance()
	assert.Equal(t, Cursor{Current: 3, MaxReached: 5}, c)

	c = Cursor{Current: 5, MaxReached: 5}.Advance()
	assert.Equal(t, Cursor{Current: 6, MaxReached: 6}, c)

	assert.True(t, Cursor{Current: 3}.Done(3))
	assert.False(t, Cursor{Current: 2}.Done(3))
	assert.True(t, Cursor{}.Done(0))
}

func TestVerdictHeader(t *testing.T) {
	header := VerdictHeader()
	assert.Equal(t, []string{ColumnTimestamp, ColumnReviewer, ColumnDataset, ColumnOutcome}, header[:4])
	assert.Len(t, header, 4+len(RecordFieldKeys))
	assert.True(t, OutcomeAccepted.Valid())
	assert.False(t, Outcome("maybe").Valid())
}
