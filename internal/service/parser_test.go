package service

import (
	"testing"

	"github.com/jjenkins/legreview/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublication(t *testing.T) {
	tests := []struct {
		name               string
		value              string
		number, page, date string
	}{
		{"three parts", "12 - ص 45 - 2010-05-01", "12", "45", "2010-05-01"},
		{"extra parts ignored", "12 - ص 45 - 2010 - x", "12", "45", "2010"},
		{"two parts", "7 - ص 3", "7", "3", "—"},
		{"page without prefix", "7 - 3 - d", "7", "3", "d"},
		{"single part", "7", "—", "—", "—"},
		{"empty", "", "—", "—", "—"},
		{"hyphen without spaces", "12-45-2010", "—", "—", "—"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, page, date := ParsePublication(tt.value)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.date, date)
		})
	}
}

func TestDatasetParser_Composite(t *testing.T) {
	content := "\uFEFF" + `[
		{"Leg_Name": " Bylaw A ", "Leg_Number": 12, "Year": 2010,
		 "Publication": "101 - ص 5 - 2010-02-03", "Replaced_By": "Bylaw Z", "Link": "http://a"},
		{"اسم القانون": "Bylaw B", "الرقم": "3", "الجريدة الرسمية": "202 - ص 9",
		 "Replaced_By": "", "ModifiedLeg": "Bylaw Y"},
		{"Leg_Name": "Bylaw C", "Replaced_By": null}
	]`

	records, err := NewDatasetParser().Parse([]byte(content), model.VariantComposite)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, model.Record{
		Name:          "Bylaw A",
		Number:        "12",
		Year:          "2010",
		Publication:   "101 - ص 5 - 2010-02-03",
		AmendingLeg:   "Bylaw Z",
		GazetteNumber: "101",
		GazettePage:   "5",
		GazetteDate:   "2010-02-03",
		Link:          "http://a",
	}, records[0])

	assert.Equal(t, "Bylaw B", records[1].Name)
	assert.Equal(t, "Bylaw Y", records[1].AmendingLeg, "empty Replaced_By falls through to ModifiedLeg")
	assert.Equal(t, "—", records[1].GazetteDate)

	c := records[2]
	assert.Equal(t, "Bylaw C", c.Name)
	assert.Empty(t, c.Number)
	assert.Empty(t, c.Year)
	assert.Empty(t, c.Publication)
	assert.Empty(t, c.AmendingLeg)
	assert.Empty(t, c.Link)
	assert.Equal(t, "—", c.GazetteNumber)
}

func TestDatasetParser_Split(t *testing.T) {
	content := `[
		{"Leg_Name": "Bylaw A", "Gazette_Number": "55", "Gazette_Page": "ص 4",
		 "Gazette_Date": "2001-01-01", "Replaced_By": "ignored"},
		{"Leg_Name": "Bylaw B"}
	]`

	records, err := NewDatasetParser().Parse([]byte(content), model.VariantSplit)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "55", records[0].GazetteNumber)
	assert.Equal(t, "ص 4", records[0].GazettePage, "split files are taken as given")
	assert.Equal(t, "2001-01-01", records[0].GazetteDate)
	assert.Empty(t, records[0].AmendingLeg, "split variant never carries amending legislation")

	assert.Empty(t, records[1].GazetteNumber)
	assert.Empty(t, records[1].GazettePage)
	assert.Empty(t, records[1].GazetteDate)
}

func TestDatasetParser_LengthMatchesInput(t *testing.T) {
	content := `[{"Leg_Name":"a"},{"Leg_Name":"b"},{"Leg_Name":"c"},{"Leg_Name":"d"}]`

	for _, variant := range []model.Variant{model.VariantComposite, model.VariantSplit} {
		records, err := NewDatasetParser().Parse([]byte(content), variant)
		require.NoError(t, err)
		assert.Len(t, records, 4)
		for i, r := range records {
			assert.Equal(t, string(rune('a'+i)), r.Name, "order preserved")
		}
	}
}

func TestDatasetParser_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		variant model.Variant
	}{
		{"not json", `{{`, model.VariantComposite},
		{"object instead of list", `{"Leg_Name": "a"}`, model.VariantComposite},
		{"empty list", `[]`, model.VariantComposite},
		{"null", `null`, model.VariantSplit},
		{"item not an object", `[{"Leg_Name": "a"}, 3]`, model.VariantComposite},
		{"missing name", `[{"Leg_Number": "1"}]`, model.VariantComposite},
		{"nested value", `[{"Leg_Name": {"x": 1}}]`, model.VariantSplit},
		{"unknown variant", `[{"Leg_Name": "a"}]`, model.Variant("csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := NewDatasetParser().Parse([]byte(tt.content), tt.variant)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDataset)
			assert.Nil(t, records)
		})
	}
}
