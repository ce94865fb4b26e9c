package model

// Outcome tags a reviewer decision
type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeCorrected Outcome = "corrected"
)

// Valid reports whether o is a known outcome tag
func (o Outcome) Valid() bool {
	return o == OutcomeAccepted || o == OutcomeCorrected
}

// Verdict column names, written before the record field columns
const (
	ColumnTimestamp = "تاريخ"
	ColumnReviewer  = "المستخدم"
	ColumnDataset   = "النوع"
	ColumnOutcome   = "الحالة"
)

// VerdictTimeLayout is the timestamp format stored with each verdict
const VerdictTimeLayout = "2006-01-02 15:04"

// Verdict is one recorded reviewer decision. Fields holds the non-empty
// record fields at decision time, corrections included.
type Verdict struct {
	Timestamp string
	Reviewer  string
	Dataset   string
	Outcome   Outcome
	Fields    []Field
}

// Value returns the snapshot value for key, or "" if the field was empty
func (v Verdict) Value(key FieldKey) string {
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// VerdictHeader returns the column header of the verdict table
func VerdictHeader() []string {
	header := []string{ColumnTimestamp, ColumnReviewer, ColumnDataset, ColumnOutcome}
	for _, key := range RecordFieldKeys {
		header = append(header, string(key))
	}
	return header
}

// Row returns the verdict as cells in VerdictHeader order
func (v Verdict) Row() []string {
	row := []string{v.Timestamp, v.Reviewer, v.Dataset, string(v.Outcome)}
	for _, key := range RecordFieldKeys {
		row = append(row, v.Value(key))
	}
	return row
}
