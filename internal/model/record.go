package model

// FieldKey names a record field. Keys double as column names in the
// persisted verdict table, so they must stay stable.
type FieldKey string

const (
	FieldName        FieldKey = "اسم القانون"
	FieldNumber      FieldKey = "الرقم"
	FieldYear        FieldKey = "السنة"
	FieldPublication FieldKey = "الجريدة الرسمية"
	FieldAmendingLeg FieldKey = "ModifiedLeg"

	FieldGazetteNumber FieldKey = "magazine_number"
	FieldGazettePage   FieldKey = "magazine_page"
	FieldGazetteDate   FieldKey = "magazine_date"

	FieldAmendingNumber  FieldKey = "ModifiedLeg_رقم"
	FieldAmendingYear    FieldKey = "ModifiedLeg_سنة"
	FieldAmendingGazette FieldKey = "ModifiedLeg_جريدة"
	FieldAmendingPage    FieldKey = "ModifiedLeg_صفحة"
	FieldAmendingDate    FieldKey = "ModifiedLeg_تاريخ"

	FieldLink FieldKey = "الرابط"
)

// RecordFieldKeys lists every record field in canonical column order
var RecordFieldKeys = []FieldKey{
	FieldName,
	FieldNumber,
	FieldYear,
	FieldPublication,
	FieldAmendingLeg,
	FieldGazetteNumber,
	FieldGazettePage,
	FieldGazetteDate,
	FieldAmendingNumber,
	FieldAmendingYear,
	FieldAmendingGazette,
	FieldAmendingPage,
	FieldAmendingDate,
	FieldLink,
}

// EditableFieldKeys are the fields a reviewer may override when correcting a record
var EditableFieldKeys = []FieldKey{
	FieldAmendingLeg,
	FieldAmendingNumber,
	FieldAmendingYear,
	FieldAmendingGazette,
	FieldAmendingPage,
	FieldAmendingDate,
	FieldGazetteNumber,
	FieldGazettePage,
	FieldGazetteDate,
}

// IsRecordField reports whether key names a record field
func IsRecordField(key FieldKey) bool {
	for _, k := range RecordFieldKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Record is one legislative record loaded from a dataset file.
// Its identity is its position in the loaded sequence.
type Record struct {
	Name        string
	Number      string
	Year        string
	Publication string
	AmendingLeg string

	GazetteNumber string
	GazettePage   string
	GazetteDate   string

	AmendingNumber  string
	AmendingYear    string
	AmendingGazette string
	AmendingPage    string
	AmendingDate    string

	Link string
}

// Field is a single key/value pair of a record snapshot
type Field struct {
	Key   FieldKey
	Value string
}

// Get returns the value stored under key, or "" for unknown keys
func (r Record) Get(key FieldKey) string {
	if p := r.field(key); p != nil {
		return *p
	}
	return ""
}

// With returns a copy of r with the given overrides applied.
// Keys that are not record fields are ignored.
func (r Record) With(overrides map[FieldKey]string) Record {
	out := r
	for key, value := range overrides {
		if p := out.field(key); p != nil {
			*p = value
		}
	}
	return out
}

// Fields returns every field in canonical order, including empty ones
func (r Record) Fields() []Field {
	fields := make([]Field, 0, len(RecordFieldKeys))
	for _, key := range RecordFieldKeys {
		fields = append(fields, Field{Key: key, Value: r.Get(key)})
	}
	return fields
}

// NonEmptyFields returns the fields that carry a value, in canonical order
func (r Record) NonEmptyFields() []Field {
	var fields []Field
	for _, f := range r.Fields() {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func (r *Record) field(key FieldKey) *string {
	switch key {
	case FieldName:
		return &r.Name
	case FieldNumber:
		return &r.Number
	case FieldYear:
		return &r.Year
	case FieldPublication:
		return &r.Publication
	case FieldAmendingLeg:
		return &r.AmendingLeg
	case FieldGazetteNumber:
		return &r.GazetteNumber
	case FieldGazettePage:
		return &r.GazettePage
	case FieldGazetteDate:
		return &r.GazetteDate
	case FieldAmendingNumber:
		return &r.AmendingNumber
	case FieldAmendingYear:
		return &r.AmendingYear
	case FieldAmendingGazette:
		return &r.AmendingGazette
	case FieldAmendingPage:
		return &r.AmendingPage
	case FieldAmendingDate:
		return &r.AmendingDate
	case FieldLink:
		return &r.Link
	}
	return nil
}
