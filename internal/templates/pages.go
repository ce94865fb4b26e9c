// Package templates holds the templ components of the review pages. Run
// `templ generate` after editing a .templ file.
package templates

import (
	"fmt"

	"github.com/jjenkins/legreview/internal/model"
	"github.com/jjenkins/legreview/internal/service"
)

// ReviewPage is everything the review screen shows
type ReviewPage struct {
	View     service.View
	Datasets []model.Dataset
	Flash    string
	Error    string
	Finish   string
}

// fieldLabels are the display names of record fields
var fieldLabels = map[model.FieldKey]string{
	model.FieldName:            "اسم القانون",
	model.FieldNumber:          "الرقم",
	model.FieldYear:            "السنة",
	model.FieldPublication:     "الجريدة الرسمية",
	model.FieldAmendingLeg:     "التشريع المعدل",
	model.FieldGazetteNumber:   "رقم الجريدة",
	model.FieldGazettePage:     "الصفحة",
	model.FieldGazetteDate:     "تاريخ الجريدة",
	model.FieldAmendingNumber:  "رقم التشريع المعدل",
	model.FieldAmendingYear:    "سنة التشريع المعدل",
	model.FieldAmendingGazette: "جريدة التشريع المعدل",
	model.FieldAmendingPage:    "صفحة التشريع المعدل",
	model.FieldAmendingDate:    "تاريخ التشريع المعدل",
	model.FieldLink:            "الرابط",
}

// FieldLabel returns the display name of a field key
func FieldLabel(key model.FieldKey) string {
	if label, ok := fieldLabels[key]; ok {
		return label
	}
	return string(key)
}

func percentText(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

// shownFields are the record fields listed under the record title
func shownFields(r model.Record) []model.Field {
	var fields []model.Field
	for _, f := range r.NonEmptyFields() {
		if f.Key != model.FieldName {
			fields = append(fields, f)
		}
	}
	return fields
}
