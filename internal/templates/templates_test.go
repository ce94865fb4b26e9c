package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/jjenkins/legreview/internal/model"
	"github.com/jjenkins/legreview/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestReview_PresentingEscapesRecord(t *testing.T) {
	out := render(t, Review(ReviewPage{
		View: service.View{
			State:    service.StatePresenting,
			Reviewer: "alice",
			Dataset:  "d2",
			Position: 2,
			Total:    4,
			Percent:  25,
			Record:   model.Record{Name: "<script>x</script>", AmendingLeg: "Bylaw Z", Link: "javascript:alert(1)"},
		},
		Datasets: []model.Dataset{{Label: "d1"}, {Label: "d2"}},
		Flash:    "saved",
	}))

	assert.Contains(t, out, "&lt;script&gt;x&lt;/script&gt;")
	assert.NotContains(t, out, "<script>x")
	assert.Contains(t, out, "Bylaw Z")
	assert.Contains(t, out, `<option value="d2" selected>`)
	assert.Contains(t, out, `action="/review/confirm"`)
	assert.Contains(t, out, "<strong>2</strong> من <strong>4</strong>")
	assert.Contains(t, out, "saved")
	assert.NotContains(t, out, `href="javascript:`)
	assert.Contains(t, out, `href="about:invalid#TemplFailedSanitizationURL"`)
}

func TestReview_EditingPrefillsEditableFields(t *testing.T) {
	out := render(t, Review(ReviewPage{
		View: service.View{
			State:  service.StateEditing,
			Record: model.Record{Name: "A", AmendingLeg: "Z \"quoted\""},
		},
	}))

	assert.Contains(t, out, `action="/review/submit"`)
	assert.Contains(t, out, `action="/review/cancel"`)
	assert.Contains(t, out, `value="Z &#34;quoted&#34;"`)
	for _, key := range model.EditableFieldKeys {
		assert.Contains(t, out, `name="`+string(key)+`"`)
	}
}

func TestReview_CompletedShowsRestart(t *testing.T) {
	out := render(t, Review(ReviewPage{
		View:   service.View{State: service.StateCompleted, VerdictCount: 3},
		Finish: "done!",
		Error:  "verdict log not saved",
	}))

	assert.Contains(t, out, `action="/review/restart"`)
	assert.Contains(t, out, "done!")
	assert.Contains(t, out, "3 قرار محفوظ")
	assert.Contains(t, out, `class="error"`)
	assert.NotContains(t, out, `action="/review/confirm"`)
}

func TestVerdictsAndLogin(t *testing.T) {
	out := render(t, Verdicts("alice", []model.Verdict{{
		Timestamp: "2026-01-01 10:00",
		Outcome:   model.OutcomeCorrected,
		Fields:    []model.Field{{Key: model.FieldName, Value: "Bylaw A"}},
	}}))
	assert.Contains(t, out, "(1)")
	assert.Contains(t, out, "Bylaw A")
	assert.Contains(t, out, "corrected")

	out = render(t, Verdicts("alice", nil))
	assert.Contains(t, out, "(0)")

	out = render(t, Login("bad credentials"))
	assert.Contains(t, out, `action="/login"`)
	assert.Contains(t, out, "bad credentials")
}

func TestFieldLabel(t *testing.T) {
	for _, key := range model.RecordFieldKeys {
		assert.NotEmpty(t, FieldLabel(key))
	}
	assert.Equal(t, "other", FieldLabel(model.FieldKey("other")))
}
