package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommendation(t *testing.T) {
	okBefore := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeOK))
	labelBefore := testutil.ToFloat64(PredictedLabelsTotal.WithLabelValues("Data Science"))
	invalidBefore := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeInvalid))

	RecordRecommendation(OutcomeOK, "Data Science", time.Millisecond)
	RecordRecommendation(OutcomeInvalid, "", time.Microsecond)

	if got := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeOK)); got != okBefore+1 {
		t.Fatalf("ok outcomes = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(PredictedLabelsTotal.WithLabelValues("Data Science")); got != labelBefore+1 {
		t.Fatalf("predicted labels = %v, want %v", got, labelBefore+1)
	}
	if got := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeInvalid)); got != invalidBefore+1 {
		t.Fatalf("invalid outcomes = %v, want %v", got, invalidBefore+1)
	}
}

func TestRecordSkippedRows(t *testing.T) {
	before := testutil.ToFloat64(TrainingRowsSkipped)

	RecordSkippedRows(0)
	RecordSkippedRows(3)

	if got := testutil.ToFloat64(TrainingRowsSkipped); got != before+3 {
		t.Fatalf("skipped rows = %v, want %v", got, before+3)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordRecommendation(OutcomeOK, "Computer Science", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"career_recommendations_total", "career_recommendation_duration_seconds", "go_goroutines"} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics output is missing %s", name)
		}
	}
}
