package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kitbuilder587/bing-search/pkg/search/bing"
)

var _ bing.Recorder = (*Metrics)(nil)

func TestRecordSearch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordSearch("web", bing.OutcomeOK, 120*time.Millisecond)
	m.RecordSearch("web", bing.OutcomeOK, 80*time.Millisecond)
	m.RecordSearch("images", bing.OutcomeStatusError, time.Second)

	if got := testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues("web", bing.OutcomeOK)); got != 2 {
		t.Errorf("web/ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues("images", bing.OutcomeStatusError)); got != 1 {
		t.Errorf("images/status_error = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.SearchRequestDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	// registering twice on distinct registries must not panic
	New(nil)
	New(nil)
}

func TestHandler(t *testing.T) {
	m := New(nil)
	m.RecordSearch("news", bing.OutcomeTransportError, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `bing_search_requests_total{outcome="transport_error",vertical="news"} 1`) {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}

func TestWriteText(t *testing.T) {
	m := New(nil)
	m.RecordSearch("web", bing.OutcomeOK, 10*time.Millisecond)

	var b strings.Builder
	if err := m.WriteText(&b); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"# TYPE bing_search_requests_total counter",
		`bing_search_requests_total{outcome="ok",vertical="web"} 1`,
		`bing_search_request_duration_seconds_count{vertical="web"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteText() missing %q:\n%s", want, out)
		}
	}
}
