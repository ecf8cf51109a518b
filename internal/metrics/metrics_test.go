package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuals-go/internal/model"
)

func TestCollector_RecordUpsert(t *testing.T) {
	c := NewCollector()

	c.RecordUpsert("lesson", model.Created)
	c.RecordUpsert("lesson", model.Created)
	c.RecordUpsert("lesson", model.Unchanged)
	c.RecordUpsert("group", model.Updated)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.upsertsTotal.WithLabelValues("lesson", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upsertsTotal.WithLabelValues("lesson", "unchanged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upsertsTotal.WithLabelValues("group", "updated")))
}

func TestCollector_ObserveOperation(t *testing.T) {
	c := NewCollector()
	finished := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	c.ObserveOperation("import", "error", time.Second, finished)
	assert.Equal(t, 0, testutil.CollectAndCount(c.lastSuccess), "failed runs must not set last success")

	c.ObserveOperation("import", "success", 2*time.Second, finished)
	assert.Equal(t, float64(finished.Unix()), testutil.ToFloat64(c.lastSuccess.WithLabelValues("import")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.operationDuration))
}

func TestCollector_Push(t *testing.T) {
	var gotPath, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewCollector()
	c.RecordUpsert("path", model.Created)

	require.NoError(t, c.Push(server.URL, "manuals"))
	assert.Equal(t, "/metrics/job/manuals", gotPath)
	assert.True(t, strings.Contains(gotBody, "manuals_import_upserts_total"), "pushed body should carry the upsert counter")
}

func TestCollector_PushError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewCollector()
	assert.Error(t, c.Push(server.URL, "manuals"))
}
