package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveSubmit("saved")
	m.ObserveSubmit("saved")
	m.ObserveSubmit("invalid")
	m.ObserveClear("cleared")
	m.ObserveDeleted(3)
	m.ObserveDeleted(0)
	m.ObserveRender()
	m.ObserveStorageError("append")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues("saved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Clears.WithLabelValues("cleared")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Deleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageErrors.WithLabelValues("append")))
}

func TestSeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveRender()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Renders))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Renders))
}

func TestGatherExposition(t *testing.T) {
	m := New()
	m.ObserveDeleted(2)

	expected := `
# HELP signup_records_deleted_total Records removed, individually or by delete-all.
# TYPE signup_records_deleted_total counter
signup_records_deleted_total 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "signup_records_deleted_total"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveSubmit("empty_form")

	path := filepath.Join(t.TempDir(), "signup.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `signup_submissions_total{outcome="empty_form"} 1`)
}

func TestWriteTextfile_BadDir(t *testing.T) {
	m := New()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "signup.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics")
}
