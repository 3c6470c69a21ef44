package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordFetch(t *testing.T) {
	c := NewCollector()
	c.RecordFetch("listing", true, 120*time.Millisecond)
	c.RecordFetch("listing", false, time.Second)
	c.RecordFetch("listing", true, 80*time.Millisecond)

	if got := testutil.ToFloat64(c.fetches.WithLabelValues("listing", "success")); got != 2 {
		t.Errorf("success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.fetches.WithLabelValues("listing", "failure")); got != 1 {
		t.Errorf("failure count = %v, want 1", got)
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector()
	c.RecordCarsFound("search", 3)
	c.RecordNotification("telegram", false)

	path := filepath.Join(t.TempDir(), "alerts.prom")
	if err := c.WriteTextfile(path, time.Unix(1760000000, 0)); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`alerts_cars_found{tracker="search"} 3`,
		`alerts_notification_total{channel="telegram",result="failure"} 1`,
		"alerts_last_run_timestamp_seconds ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}
