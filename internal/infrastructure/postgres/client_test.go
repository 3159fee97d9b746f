package postgres

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPoolCollector(t *testing.T) {
	collector := newPoolCollector(func() Stats {
		return Stats{
			AcquireCount:  42,
			AcquiredConns: 3,
			IdleConns:     5,
			TotalConns:    8,
			MaxConns:      20,
		}
	})

	if got := testutil.CollectAndCount(collector); got != 7 {
		t.Fatalf("CollectAndCount() = %d, want 7", got)
	}

	expected := `
# HELP catalog_db_pool_connections Pool connections by state
# TYPE catalog_db_pool_connections gauge
catalog_db_pool_connections{state="acquired"} 3
catalog_db_pool_connections{state="idle"} 5
catalog_db_pool_connections{state="total"} 8
# HELP catalog_db_pool_acquires_total Successful connection acquires
# TYPE catalog_db_pool_acquires_total counter
catalog_db_pool_acquires_total 42
`
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"catalog_db_pool_connections", "catalog_db_pool_acquires_total")
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}
