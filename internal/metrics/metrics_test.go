package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/LeJamon/goOracle/internal/core/oracle"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector("test")

	c.ObserveInvocation("update_price", engine.TesSUCCESS, time.Millisecond)
	c.ObserveInvocation("update_price", engine.TecNO_PERMISSION, time.Millisecond)
	c.ObserveInvocation("update_price", engine.TesSUCCESS, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.invocations.WithLabelValues("update_price", "tesSUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.invocations.WithLabelValues("update_price", "tecNO_PERMISSION")))

	comp := types.NewComponentAddress([]byte("oracle"))
	c.ObservePriceUpdate(comp, oracle.Update{})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.priceUpdates.WithLabelValues(comp.String())))

	c.RegisterLedgerCache("test", func() (uint64, uint64) { return 7, 3 })

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_engine_invocations_total{method="update_price",result="tesSUCCESS"} 2`)
	assert.Contains(t, string(body), "test_ledger_cache_hits_total 7")
}
