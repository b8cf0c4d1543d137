// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	families := make(map[string]*dto.MetricFamily)
	for _, mf := range metricFamilies {
		families[mf.GetName()] = mf
	}
	return families
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()
	require.False(t, Enabled())

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", []string{"kind"})
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", []string{"kind"})
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()
	require.True(t, Enabled())

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count := Counter("ops_total")
	countVec := CounterVec("rejections_total", []string{"op"})
	hist := Histogram("batch_entries", BucketBatchEntries)
	gauge := Gauge("epoch")
	gaugeVec := GaugeVec("operators", []string{"status"})

	count.Add(1)
	Counter("ops_total").Add(2)

	sum := 0
	for i := range 10 {
		hist.Observe(int64(i))
		countVec.AddWithLabel(1, map[string]string{"op": strconv.Itoa(i % 2)})
		sum += i
	}
	gauge.Set(7)
	gauge.Add(1)
	gaugeVec.SetWithLabel(3, map[string]string{"status": "active"})
	gaugeVec.AddWithLabel(2, map[string]string{"status": "active"})

	families := gather(t)
	require.Equal(t, float64(3), families["seqlock_ops_total"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(sum), families["seqlock_batch_entries"].Metric[0].GetHistogram().GetSampleSum())
	require.Len(t, families["seqlock_rejections_total"].Metric, 2)
	require.Equal(t, float64(8), families["seqlock_epoch"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(5), families["seqlock_operators"].Metric[0].GetGauge().GetValue())
}
