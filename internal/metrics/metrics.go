// Package metrics exposes Prometheus collectors for recommendations,
// line-break planning and the web UI.
//
// Collectors register with the default registry via promauto; the web
// server serves them at GET /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsTotal counts computed recommendations by outcome
	// ("ok" when a primary item was chosen, "empty" for an empty catalog).
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solefit_recommendations_total",
			Help: "Total number of computed recommendations",
		},
		[]string{"outcome"},
	)

	// MatchPercentage tracks the distribution of reported match percentages.
	MatchPercentage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solefit_match_percentage",
			Help:    "Reported match percentage of primary recommendations",
			Buckets: []float64{60, 65, 70, 75, 80, 85, 90, 95, 98},
		},
	)

	// LineBreakPlansTotal counts line-break plans by whether breaking was needed.
	LineBreakPlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solefit_linebreak_plans_total",
			Help: "Total number of line-break plans computed",
		},
		[]string{"optimized"},
	)

	// LineBreakCacheHitsTotal counts line-break cache hits.
	LineBreakCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solefit_linebreak_cache_hits_total",
			Help: "Total number of line-break cache hits",
		},
	)

	// LineBreakCacheMissesTotal counts line-break cache misses.
	LineBreakCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solefit_linebreak_cache_misses_total",
			Help: "Total number of line-break cache misses",
		},
	)

	// HTTPRequestsTotal counts web UI requests by route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solefit_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "code"},
	)

	// RateLimitedTotal counts requests rejected by the web rate limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solefit_rate_limited_total",
			Help: "Total number of requests rejected by rate limiting",
		},
	)
)

// RecordRecommendation records a computed recommendation.
func RecordRecommendation(hasPrimary bool, matchPercentage int) {
	if !hasPrimary {
		RecommendationsTotal.WithLabelValues("empty").Inc()
		return
	}
	RecommendationsTotal.WithLabelValues("ok").Inc()
	MatchPercentage.Observe(float64(matchPercentage))
}

// RecordLineBreakPlan records a computed (uncached) line-break plan.
func RecordLineBreakPlan(optimized bool) {
	LineBreakPlansTotal.WithLabelValues(strconv.FormatBool(optimized)).Inc()
}

// RecordLineBreakCache records a cache lookup.
func RecordLineBreakCache(hit bool) {
	if hit {
		LineBreakCacheHitsTotal.Inc()
		return
	}
	LineBreakCacheMissesTotal.Inc()
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(route string, code int) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// RecordRateLimited records a rate-limited request.
func RecordRateLimited() {
	RateLimitedTotal.Inc()
}
