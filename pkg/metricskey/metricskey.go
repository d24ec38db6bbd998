package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsTrackingQueriesSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tracking_queries_succeeded",
		Help:         "stats_tracking_queries_succeeded provides total tracking queries succeeded",
		RequiredTags: []string{"com"},
	}

	StatsTrackingQueriesFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tracking_queries_failed",
		Help:         "stats_tracking_queries_failed provides total tracking queries failed",
		RequiredTags: []string{"com"},
	}

	StatsTrackingCacheHits = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tracking_cache_hits",
		Help:         "stats_tracking_cache_hits provides total tracking results served from cache",
		RequiredTags: []string{"com"},
	}

	StatsPriceComparisons = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_price_comparisons",
		Help:         "stats_price_comparisons provides total price comparisons",
		RequiredTags: []string{"format"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfTrackingQuery = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tracking_query",
		Help:         "perf_tracking_query provides duration of tracking API call",
		RequiredTags: []string{"com"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfToolCall,
	&PerfTrackingQuery,
	&StatsPriceComparisons,
	&StatsToolCallsFailed,
	&StatsToolCallsSucceeded,
	&StatsTrackingCacheHits,
	&StatsTrackingQueriesFailed,
	&StatsTrackingQueriesSucceeded,
}
