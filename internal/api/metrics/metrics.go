// Package metrics defines and registers all custom Prometheus metrics for
// the starter API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "starter"

// GeoBlockedTotal counts requests rejected by the geographic access filter.
// Label:
//   - country: the uppercased two-letter code the decision was made on
var GeoBlockedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geo_blocked_total",
		Help:      "Total number of requests blocked by the geo access filter.",
	},
	[]string{"country"},
)

// AuthVerifyTotal counts token/session verification outcomes.
// Label:
//   - result: "ok", "invalid_token", "no_session", or "error"
var AuthVerifyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_verify_total",
		Help:      "Total number of request identity verifications, by outcome.",
	},
	[]string{"result"},
)

// SettingsCacheTotal counts settings reads by cache outcome.
// Label:
//   - result: "hit" (served from cache) or "miss" (backfilled from the database)
var SettingsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settings_cache_total",
		Help:      "Total number of settings lookups, labelled by cache result.",
	},
	[]string{"result"},
)

// AvatarUploadsTotal counts avatar upload attempts.
// Label:
//   - result: "ok", "rejected" (type/size validation), or "error"
var AvatarUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "avatar_uploads_total",
		Help:      "Total number of avatar uploads, by outcome.",
	},
	[]string{"result"},
)
