// Package metrics defines and registers all custom Prometheus metrics for the
// service tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry on import;
// the /metrics route exposes that registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "service_tracker"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "throttled", "unknown_user", "inactive", or "bad_password"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// BootstrapTotal counts admin bootstrap outcomes at startup.
// Label:
//   - result: "created" (account was missing), "updated" (existing account
//     repaired), or "skipped" (bootstrap not configured)
var BootstrapTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bootstrap_total",
		Help:      "Total number of admin bootstrap runs, labelled by outcome.",
	},
	[]string{"result"},
)

// ── Service log metrics ───────────────────────────────────────────────────────

// ServiceLogsCreatedTotal counts recorded service logs.
// Label:
//   - payment_type: "Cash" or "Credit"
var ServiceLogsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_logs_created_total",
		Help:      "Total number of service logs recorded, by payment type.",
	},
	[]string{"payment_type"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportQueriesTotal counts report requests by scope.
// Label:
//   - scope: "self" (user reporting on themselves), "all" (admin, everyone),
//     "user" (admin, one user), or "export" (CSV download)
var ReportQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_queries_total",
		Help:      "Total number of report queries, labelled by scope.",
	},
	[]string{"scope"},
)
