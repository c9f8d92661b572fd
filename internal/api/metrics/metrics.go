// Package metrics defines and registers all custom Prometheus metrics for the
// account service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "account"

// RegistrationsTotal counts created accounts.
// Label:
//   - role: "seller" or "customer"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ProfileUpdatesTotal counts profile update requests.
// Label:
//   - result: "success" or "failure" (validation, conflict, or store error)
var ProfileUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_updates_total",
		Help:      "Total number of profile update requests, by result.",
	},
	[]string{"result"},
)

// PasswordChangesTotal counts password change requests.
// Label:
//   - result: "success" or "failure" (policy violation, wrong current password, throttled)
var PasswordChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_changes_total",
		Help:      "Total number of password change requests, by result.",
	},
	[]string{"result"},
)

// AccountDeletionsTotal counts committed account deletions. Dependent-record
// cleanup happens after the primary delete and does not affect this counter.
var AccountDeletionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deletions_total",
		Help:      "Total number of accounts deleted.",
	},
)

// DependentRecordsPurgedTotal counts dependent records removed by the cleanup
// phase of account deletion.
// Label:
//   - collection: "refresh_tokens" or "otps"
var DependentRecordsPurgedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dependent_records_purged_total",
		Help:      "Total number of dependent records purged on account deletion, by collection.",
	},
	[]string{"collection"},
)

// ValidationFailuresTotal counts field-level violations returned to clients.
// Label:
//   - field: the rejected field name ("username", "email", ...)
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of field validation failures returned to clients, by field.",
	},
	[]string{"field"},
)
