package stub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authstub"

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

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "success" or "failure"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokensRevokedTotal counts access tokens revoked at logout.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of access tokens revoked via logout.",
	},
)

// TokenRejectionsTotal counts bearer tokens the auth middleware turned away.
// Label:
//   - reason: "missing", "malformed", "invalid", or "revoked"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of bearer tokens rejected by the auth middleware, by reason.",
	},
	[]string{"reason"},
)
