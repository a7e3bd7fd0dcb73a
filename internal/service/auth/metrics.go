package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_operations_total",
			Help: "Total auth operations by outcome",
		},
		[]string{"operation", "result"},
	)

	authHashDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_hash_duration_seconds",
			Help:    "Time spent computing bcrypt digests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
	)

	authSMSDeliveryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sms_delivery_total",
			Help: "Total recovery code SMS deliveries by status",
		},
		[]string{"status"},
	)
)

const (
	opRegister = "register"
	opLogin    = "login"
	opForgot   = "forgot_password"
	opReset    = "reset_password"

	resultSuccess = "success"
	resultFailure = "failure"
	resultError   = "error"
)

func recordOperation(operation, result string) {
	authOperationsTotal.WithLabelValues(operation, result).Inc()
}
