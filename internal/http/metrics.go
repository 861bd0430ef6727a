package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monipersonal_login_attempts_total",
		Help: "Login attempts by role hint and result.",
	}, []string{"role", "result"})

	assessmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monipersonal_assessments_created_total",
		Help: "Assessments submitted by students.",
	})
)
