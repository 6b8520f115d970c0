package metrics

import "github.com/prometheus/client_golang/prometheus"

// Product admission decisions.
const (
	AdmissionAllowed   = "allowed"
	AdmissionPlanLimit = "plan_limit"
	AdmissionLockBusy  = "lock_busy"
)

// AdmissionMetrics counts product admission decisions by shop tier.
type AdmissionMetrics struct {
	decisions *prometheus.CounterVec
}

// NewAdmissionMetrics registers the admission counter on the provided registerer.
func NewAdmissionMetrics(reg prometheus.Registerer) *AdmissionMetrics {
	if reg == nil {
		return &AdmissionMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_admission_total",
		Help:      "Add-product admission decisions by tier and outcome.",
	}, []string{"tier", "decision"})
	reg.MustRegister(decisions)
	return &AdmissionMetrics{decisions: decisions}
}

// Inc records one admission decision.
func (a *AdmissionMetrics) Inc(tier, decision string) {
	if a == nil || a.decisions == nil {
		return
	}
	a.decisions.WithLabelValues(normalizeLabel(tier), normalizeLabel(decision)).Inc()
}
