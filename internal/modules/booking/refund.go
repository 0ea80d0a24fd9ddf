package booking

import "time"

type Initiator string

const (
	InitiatorClient   Initiator = "client"
	InitiatorProvider Initiator = "provider"
)

// RefundDecision is the outcome of the refund policy. It carries no
// side effects; the caller performs the gateway refund when Full is
// set.
type RefundDecision struct {
	Full   bool   `json:"full"`
	Reason string `json:"reason"`
}

// EvaluateRefund maps (who cancels, lead time to the appointment) to
// a refund decision. Provider-initiated cancellations always refund
// in full; client-initiated ones refund only with at least threshold
// lead time. Exactly threshold lead time is refund-eligible.
func EvaluateRefund(initiator Initiator, leadTime, threshold time.Duration) RefundDecision {
	if initiator == InitiatorProvider {
		return RefundDecision{Full: true, Reason: "cancelled by provider"}
	}
	if leadTime >= threshold {
		return RefundDecision{Full: true, Reason: "cancelled in advance"}
	}
	return RefundDecision{Full: false, Reason: "cancelled too late"}
}
