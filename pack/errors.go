package pack

import "github.com/epistemic/pack/refusal"

// RefusalError wraps a refusal.Envelope so callers can distinguish "the
// operation declined to proceed" (exit intent 2, spec.md §7 layer 1) from
// an ordinary Go error.
type RefusalError struct {
	Envelope refusal.Envelope
}

func (e *RefusalError) Error() string {
	return e.Envelope.Refusal.Message
}

func refuse(schemaVersion string, code refusal.Code, message string, detail *refusal.Detail) error {
	return &RefusalError{Envelope: refusal.New(schemaVersion, code, message, detail)}
}
