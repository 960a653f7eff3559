// Package domain models the admin access decision for console requests.
package domain

import "errors"

// ErrAlreadyResolved is returned when a settled gate is resolved again.
var ErrAlreadyResolved = errors.New("access gate already resolved")

// State is the position of a Gate. Only Unknown may move, and only once.
type State int

const (
	StateUnknown State = iota
	StateAdmitted
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateAdmitted:
		return "admitted"
	case StateDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Reason explains a denial.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNoSession    Reason = "no_session"
	ReasonNotAdmin     Reason = "not_admin"
	ReasonLookupFailed Reason = "lookup_failed"
)

// Decision is the outcome of resolving a gate.
type Decision struct {
	State      State
	Reason     Reason
	CustomerID string
	SessionID  string
}

// Admit grants access to an administrator session.
func Admit(customerID, sessionID string) Decision {
	return Decision{State: StateAdmitted, CustomerID: customerID, SessionID: sessionID}
}

// Deny refuses access. customerID may be empty when no session was presented.
func Deny(reason Reason, customerID string) Decision {
	return Decision{State: StateDenied, Reason: reason, CustomerID: customerID}
}

func (d Decision) Admitted() bool {
	return d.State == StateAdmitted
}

// Gate holds the access state of a single request. Nothing protected may be
// served while the gate is Unknown.
type Gate struct {
	decision Decision
}

func (g *Gate) State() State {
	return g.decision.State
}

func (g *Gate) Decision() Decision {
	return g.decision
}

// Settle moves an Unknown gate to the decision's state. A decision that is
// itself Unknown leaves the gate unresolved and is treated as a denial.
func (g *Gate) Settle(d Decision) error {
	if g.decision.State != StateUnknown {
		return ErrAlreadyResolved
	}
	if d.State == StateUnknown {
		d = Deny(ReasonLookupFailed, d.CustomerID)
	}
	g.decision = d
	return nil
}
