package entities

import "time"

// CallbackSelector names the lifecycle transition an oracle fulfillment
// applies. Stored with the pending request so fulfillment needs no
// business knowledge of its own.
type CallbackSelector string

const (
	CallbackMakerActivate CallbackSelector = "MAKER_ACTIVATE"
	CallbackOrderAudit    CallbackSelector = "ORDER_AUDIT"
	CallbackOrderSettle   CallbackSelector = "ORDER_SETTLE"
)

// SubjectType identifies what kind of record a request is bound to.
type SubjectType string

const (
	SubjectMaker SubjectType = "MAKER"
	SubjectOrder SubjectType = "ORDER"
)

// OracleRequest tracks one outstanding request to the oracle network.
// A request id maps to at most one subject and is consumed atomically
// with the transition its fulfillment triggers.
type OracleRequest struct {
	RequestID        string           `json:"requestId"`
	OracleAddr       string           `json:"oracleAddr"`
	JobID            string           `json:"jobId"`
	CallbackSelector CallbackSelector `json:"callbackSelector"`
	SubjectType      SubjectType      `json:"subjectType"`
	SubjectID        uint64           `json:"subjectId"`
	FeeAmount        string           `json:"feeAmount"`
	Payload          string           `json:"payload"`
	Expired          bool             `json:"expired"`
	CreatedAt        time.Time        `json:"createdAt"`
}
