package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// OrderStatus represents buy order status
type OrderStatus string

const (
	OrderStatusCreated         OrderStatus = "CREATED"
	OrderStatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	OrderStatusPaid            OrderStatus = "PAID"
	OrderStatusSettled         OrderStatus = "SETTLED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
)

// Terminal reports whether no further transition can be applied.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusSettled || s == OrderStatusCancelled
}

// BuyOrder is a taker's request to buy crypto for fiat from a maker.
// The crypto amount is escrowed at creation and only released when the
// order reaches SETTLED (to the taker) or CANCELLED (refund).
type BuyOrder struct {
	ID                   uint64      `json:"id"`
	Taker                string      `json:"taker"`
	MakerID              uint64      `json:"makerId"`
	Crypto               string      `json:"crypto"`
	Fiat                 string      `json:"fiat"`
	Amount               string      `json:"amount"`
	FiatPaymentMethodIdx int64       `json:"fiatPaymentMethodIdx"`
	Status               OrderStatus `json:"status"`
	OracleConfirmedAt    null.Time   `json:"oracleConfirmedAt,omitempty"`
	SettledAt            null.Time   `json:"settledAt,omitempty"`
	CancelledAt          null.Time   `json:"cancelledAt,omitempty"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}
