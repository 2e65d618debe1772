package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Maker is a market maker offering one (crypto, fiat) pair through one
// fiat payment method. Makers are created inactive and become active
// exactly once, when the bound "new maker" oracle request is fulfilled
// positively. No field other than Active is ever mutated.
type Maker struct {
	ID                   uint64    `json:"id"`
	MakerAddr            string    `json:"makerAddr"`
	FiatPaymentMethodIdx int64     `json:"fiatPaymentMethodIdx"`
	Crypto               string    `json:"crypto"`
	Fiat                 string    `json:"fiat"`
	PaymentDestination   string    `json:"paymentDestination"`
	APICredsHash         string    `json:"apiCredsHash"`
	Active               bool      `json:"active"`
	ActivatedAt          null.Time `json:"activatedAt,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}
