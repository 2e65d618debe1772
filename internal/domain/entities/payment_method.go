package entities

import "time"

// NativeAsset is the sentinel asset address denoting the chain's native
// coin in place of a token contract address.
const NativeAsset = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// FiatPaymentMethod is an immutable, append-only record describing one
// off-chain payment rail and the oracle jobs that verify actions on it.
type FiatPaymentMethod struct {
	Idx                      int64     `json:"idx"`
	DisplayName              string    `json:"displayName"`
	OracleAddr               string    `json:"oracleAddr"`
	NewMakerJobID            string    `json:"newMakerJobId"`
	BuyCryptoOrderJobID      string    `json:"buyCryptoOrderJobId"`
	BuyCryptoOrderPayedJobID string    `json:"buyCryptoOrderPayedJobId"`
	CreatedAt                time.Time `json:"createdAt"`
}
