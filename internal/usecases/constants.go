package usecases

// Pagination limits
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultOracleFee is the per-request fee-token amount used when no fee
// is configured, in the token's smallest unit (1 token at 18 decimals).
const DefaultOracleFee = "1000000000000000000"

// clampPage normalizes pagination parameters
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
