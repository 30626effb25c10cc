package usecase

const (
	// DefaultListLimit bounds unpaid-credit and balance listings when the
	// caller does not page explicitly.
	DefaultListLimit = 50

	// MaxListLimit caps a single page.
	MaxListLimit = 500
)

// clampLimit normalizes pagination inputs.
func clampLimit(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
