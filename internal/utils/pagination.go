package utils

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ClampPage normalizes client paging input to page >= 1 and 1 <= limit <= MaxLimit.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
