package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 200
)

// Page holds offset pagination inputs from controllers or services.
// Offset paging keeps list calls restartable: the same (limit, offset) pair
// always addresses the same window, with no server-side cursor state.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page to the configured default and maximum limits and
// a non-negative offset.
func (p Page) Normalize() Page {
	out := p
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	if out.Limit > MaxLimit {
		out.Limit = MaxLimit
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	return out
}
