package roster

import "context"

// Source supplies the flat record list a report run renders from.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}
