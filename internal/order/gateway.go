package order

import "context"

// Gateway describes the order endpoints of the remote API.
type Gateway interface {
	List(ctx context.Context) ([]Order, error)
	Cancel(ctx context.Context, id string) error
	Reorder(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) error
}
