package cart

import "context"

// Gateway describes the remote cart of record. Add returns the server's
// representation of the cart after the merge; the client never computes
// prices or merge results itself.
type Gateway interface {
	Fetch(ctx context.Context) ([]CartItem, error)
	Add(ctx context.Context, productID string, quantity int) ([]CartItem, error)
	UpdateQuantity(ctx context.Context, itemID string, quantity int) error
	Remove(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
}
