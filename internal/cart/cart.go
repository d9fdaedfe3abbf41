package cart

// CartItem is one line of the cart view. Quantity is always >= 1;
// removing the last unit removes the line, it never sits at zero.
type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}
