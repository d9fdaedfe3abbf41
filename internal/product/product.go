package product

// Product is the catalog entry as the client renders it. The API is
// loose about field names (Mongo-style _id vs id, title vs name); the
// gateway normalizes once so nothing downstream has to guess.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Name        string  `json:"name,omitempty"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category,omitempty"`
}
