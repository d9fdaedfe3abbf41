package checkout

import "github.com/pickzo/pickzo-client/internal/order"

// Item is one order line as it is sent to the server.
type Item struct {
	ProductID string  `json:"product"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Request is the /orders/buy payload. TotalAmount is echoed for the
// server's benefit; the server recomputes and stays authoritative.
type Request struct {
	Items         []Item              `json:"items"`
	TotalAmount   float64             `json:"totalAmount"`
	Address       string              `json:"address"`
	Phone         string              `json:"phone"`
	PaymentMethod order.PaymentMethod `json:"paymentMethod"`
}

// Receipt identifies the created order for the success screen.
type Receipt struct {
	OrderID string
}
