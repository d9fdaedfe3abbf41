package order

import "time"

type Status string

const (
	StatusPlaced    Status = "Placed"
	StatusCancelled Status = "Cancelled"
)

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCard PaymentMethod = "Card"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCOD, PaymentUPI, PaymentCard:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
}

// Order mirrors a server-owned order. Status transitions are requested
// by the client but authoritative only once the server confirms them.
type Order struct {
	ID            string        `json:"id"`
	Items         []OrderItem   `json:"items"`
	TotalAmount   float64       `json:"totalAmount"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}
