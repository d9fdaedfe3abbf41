package cart

import (
	"encoding/json"
	"testing"
)

func TestWireCartItemNormalization(t *testing.T) {
	raw := `{"cartItems": [
		{"_id": "i1", "productId": "p1", "title": "Flat", "price": 100, "quantity": 2},
		{"id": "i2", "quantity": 1, "product": {"_id": "p2", "name": "Nested", "price": 50, "image": "/img.png"}}
	]}`

	var payload cartEnvelope
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	items := normalizeAll(payload.CartItems)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if items[0] != (CartItem{ID: "i1", ProductID: "p1", Title: "Flat", Price: 100, Quantity: 2}) {
		t.Fatalf("unexpected flat item %+v", items[0])
	}
	if items[1] != (CartItem{ID: "i2", ProductID: "p2", Title: "Nested", Price: 50, Quantity: 1, Image: "/img.png"}) {
		t.Fatalf("unexpected nested item %+v", items[1])
	}
}
