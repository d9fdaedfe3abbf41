// Package mockapi is an in-memory stand-in for the remote storefront
// backend. It implements the same REST contract the client talks to,
// which makes it useful both as a local dev server and as the backend
// for integration tests. State lives in memory and resets on restart.
package mockapi

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type user struct {
	ID       string
	Email    string
	Password string
	Name     string
	Phone    string
	Address  string
}

type product struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Name        string  `json:"name,omitempty"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category,omitempty"`
}

type cartItem struct {
	ID        string  `json:"_id"`
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

type orderItem struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
}

type orderRec struct {
	ID            string      `json:"_id"`
	UserID        string      `json:"-"`
	Items         []orderItem `json:"items"`
	TotalAmount   float64     `json:"totalAmount"`
	Address       string      `json:"address"`
	Phone         string      `json:"phone,omitempty"`
	PaymentMethod string      `json:"paymentMethod"`
	Status        string      `json:"status"`
	CreatedAt     string      `json:"createdAt"`
}

type Server struct {
	app    *fiber.App
	secret []byte

	mu       sync.Mutex
	users    map[string]user
	products []product
	carts    map[string][]cartItem
	orders   map[string][]orderRec
}

func New(secret string) *Server {
	s := &Server{
		secret: []byte(secret),
		users:  make(map[string]user),
		carts:  make(map[string][]cartItem),
		orders: make(map[string][]orderRec),
	}
	s.seed()

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Post("/api/auth/login", s.login)
	app.Get("/api/products", s.listProducts)
	app.Get("/api/products/:id", s.getProduct)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: s.secret,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	}))

	app.Get("/api/users/profile", s.getProfile)
	app.Put("/api/users/profile", s.updateProfile)

	app.Get("/api/cart", s.getCart)
	app.Post("/api/cart/add", s.addToCart)
	app.Put("/api/cart/update-quantity", s.updateQuantity)
	app.Delete("/api/cart/remove/:id", s.removeFromCart)
	app.Delete("/api/cart", s.clearCart)

	app.Get("/api/orders", s.listOrders)
	app.Post("/api/orders/buy", s.buy)
	app.Put("/api/orders/cancel/:id", s.cancelOrder)
	app.Post("/api/orders/reorder/:id", s.reorder)
	app.Delete("/api/orders/delete", s.deleteOrders)

	s.app = app
	return s
}

// App exposes the underlying Fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) seed() {
	demo := user{
		ID:       uuid.NewString(),
		Email:    "demo@pickzo.dev",
		Password: "password",
		Name:     "Demo User",
		Phone:    "9876543210",
		Address:  "221B Baker Street",
	}
	s.users[demo.ID] = demo

	s.products = []product{
		{ID: uuid.NewString(), Title: "Wireless Headphones", Price: 1999, Category: "electronics", Description: "Over-ear, 30h battery"},
		{ID: uuid.NewString(), Title: "Running Shoes", Price: 2499, Category: "sports"},
		{ID: uuid.NewString(), Title: "Espresso Maker", Price: 5999, Category: "home", Description: "15 bar pump"},
		{ID: uuid.NewString(), Name: "Desk Lamp", Price: 799, Category: "home"},
		{ID: uuid.NewString(), Title: "Notebook Set", Price: 299, Category: "stationery"},
	}
}

// userID extracts the user_id claim set by the JWT middleware.
func (s *Server) userID(c *fiber.Ctx) (string, bool) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	id, ok := claims["user_id"].(string)
	return id, ok && id != ""
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (s *Server) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	ident := payload.Identifier
	if ident == "" {
		ident = payload.Email
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if (u.Email == ident || u.Name == ident) && u.Password == payload.Password {
			claims := jwt.MapClaims{
				"user_id": u.ID,
				"name":    u.Name,
				"exp":     time.Now().Add(72 * time.Hour).Unix(),
			}
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
			}
			return c.JSON(fiber.Map{
				"token": signed,
				"user":  fiber.Map{"_id": u.ID, "name": u.Name, "email": u.Email},
			})
		}
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
}

func (s *Server) listProducts(c *fiber.Ctx) error {
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]product, 0, len(s.products))
	for _, p := range s.products {
		if search == "" ||
			strings.Contains(strings.ToLower(p.Title), search) ||
			strings.Contains(strings.ToLower(p.Name), search) {
			out = append(out, p)
		}
	}
	return c.JSON(out)
}

func (s *Server) getProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return c.JSON(p)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}
	return c.JSON(fiber.Map{"name": u.Name, "email": u.Email, "phone": u.Phone, "address": u.Address})
}

type profileUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(profileUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}
	if payload.Name != nil {
		u.Name = *payload.Name
	}
	if payload.Email != nil {
		u.Email = *payload.Email
	}
	if payload.Phone != nil {
		u.Phone = *payload.Phone
	}
	if payload.Address != nil {
		u.Address = *payload.Address
	}
	s.users[id] = u
	return c.JSON(fiber.Map{"name": u.Name, "email": u.Email, "phone": u.Phone, "address": u.Address})
}

func (s *Server) getCart(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[id]
	if items == nil {
		items = []cartItem{}
	}
	return c.JSON(fiber.Map{"cartItems": items})
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) addToCart(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(addToCartRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "productId is required"})
	}
	if payload.Quantity < 1 {
		payload.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var prod *product
	for i := range s.products {
		if s.products[i].ID == payload.ProductID {
			prod = &s.products[i]
			break
		}
	}
	if prod == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}

	items := s.carts[id]
	merged := false
	for i := range items {
		if items[i].ProductID == payload.ProductID {
			items[i].Quantity += payload.Quantity
			merged = true
			break
		}
	}
	if !merged {
		title := prod.Title
		if title == "" {
			title = prod.Name
		}
		items = append(items, cartItem{
			ID:        uuid.NewString(),
			ProductID: prod.ID,
			Title:     title,
			Price:     prod.Price,
			Quantity:  payload.Quantity,
			Image:     prod.Image,
		})
	}
	s.carts[id] = items
	return c.JSON(fiber.Map{"cartItems": items})
}

type updateQuantityRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

func (s *Server) updateQuantity(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(updateQuantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "quantity must be at least 1"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[id]
	for i := range items {
		if items[i].ID == payload.ItemID {
			items[i].Quantity = payload.Quantity
			return c.JSON(fiber.Map{"cartItems": items})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart item not found"})
}

func (s *Server) removeFromCart(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	itemID := c.Params("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[id]
	for i := range items {
		if items[i].ID == itemID {
			s.carts[id] = append(items[:i], items[i+1:]...)
			return c.SendStatus(fiber.StatusNoContent)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart item not found"})
}

func (s *Server) clearCart(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listOrders(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	orders := s.orders[id]
	// newest first
	out := make([]orderRec, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		out = append(out, orders[i])
	}
	return c.JSON(out)
}

type buyRequest struct {
	Items []struct {
		Product  string  `json:"product"`
		Title    string  `json:"title"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	} `json:"items"`
	TotalAmount   float64 `json:"totalAmount"`
	Address       string  `json:"address"`
	Phone         string  `json:"phone"`
	PaymentMethod string  `json:"paymentMethod"`
}

func (s *Server) buy(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(buyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if len(payload.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "order has no items"})
	}
	if strings.TrimSpace(payload.Address) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "address is required"})
	}

	ord := orderRec{
		ID:            uuid.NewString(),
		UserID:        id,
		TotalAmount:   payload.TotalAmount,
		Address:       payload.Address,
		Phone:         payload.Phone,
		PaymentMethod: payload.PaymentMethod,
		Status:        "Placed",
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	total := 0.0
	for _, it := range payload.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		ord.Items = append(ord.Items, orderItem{ProductID: it.Product, Title: it.Title, Quantity: qty})
		total += it.Price * float64(qty)
	}
	// the server recomputes the total; the client's figure is advisory
	ord.TotalAmount = total

	s.mu.Lock()
	s.orders[id] = append(s.orders[id], ord)
	s.mu.Unlock()
	return c.Status(fiber.StatusCreated).JSON(ord)
}

func (s *Server) cancelOrder(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orderID := c.Params("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	orders := s.orders[id]
	for i := range orders {
		if orders[i].ID == orderID {
			if orders[i].Status != "Placed" {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "order cannot be cancelled"})
			}
			orders[i].Status = "Cancelled"
			return c.JSON(orders[i])
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
}

func (s *Server) reorder(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orderID := c.Params("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	orders := s.orders[id]
	for i := range orders {
		if orders[i].ID == orderID {
			if orders[i].Status != "Cancelled" {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "only cancelled orders can be reordered"})
			}
			replay := orders[i]
			replay.ID = uuid.NewString()
			replay.Status = "Placed"
			replay.CreatedAt = time.Now().UTC().Format(time.RFC3339)
			replay.Items = append([]orderItem(nil), orders[i].Items...)
			s.orders[id] = append(orders, replay)
			return c.Status(fiber.StatusCreated).JSON(replay)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
}

type deleteOrdersRequest struct {
	OrderIDs []string `json:"orderIds"`
}

func (s *Server) deleteOrders(c *fiber.Ctx) error {
	id, ok := s.userID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(deleteOrdersRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if len(payload.OrderIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "orderIds is required"})
	}

	doomed := make(map[string]struct{}, len(payload.OrderIDs))
	for _, oid := range payload.OrderIDs {
		doomed[oid] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	orders := s.orders[id]
	kept := orders[:0]
	removed := 0
	for _, ord := range orders {
		if _, gone := doomed[ord.ID]; gone {
			removed++
			continue
		}
		kept = append(kept, ord)
	}
	s.orders[id] = kept
	return c.JSON(fiber.Map{"deleted": removed})
}
