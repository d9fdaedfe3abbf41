package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pickzo/pickzo-client/internal/api"
	"github.com/pickzo/pickzo-client/internal/auth"
	"github.com/pickzo/pickzo-client/internal/cart"
	"github.com/pickzo/pickzo-client/internal/checkout"
	"github.com/pickzo/pickzo-client/internal/config"
	"github.com/pickzo/pickzo-client/internal/localstore"
	"github.com/pickzo/pickzo-client/internal/logger"
	"github.com/pickzo/pickzo-client/internal/notify"
	"github.com/pickzo/pickzo-client/internal/order"
	"github.com/pickzo/pickzo-client/internal/product"
	"github.com/pickzo/pickzo-client/internal/profile"
	"github.com/pickzo/pickzo-client/internal/session"
)

const usage = `usage: storefront <command>

  login <email> <password>        authenticate and store the session
  logout                          clear the stored session
  whoami                          show the current session
  products [search]               list the catalog, optionally filtered
  product <id>                    show one product
  cart                            show the cart
  cart add <productId> [qty]      add a product
  cart qty <itemId> <n>           change a line's quantity
  cart remove <itemId>            remove a line
  cart clear                      empty the cart
  buy <address> <phone> <method>  place an order for the whole cart (COD|UPI|Card)
  orders                          list order history
  orders cancel <orderId>         cancel a placed order
  orders reorder <orderId>        re-place a cancelled order
  orders delete <orderId>...      delete the given orders
  profile                         show the profile
  profile set <field> <value>     update name|email|phone|address`

// app wires the process-wide state: session and cart context objects
// are built once here and injected into every service, never read ad
// hoc from disk by the components themselves.
type app struct {
	sessions *session.Store
	notes    *notify.Channel
	auth     *auth.Service
	products *product.Service
	cart     *cart.Service
	orders   *order.Service
	checkout *checkout.Service
	profile  *profile.Service
	stdin    *bufio.Reader
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New("storefront", cfg.LogLevel)

	local, err := localstore.New(cfg.StateDir)
	if err != nil {
		log.Error("state dir unavailable", "dir", cfg.StateDir, "err", err)
		os.Exit(1)
	}

	sessions := session.NewStore(local)
	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout, sessions, log)

	notes := notify.New(0)
	notes.SetListener(func(m *notify.Message) {
		if m == nil {
			return
		}
		if m.Kind == notify.Error {
			fmt.Fprintln(os.Stderr, "!! "+m.Text)
			return
		}
		fmt.Println("== " + m.Text)
	})

	snap := cart.NewSnapshot(local)
	a := &app{
		sessions: sessions,
		notes:    notes,
		auth:     auth.NewService(auth.NewHTTPGateway(client), sessions, notes, log),
		products: product.NewService(product.NewHTTPGateway(client)),
		cart:     cart.NewService(cart.NewHTTPGateway(client), sessions, notes, snap, log),
		orders:   order.NewService(order.NewHTTPGateway(client), notes, log),
		checkout: checkout.NewService(checkout.NewHTTPGateway(client), sessions, notes, log),
		profile:  profile.NewService(profile.NewHTTPGateway(client), sessions, notes, log),
		stdin:    bufio.NewReader(os.Stdin),
	}

	// other processes of the same user removing the credential is the
	// logout signal; surface it instead of failing with a 401 later
	stopWatch, err := sessions.OnExternalChange(func(_ session.Session, ok bool) {
		if !ok {
			fmt.Fprintln(os.Stderr, "session ended in another process")
		}
	})
	if err == nil {
		defer stopWatch()
	}

	if err := a.run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println(usage)
		return nil
	}

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: storefront login <email> <password>")
		}
		_, err := a.auth.Login(ctx, args[1], args[2])
		return err

	case "logout":
		a.cart.ResetLocal()
		return a.auth.Logout()

	case "whoami":
		return a.whoami()

	case "products":
		search := ""
		if len(args) > 1 {
			search = strings.Join(args[1:], " ")
		}
		return a.listProducts(ctx, search)

	case "product":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront product <id>")
		}
		return a.showProduct(ctx, args[1])

	case "cart":
		return a.cartCommand(ctx, args[1:])

	case "buy":
		if len(args) != 4 {
			return fmt.Errorf("usage: storefront buy <address> <phone> <method>")
		}
		return a.buy(ctx, args[1], args[2], order.PaymentMethod(args[3]))

	case "orders":
		return a.ordersCommand(ctx, args[1:])

	case "profile":
		return a.profileCommand(ctx, args[1:])

	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) whoami() error {
	s, ok := a.sessions.Load()
	if !ok {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s (%s)\n", s.DisplayName, s.UserID)
	if exp, ok := session.TokenExpiry(s.Token); ok {
		fmt.Printf("token expires %s\n", exp.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) listProducts(ctx context.Context, search string) error {
	products, err := a.products.List(ctx, search)
	if err != nil {
		a.notes.Errorf("Failed to load products.")
		return err
	}
	if len(products) == 0 {
		fmt.Println("No products found.")
		return nil
	}
	for _, p := range products {
		fmt.Printf("%-36s  %8.2f  %s\n", p.ID, p.Price, p.Title)
	}
	return nil
}

func (a *app) showProduct(ctx context.Context, id string) error {
	p, err := a.products.Get(ctx, id)
	if err != nil {
		a.notes.Errorf("Failed to load product details.")
		return err
	}
	fmt.Printf("%s\n  price: %.2f\n", p.Title, p.Price)
	if p.Description != "" {
		fmt.Println("  " + p.Description)
	}
	return nil
}

func (a *app) cartCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if err := a.cart.Refresh(ctx); err != nil {
			return err
		}
		a.printCart()
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront cart add <productId> [qty]")
		}
		qty := 1
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
			qty = n
		}
		return a.cart.Add(ctx, args[1], qty)

	case "qty":
		if len(args) != 3 {
			return fmt.Errorf("usage: storefront cart qty <itemId> <n>")
		}
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		if err := a.cart.ChangeQuantity(ctx, args[1], n); err != nil {
			return err
		}
		a.printCart()
		return nil

	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront cart remove <itemId>")
		}
		return a.cart.Remove(ctx, args[1])

	case "clear":
		return a.cart.Clear(ctx)

	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func (a *app) printCart() {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}
	for _, it := range items {
		fmt.Printf("%-36s  x%-3d  %8.2f  %s\n", it.ID, it.Quantity, it.Price, it.Title)
	}
	fmt.Printf("total: %.2f\n", a.cart.Total())
}

func (a *app) buy(ctx context.Context, address, phone string, method order.PaymentMethod) error {
	if err := a.cart.Refresh(ctx); err != nil {
		return err
	}
	req := checkout.FromCart(a.cart.Items(), address, phone, method)
	receipt, err := a.checkout.PlaceOrder(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println("order id: " + receipt.OrderID)
	return nil
}

func (a *app) ordersCommand(ctx context.Context, args []string) error {
	if err := a.orders.Refresh(ctx); err != nil {
		return err
	}

	if len(args) == 0 {
		a.printOrders()
		return nil
	}

	switch args[0] {
	case "cancel":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront orders cancel <orderId>")
		}
		if err := a.orders.RequestCancel(args[1]); err != nil {
			return err
		}
	case "reorder":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront orders reorder <orderId>")
		}
		if err := a.orders.RequestReorder(args[1]); err != nil {
			return err
		}
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront orders delete <orderId>...")
		}
		for _, id := range args[1:] {
			a.orders.ToggleSelect(id)
		}
		if err := a.orders.RequestBulkDelete(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown orders command %q", args[0])
	}

	if !a.confirmPending() {
		a.orders.Dismiss()
		fmt.Println("aborted")
		return nil
	}
	return a.orders.Confirm(ctx)
}

// confirmPending prints the confirmation prompt for the parked action
// and reads an explicit yes. Nothing is sent until the user confirms.
func (a *app) confirmPending() bool {
	pending, ok := a.orders.Pending()
	if !ok {
		return false
	}
	switch pending.Kind {
	case order.ActionCancel:
		fmt.Printf("Cancel order %s? [y/N] ", pending.OrderID)
	case order.ActionReorder:
		fmt.Printf("Reorder %s? [y/N] ", pending.OrderID)
	case order.ActionBulkDelete:
		fmt.Printf("Delete %d selected order(s)? This cannot be undone. [y/N] ", pending.Count)
	}
	line, err := a.stdin.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (a *app) printOrders() {
	orders := a.orders.Orders()
	if len(orders) == 0 {
		fmt.Println("You have no orders yet.")
		return
	}
	for _, ord := range orders {
		when := ""
		if !ord.CreatedAt.IsZero() {
			when = ord.CreatedAt.Format("2006-01-02")
		}
		fmt.Printf("%-36s  %-9s  %8.2f  %s  %s\n", ord.ID, ord.Status, ord.TotalAmount, ord.PaymentMethod, when)
		for _, it := range ord.Items {
			fmt.Printf("    x%-3d %s\n", it.Quantity, it.Title)
		}
	}
}

func (a *app) profileCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		p, err := a.profile.Get(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("name:    %s\nemail:   %s\nphone:   %s\naddress: %s\n", p.Name, p.Email, p.Phone, p.Address)
		return nil
	}

	if args[0] != "set" || len(args) < 3 {
		return fmt.Errorf("usage: storefront profile set <field> <value>")
	}
	value := strings.Join(args[2:], " ")
	var p profile.Profile
	switch args[1] {
	case "name":
		p.Name = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	case "address":
		p.Address = value
	default:
		return fmt.Errorf("unknown field %q", args[1])
	}
	_, err := a.profile.Update(ctx, p)
	return err
}
