package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/state"
	"storefront/internal/usecase"
	"storefront/pkg/logger"
)

const usage = `usage: storefront <command> [args]

  products                    カタログ一覧
  register <email> <pw> [role]  アカウント作成（role: customer/vendor/admin）
  login <email> <pw>          ログイン
  logout                      ログアウト
  whoami                      ログイン中ユーザー
  cart                        カートの中身と合計
  add <product-id> [qty]      カートに追加
  remove <product-id>         数量を1減らす（0で行削除）
  drop <product-id>           行を丸ごと削除
  clear                       カートを空にする
  checkout                    注文確定
  orders                      注文履歴
  wishlist [add|rm <id>]      ウィッシュリスト
`

type app struct {
	session  *usecase.SessionManager
	cart     *usecase.CartStore
	checkout *usecase.CheckoutCoordinator
	client   *api.Client
}

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Options{Service: "storefront", Level: os.Getenv("LOG_LEVEL")})

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	store, err := state.NewFileStore(cfg.StateDir)
	if err != nil {
		log.Error("state store", "err", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout})
	gw := api.NewGateway(client)

	session := usecase.NewSessionManager(store, gw)
	client.SetAuthHooks(session.Token, session.HandleUnauthorized)
	session.Subscribe(func() {
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	})

	cart := usecase.NewCartStore(store)

	a := &app{
		session:  session,
		cart:     cart,
		checkout: usecase.NewCheckoutCoordinator(cart, gw),
		client:   client,
	}

	if err := a.run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "products":
		return a.listProducts(ctx)
	case "register":
		if len(rest) < 2 {
			return fmt.Errorf("register <email> <password> [role]")
		}
		role := model.RoleCustomer
		if len(rest) > 2 {
			role = model.Role(rest[2])
		}
		if err := a.client.Register(ctx, rest[0], rest[1], role); err != nil {
			return err
		}
		fmt.Println("registered")
		return nil
	case "login":
		if len(rest) < 2 {
			return fmt.Errorf("login <email> <password>")
		}
		sess, err := a.session.Login(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", sess.User.Email, sess.User.Role)
		return nil
	case "logout":
		a.session.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		if u, ok := a.session.CurrentUser(); ok {
			fmt.Printf("%s (%s)\n", u.Email, u.Role)
		} else {
			fmt.Println("not logged in")
		}
		return nil
	case "cart":
		return a.showCart()
	case "add":
		return a.addToCart(ctx, rest)
	case "remove":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		return a.cart.Remove(id)
	case "drop":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		return a.cart.DeleteLine(id)
	case "clear":
		return a.cart.Clear()
	case "checkout":
		order, err := a.checkout.SubmitOrder(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("order %s placed, total %s\n", order.ID, order.TotalAmount)
		return nil
	case "orders":
		return a.listOrders(ctx)
	case "wishlist":
		return a.wishlist(ctx, rest)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) listProducts(ctx context.Context) error {
	products, err := a.client.Products(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("%4d  %-30s %10s  (stock %d)\n", p.ID, p.Name, p.Price, p.Stock)
	}
	return nil
}

func (a *app) showCart() error {
	lines := a.cart.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, l := range lines {
		fmt.Printf("%4d  %-30s %10s × %d\n", l.ProductID, l.Name, l.Price, l.Quantity)
	}
	fmt.Printf("total: %s\n", a.cart.Total())
	return nil
}

// 追加前に最新カタログで商品スナップショットと在庫を確認する。
// 在庫上限の判断はコア側でなくここ（ビュー層）の責務。
func (a *app) addToCart(ctx context.Context, rest []string) error {
	id, err := parseID(rest)
	if err != nil {
		return err
	}

	qty := int64(1)
	if len(rest) > 1 {
		qty, err = strconv.ParseInt(rest[1], 10, 64)
		if err != nil || qty < 1 {
			return fmt.Errorf("invalid quantity %q", rest[1])
		}
	}

	products, err := a.client.Products(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.ID != id {
			continue
		}
		if a.cart.QuantityOf(id)+qty > p.Stock {
			return fmt.Errorf("only %d of %s in stock", p.Stock, p.Name)
		}
		return a.cart.Add(p, qty)
	}
	return fmt.Errorf("product %d not found", id)
}

func (a *app) listOrders(ctx context.Context) error {
	orders, err := a.checkout.ListOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("no orders")
		return nil
	}
	for _, o := range orders {
		fmt.Printf("%s  %-10s %10s  %s\n", o.ID, o.Status, o.TotalAmount, o.CreatedAt.Format("2006-01-02 15:04"))
		for _, it := range o.Items {
			fmt.Printf("      %-30s %10s × %d\n", it.Name, it.PriceAtPurchase, it.Quantity)
		}
	}
	return nil
}

func (a *app) wishlist(ctx context.Context, rest []string) error {
	if len(rest) == 0 {
		products, err := a.client.Wishlist(ctx)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("wishlist is empty")
			return nil
		}
		for _, p := range products {
			fmt.Printf("%4d  %-30s %10s\n", p.ID, p.Name, p.Price)
		}
		return nil
	}

	if len(rest) < 2 {
		return fmt.Errorf("wishlist [add|rm <product-id>]")
	}
	id, err := strconv.ParseInt(rest[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", rest[1])
	}

	switch rest[0] {
	case "add":
		return a.client.AddToWishlist(ctx, id)
	case "rm":
		return a.client.RemoveFromWishlist(ctx, id)
	default:
		return fmt.Errorf("wishlist [add|rm <product-id>]")
	}
}

func parseID(rest []string) (int64, error) {
	if len(rest) == 0 {
		return 0, fmt.Errorf("product id required")
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", rest[0])
	}
	return id, nil
}
