package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/prohmpiriya/bazaar-client/internal/api"
	"github.com/prohmpiriya/bazaar-client/internal/di"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/internal/session"
	"go.uber.org/zap"
)

type command struct {
	usage string
	run   func(ctx context.Context, c *di.Container, args []string, out io.Writer) error
}

var commands = map[string]command{
	"otp":             {"otp -email E [-role customer|seller]", cmdOtp},
	"login":           {"login -email E (-otp CODE | -password P) [-seller]", cmdLogin},
	"signup":          {"signup -email E -name N -otp CODE", cmdSignup},
	"signup-password": {"signup-password -email E -name N -password P", cmdSignupPassword},
	"verify-signup":   {"verify-signup -email E -otp CODE", cmdVerifySignup},
	"logout":          {"logout", cmdLogout},
	"whoami":          {"whoami", cmdWhoami},
	"products":        {"products [-category C] [-sort price_low|price_high] [-min-price N] [-max-price N] [-page N] [-size N]", cmdProducts},
	"product":         {"product ID", cmdProduct},
	"search":          {"search QUERY", cmdSearch},
	"cart":            {"cart", cmdCart},
	"cart-add":        {"cart-add -product ID [-size S] [-qty N]", cmdCartAdd},
	"cart-update":     {"cart-update -item ID -qty N", cmdCartUpdate},
	"cart-remove":     {"cart-remove ITEM_ID", cmdCartRemove},
	"checkout":        {"checkout -name N -mobile M -street S -city C -state S -pincode P [-locality L] [-payment cod|stripe]", cmdCheckout},
	"orders":          {"orders", cmdOrders},
	"order":           {"order ID", cmdOrder},
	"cancel-order":    {"cancel-order ID", cmdCancelOrder},
	"wishlist":        {"wishlist", cmdWishlist},
	"wishlist-toggle": {"wishlist-toggle PRODUCT_ID", cmdWishlistToggle},
	"reviews":         {"reviews PRODUCT_ID", cmdReviews},
	"review":          {"review -product ID -rating 1-5 [-text T]", cmdReview},

	"seller-products":     {"seller-products", cmdSellerProducts},
	"seller-orders":       {"seller-orders", cmdSellerOrders},
	"seller-order-status": {"seller-order-status ID STATUS", cmdSellerOrderStatus},
	"plans":               {"plans", cmdPlans},
	"admin-users":         {"admin-users [-page N] [-size N] [-search S]", cmdAdminUsers},
	"admin-sellers":       {"admin-sellers [-page N] [-size N] [-search S] [-status S]", cmdAdminSellers},
}

var errUsage = errors.New("invalid arguments")

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: bazaar <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintln(w, "  "+commands[name].usage)
	}
}

func run(ctx context.Context, c *di.Container, name string, args []string, out io.Writer) error {
	cmd, ok := commands[name]
	if !ok {
		usage(out)
		return fmt.Errorf("unknown command %q", name)
	}
	err := cmd.run(ctx, c, args, out)
	if errors.Is(err, errUsage) {
		return fmt.Errorf("usage: bazaar %s", cmd.usage)
	}
	return err
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// idArg reads the single positional id argument
func idArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, errUsage
	}
	return id, nil
}

func cmdOtp(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	fs := newFlags("otp")
	email := fs.String("email", "", "account email")
	role := fs.String("role", "customer", "customer or seller")
	if err := parse(fs, args); err != nil {
		return err
	}
	r, err := domain.ParseRole(*role)
	if err != nil {
		return err
	}
	msg, err := c.Auth.SendOtp(ctx, *email, r)
	if err != nil {
		return err
	}
	return printJSON(out, map[string]string{"message": msg})
}

func cmdLogin(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	fs := newFlags("login")
	email := fs.String("email", "", "account email")
	otp := fs.String("otp", "", "one-time code")
	password := fs.String("password", "", "password")
	seller := fs.Bool("seller", false, "sign in to a seller account")
	if err := parse(fs, args); err != nil {
		return err
	}
	kind := session.AccountCustomer
	if *seller {
		kind = session.AccountSeller
	}
	user, err := c.Auth.Login(ctx, session.Credentials{Email: *email, OTP: *otp, Password: *password}, kind)
	if err != nil {
		return err
	}
	return printJSON(out, user)
}

func cmdSignup(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	fs := newFlags("signup")
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "full name")
	otp := fs.String("otp", "", "one-time code")
	if err := parse(fs, args); err != nil {
		return err
	}
	user, err := c.Auth.Signup(ctx, *email, *name, *otp)
	if err != nil {
		return err
	}
	return printJSON(out, user)
}

func cmdSignupPassword(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	fs := newFlags("signup-password")
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "full name")
	password := fs.String("password", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}
	msg, err := c.Auth.SendSignupOtp(ctx, *email, *name, *password)
	if err != nil {
		return err
	}
	return printJSON(out, map[string]string{"message": msg})
}

func cmdVerifySignup(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	fs := newFlags("verify-signup")
	email := fs.String("email", "", "account email")
	otp := fs.String("otp", "", "one-time code")
	if err := parse(fs, args); err != nil {
		return err
	}
	user, err := c.Auth.VerifySignup(ctx, *email, *otp)
	if err != nil {
		return err
	}
	return printJSON(out, user)
}

func cmdLogout(ctx context.Context, c *di.Container, _ []string, out io.Writer) error {
	if err := c.Auth.Logout(ctx); err != nil {
		return err
	}
	return printJSON(out, map[string]string{"state": string(c.Auth.State())})
}

func cmdWhoami(_ context.Context, c *di.Container, _ []string, out io.Writer) error {
	res := map[string]any{"state": string(c.Auth.State())}
	if user := c.Auth.CurrentUser(); user != nil {
		res["user"] = user
		res["kind"] = c.Auth.Kind()
		if exp, ok := c.Auth.TokenExpiry(); ok {
			res["expires_at"] = exp
		}
	}
	return printJSON(out, res)
}

func cmdProducts(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	fs := newFlags("products")
	filter := dto.ProductFilter{}
	fs.StringVar(&filter.Category, "category", "", "category id")
	fs.StringVar(&filter.Sort, "sort", "", "price_low or price_high")
	fs.IntVar(&filter.MinPrice, "min-price", 0, "minimum selling price")
	fs.IntVar(&filter.MaxPrice, "max-price", 0, "maximum selling price")
	fs.IntVar(&filter.PageNumber, "page", 0, "zero-based page")
	fs.IntVar(&filter.PageSize, "size", 0, "page size")
	if err := parse(fs, args); err != nil {
		return err
	}
	page, err := c.ProductService.List(ctx, &filter)
	if err != nil {
		return err
	}
	return printJSON(out, page)
}

func cmdProduct(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	p, err := c.ProductService.Get(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(out, p)
}

func cmdSearch(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	products, err := c.ProductService.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printJSON(out, products)
}

func requireSession(c *di.Container) error {
	if !c.Auth.IsAuthenticated() {
		return api.Classify(domain.ErrNotAuthenticated)
	}
	return nil
}

func requireSeller(c *di.Container) error {
	if err := requireSession(c); err != nil {
		return err
	}
	if c.Auth.Kind() != session.AccountSeller {
		return api.Classify(domain.ErrNotSeller)
	}
	return nil
}

func requireAdmin(c *di.Container) error {
	if err := requireSession(c); err != nil {
		return err
	}
	if user := c.Auth.CurrentUser(); user == nil || !user.IsAdmin() {
		return api.Classify(domain.ErrNotAdmin)
	}
	return nil
}

func cmdCart(ctx context.Context, c *di.Container, _ []string, out io.Writer) error {
	if err := requireSession(c); err != nil {
		return err
	}
	cart, err := c.Cart.Fetch(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, cart)
}

func cmdCartAdd(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	fs := newFlags("cart-add")
	productID := fs.Int64("product", 0, "product id")
	size := fs.String("size", "", "size")
	qty := fs.Int("qty", 1, "quantity")
	if err := parse(fs, args); err != nil {
		return err
	}
	cart, err := c.Cart.AddItem(ctx, *productID, *size, *qty)
	if err != nil {
		return err
	}
	return printJSON(out, cart)
}

func cmdCartUpdate(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	fs := newFlags("cart-update")
	itemID := fs.Int64("item", 0, "cart item id")
	qty := fs.Int("qty", 0, "quantity")
	if err := parse(fs, args); err != nil {
		return err
	}
	cart, err := c.Cart.UpdateItem(ctx, *itemID, *qty)
	if err != nil {
		return err
	}
	return printJSON(out, cart)
}

func cmdCartRemove(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	cart, err := c.Cart.RemoveItem(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(out, cart)
}

func parsePayment(s string) (domain.PaymentMethod, error) {
	switch strings.ToLower(s) {
	case "cod", "cash_on_delivery":
		return domain.PaymentMethodCashOnDelivery, nil
	case "stripe":
		return domain.PaymentMethodStripe, nil
	}
	return "", domain.ErrInvalidPayment
}

func cmdCheckout(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	fs := newFlags("checkout")
	var addr domain.Address
	fs.StringVar(&addr.Name, "name", "", "recipient name")
	fs.StringVar(&addr.Mobile, "mobile", "", "mobile number")
	fs.StringVar(&addr.Street, "street", "", "street address")
	fs.StringVar(&addr.Locality, "locality", "", "locality")
	fs.StringVar(&addr.City, "city", "", "city")
	fs.StringVar(&addr.State, "state", "", "state")
	fs.StringVar(&addr.Pincode, "pincode", "", "pincode")
	payment := fs.String("payment", "cod", "cod or stripe")
	if err := parse(fs, args); err != nil {
		return err
	}
	method, err := parsePayment(*payment)
	if err != nil {
		return err
	}
	if err := requireSession(c); err != nil {
		return err
	}
	link, err := c.OrderService.Create(ctx, &addr, method)
	if err != nil {
		return err
	}
	// the backend empties the cart on checkout
	if _, err := c.Cart.Fetch(ctx); err != nil {
		c.Logger.Debug("refresh cart after checkout", zap.Error(err))
	}
	return printJSON(out, link)
}

func cmdOrders(ctx context.Context, c *di.Container, _ []string, out io.Writer) error {
	if err := requireSession(c); err != nil {
		return err
	}
	orders, err := c.OrderService.History(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, orders)
}

func cmdOrder(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	order, err := c.OrderService.Get(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(out, order)
}

func cmdCancelOrder(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	msg, err := c.OrderService.Cancel(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(out, map[string]string{"message": msg})
}

func cmdWishlist(ctx context.Context, c *di.Container, _ []string, out io.Writer) error {
	if err := requireSession(c); err != nil {
		return err
	}
	wl, err := c.WishlistService.Get(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, wl)
}

func cmdWishlistToggle(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	if err := requireSession(c); err != nil {
		return err
	}
	wl, err := c.WishlistService.AddProduct(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(out, wl)
}

func cmdReviews(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	reviews, err := c.ReviewService.List(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(out, reviews)
}

func cmdReview(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	fs := newFlags("review")
	productID := fs.Int64("product", 0, "product id")
	req := dto.ReviewRequest{}
	fs.Float64Var(&req.ReviewRating, "rating", 0, "rating 1-5")
	fs.StringVar(&req.ReviewText, "text", "", "review text")
	if err := parse(fs, args); err != nil {
		return err
	}
	review, err := c.ReviewService.Create(ctx, *productID, &req)
	if err != nil {
		return err
	}
	return printJSON(out, review)
}

func cmdSellerProducts(ctx context.Context, c *di.Container, _ []string, out io.Writer) error {
	if err := requireSeller(c); err != nil {
		return err
	}
	products, err := c.SellerService.Products(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, products)
}

func cmdSellerOrders(ctx context.Context, c *di.Container, _ []string, out io.Writer) error {
	if err := requireSeller(c); err != nil {
		return err
	}
	orders, err := c.SellerService.Orders(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, orders)
}

func cmdSellerOrderStatus(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	if len(args) != 2 {
		return errUsage
	}
	id, err := idArg(args[:1])
	if err != nil {
		return err
	}
	if err := requireSeller(c); err != nil {
		return err
	}
	status := domain.OrderStatus(strings.ToUpper(args[1]))
	order, err := c.SellerService.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return err
	}
	return printJSON(out, order)
}

func cmdPlans(ctx context.Context, c *di.Container, _ []string, out io.Writer) error {
	if err := requireSeller(c); err != nil {
		return err
	}
	plans, err := c.SubscriptionService.Plans(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, plans)
}

func adminListFlags(name string, q *dto.AdminListQuery) *flag.FlagSet {
	fs := newFlags(name)
	fs.IntVar(&q.Page, "page", 0, "zero-based page")
	fs.IntVar(&q.Size, "size", 0, "page size")
	fs.StringVar(&q.Search, "search", "", "match on email or name")
	return fs
}

func cmdAdminUsers(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	var q dto.AdminListQuery
	if err := parse(adminListFlags("admin-users", &q), args); err != nil {
		return err
	}
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, err := c.AdminService.Users(ctx, &q)
	if err != nil {
		return err
	}
	return printJSON(out, page)
}

func cmdAdminSellers(ctx context.Context, c *di.Container, args []string, out io.Writer) error {
	var q dto.AdminListQuery
	fs := adminListFlags("admin-sellers", &q)
	status := fs.String("status", "", "account status, e.g. ACTIVE")
	if err := parse(fs, args); err != nil {
		return err
	}
	q.Status = domain.AccountStatus(strings.ToUpper(*status))
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, err := c.AdminService.Sellers(ctx, &q)
	if err != nil {
		return err
	}
	return printJSON(out, page)
}
