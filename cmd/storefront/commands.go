package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/angelmondragon/storefront-client/internal/cart"
	"github.com/angelmondragon/storefront-client/internal/checkout"
	"github.com/angelmondragon/storefront-client/internal/orders"
	"github.com/angelmondragon/storefront-client/internal/products"
	"github.com/angelmondragon/storefront-client/internal/session"
	"github.com/angelmondragon/storefront-client/internal/users"
	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/metrics"
	"github.com/angelmondragon/storefront-client/pkg/storage"
	"github.com/angelmondragon/storefront-client/pkg/transport"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

const usage = `usage: storefront <command> [flags]

commands:
  register   create an account
  login      sign in and store the credential
  logout     forget the credential and the local cart
  whoami     print the signed-in user id
  products   list the catalog
  cart       show the current cart
  add <id>   add one unit of a product
  clear      empty the cart
  checkout   place an order for the cart
  watch      print cart changes made by other sessions
`

type app struct {
	logg     *logger.Logger
	store    storage.Store
	bridge   *session.Bridge
	users    *users.Client
	products *products.Client
	cart     cart.Cart
	checkout *checkout.Orchestrator
	opener   checkout.Opener
	out      io.Writer
}

func newApp(cfg *config.Config, logg *logger.Logger, store storage.Store, reg prometheus.Registerer, out io.Writer) (*app, error) {
	bridge := session.NewBridge(store, logg)
	m := metrics.NewOperationMetrics(reg)

	client := func(baseURL string) (*transport.Client, error) {
		return transport.New(baseURL, cfg.Services.HTTPTimeout, transport.WithTokenSource(bridge), transport.WithLogger(logg))
	}
	userHTTP, err := client(cfg.Services.UserBaseURL)
	if err != nil {
		return nil, err
	}
	cartHTTP, err := client(cfg.Services.CartBaseURL)
	if err != nil {
		return nil, err
	}
	productHTTP, err := client(cfg.Services.ProductBaseURL)
	if err != nil {
		return nil, err
	}
	orderHTTP, err := client(cfg.Services.OrderBaseURL)
	if err != nil {
		return nil, err
	}

	c, err := cart.New(cfg.Cart, store, cart.NewClient(cartHTTP), bridge, logg, m)
	if err != nil {
		return nil, err
	}
	catalog := products.NewClient(productHTTP)

	return &app{
		logg:     logg,
		store:    store,
		bridge:   bridge,
		users:    users.NewClient(userHTTP),
		products: catalog,
		cart:     c,
		checkout: checkout.NewOrchestrator(orders.NewClient(orderHTTP), c, bridge, catalog, logg, m),
		opener:   newBrowserOpener(out),
		out:      out,
	}, nil
}

func (a *app) close() error {
	err := a.cart.Close()
	a.bridge.Close()
	return multierr.Append(err, a.store.Close())
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return nil
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "products":
		return a.listProducts(ctx)
	case "cart":
		return a.showCart(ctx)
	case "add":
		return a.add(ctx, rest)
	case "clear":
		return a.clear(ctx)
	case "checkout":
		return a.placeOrder(ctx, rest)
	case "watch":
		return a.watch(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var in users.CreateUserInput
	fs.StringVar(&in.Name, "name", "", "first name")
	fs.StringVar(&in.LastName, "lastname", "", "last name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.Address, "address", "", "street address")
	fs.StringVar(&in.Zipcode, "zipcode", "", "postal code")
	fs.StringVar(&in.NationalID, "national-id", "", "national id (CPF)")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.State, "state", "", "two-letter state")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.users.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered user %d (%s)\n", user.ID, user.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.users.Login(ctx, users.LoginInput{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if err := a.bridge.SetIdentity(ctx, token); err != nil {
		return err
	}
	return a.whoami(ctx)
}

func (a *app) logout(ctx context.Context) error {
	if err := a.bridge.ClearIdentity(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	id, ok := a.bridge.GetIdentity(ctx)
	if !ok {
		fmt.Fprintln(a.out, "not signed in")
		return nil
	}
	fmt.Fprintf(a.out, "signed in as user %d\n", id)
	return nil
}

func (a *app) listProducts(ctx context.Context) error {
	list, err := a.products.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tSTOCK")
	for _, p := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", p.ID, p.Title, p.Price.StringFixed(2), p.Quantity)
	}
	return tw.Flush()
}

func (a *app) showCart(ctx context.Context) error {
	state, err := a.cart.Refresh(ctx)
	if err != nil {
		return err
	}
	if state.IsEmpty() {
		fmt.Fprintln(a.out, "cart is empty")
		return nil
	}

	quote, err := a.products.Quote(ctx, state.Items)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQTY\tSUBTOTAL")
	for _, line := range quote.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", line.Product.ID, line.Product.Title, line.Quantity, line.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\t%d\t%s\n", state.Count(), quote.Total.StringFixed(2))
	return tw.Flush()
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: storefront add <product-id>")
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	if _, err := a.cart.Refresh(ctx); err != nil {
		return err
	}
	state, err := a.cart.AddItem(ctx, productID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "cart has %d item(s)\n", state.Count())
	return nil
}

func (a *app) clear(ctx context.Context) error {
	if _, err := a.cart.Refresh(ctx); err != nil {
		return err
	}
	if _, err := a.cart.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "cart cleared")
	return nil
}

func (a *app) placeOrder(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	methodFlag := fs.String("method", string(enums.PaymentMethodPix), "PIX, CREDIT_CARD or DEBIT_CARD")
	qrFile := fs.String("qr-file", "", "write the PIX QR image to this file")
	noOpen := fs.Bool("no-open", false, "print the payment link instead of opening it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	method, err := enums.ParsePaymentMethod(*methodFlag)
	if err != nil {
		return err
	}

	if _, err := a.cart.Refresh(ctx); err != nil {
		return err
	}
	result, err := a.checkout.CheckoutCart(ctx, method)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "order %s (%s): %s\n", result.OrderID, method.Label(), result.Status)
	if result.PixCode != "" {
		fmt.Fprintf(a.out, "PIX copy-paste: %s\n", result.PixCode)
	}
	if result.PixImage != "" && *qrFile != "" {
		if err := writeDataURI(*qrFile, result.PixImage); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "PIX QR image written to %s\n", *qrFile)
	}
	if result.PaymentLink == "" {
		return nil
	}
	if *noOpen {
		return a.opener.Navigate(result.PaymentLink)
	}
	return checkout.OpenPaymentLink(a.opener, result)
}

func (a *app) watch(ctx context.Context) error {
	if _, err := a.cart.Refresh(ctx); err != nil {
		return err
	}
	unsubscribe := a.cart.Subscribe(func(state cart.State) {
		fmt.Fprintf(a.out, "cart changed: %d item(s) %v\n", state.Count(), state.Items)
	})
	defer unsubscribe()
	fmt.Fprintln(a.out, "watching cart, press Ctrl+C to stop")
	<-ctx.Done()
	return nil
}

func writeDataURI(path, uri string) error {
	_, payload, ok := strings.Cut(uri, "base64,")
	if !ok {
		return fmt.Errorf("pix image is not a base64 data uri")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("decode pix image: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}
