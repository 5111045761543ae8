// Command invoice-cli composes one invoice against a running back-office API
// and submits it.
//
//	invoice-cli --login clerk --password secret --client "ana mora" --products "K1=2,M1=1"
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"go-backoffice/internal/apiclient"
	"go-backoffice/internal/invoice"
	"go-backoffice/internal/model"
	"go-backoffice/internal/search"
	applog "go-backoffice/pkg/logger"
)

type cliConfig struct {
	BaseURL      string        `conf:"default:http://localhost:3000,env:API_URL,flag:url"`
	Login        string        `conf:"required,env:API_LOGIN,flag:login"`
	Password     string        `conf:"required,env:API_PASSWORD,flag:password,mask"`
	Client       string        `conf:"required,flag:client,help:client name or identification number"`
	Products     string        `conf:"required,flag:products,help:comma-separated code=qty pairs"`
	Observations string        `conf:"flag:observations"`
	Timeout      time.Duration `conf:"default:15s,flag:timeout"`
	LogLevel     string        `conf:"default:warn,env:LOG_LEVEL,flag:log-level"`
}

// wantedLine is one code=qty pair from the command line.
type wantedLine struct {
	Code string
	Qty  int
}

func main() {
	_ = godotenv.Load()

	var cfg cliConfig
	if help, err := conf.Parse("", &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := applog.NewWithWriter(os.Stderr, cfg.LogLevel)

	if err := run(context.Background(), cfg, log); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliConfig, log applog.Logger) error {
	wanted, err := parseLines(cfg.Products)
	if err != nil {
		return err
	}

	client := apiclient.New(&apiclient.Session{BaseURL: cfg.BaseURL}, apiclient.WithTimeout(cfg.Timeout))
	me, err := client.Login(ctx, cfg.Login, cfg.Password)
	if err != nil {
		return err
	}
	log.Info("logged in", "user", me.User.UserName)

	buyers, err := client.SearchClients(ctx, cfg.Client)
	if err != nil {
		return err
	}
	switch len(buyers) {
	case 0:
		return fmt.Errorf("no client matches %q", cfg.Client)
	case 1:
	default:
		return fmt.Errorf("%d clients match %q, narrow the term", len(buyers), cfg.Client)
	}

	catalog, err := client.ListProducts(ctx)
	if err != nil {
		return err
	}
	index, err := search.New(search.KindProduct, catalog)
	if err != nil {
		return err
	}

	composer := invoice.NewComposer(client, client, invoice.WithLogger(log))
	composer.SelectClient(buyers[0])
	if err := addLines(composer, index, wanted); err != nil {
		return err
	}

	d := composer.Draft()
	for _, l := range d.Lines {
		fmt.Printf("%-12s %-30s %4d x %10s = %10s\n", l.Product.Code, l.Product.Name, l.Quantity, l.UnitPrice.StringFixed(2), l.Subtotal.StringFixed(2))
	}
	fmt.Printf("%-60s %10s\n%-60s %10s\n%-60s %10s\n",
		"Subtotal", d.Subtotal.StringFixed(2),
		"Tax", d.Tax.StringFixed(2),
		"Total", d.Total.StringFixed(2),
	)

	sub, err := composer.Submit(ctx, cfg.Observations)
	if err != nil {
		return err
	}
	fmt.Printf("submitted %s for %s\n", sub.Request.InvoiceNumber, buyers[0].FullName())
	if sub.RefreshErr != nil {
		fmt.Fprintln(os.Stderr, "warning: invoice list not refreshed:", sub.RefreshErr)
		return nil
	}
	fmt.Printf("you have issued %d invoices\n", len(invoice.OwnedBy(sub.Invoices, me.User.ID)))
	return nil
}

// addLines picks each wanted product from index by exact code, adds it at
// quantity 1 and increments up to the wanted quantity. A code given twice
// adds to the same line. The first rejected step aborts with the product and
// the quantity that was reached.
func addLines(composer *invoice.Composer, index *search.Index[model.Product], wanted []wantedLine) error {
	var added bool
	index.OnSelect(func(p model.Product) {
		added = composer.AddLineItem(p, 1)
	})

	for _, w := range wanted {
		product, ok := pickByCode(index, w.Code)
		if !ok {
			return fmt.Errorf("no product with code %q", w.Code)
		}
		index.SelectItem(product)
		if !added {
			if onInvoice := lineQuantity(composer, product.ID); onInvoice > 0 {
				return stockReached(product, onInvoice)
			}
			return fmt.Errorf("%s cannot be invoiced (active=%t stock=%d)", product.Code, product.IsActive, product.Stock)
		}
		for q := 1; q < w.Qty; q++ {
			if !composer.IncrementLine(product.ID) {
				return stockReached(product, lineQuantity(composer, product.ID))
			}
		}
	}
	return nil
}

func stockReached(p model.Product, onInvoice int) error {
	return fmt.Errorf("%s: stock of %d reached with %d on the invoice", p.Code, p.Stock, onInvoice)
}

func lineQuantity(composer *invoice.Composer, productID uuid.UUID) int {
	for _, l := range composer.Draft().Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func pickByCode(index *search.Index[model.Product], code string) (model.Product, bool) {
	for _, p := range index.Filter(code) {
		if strings.EqualFold(p.Code, code) {
			return p, true
		}
	}
	return model.Product{}, false
}

// parseLines reads "K1=2,M1" style input. A missing quantity means 1.
func parseLines(s string) ([]wantedLine, error) {
	var out []wantedLine
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, qtyText, hasQty := strings.Cut(part, "=")
		code = strings.TrimSpace(code)
		qty := 1
		if hasQty {
			n, err := strconv.Atoi(strings.TrimSpace(qtyText))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("bad quantity in %q", part)
			}
			qty = n
		}
		if code == "" {
			return nil, fmt.Errorf("missing product code in %q", part)
		}
		out = append(out, wantedLine{Code: code, Qty: qty})
	}
	if len(out) == 0 {
		return nil, errors.New("no products given")
	}
	return out, nil
}
