// Package apiclient talks to the back-office REST API on behalf of a console
// session. Client satisfies invoice.Identity and invoice.Store, so a Composer
// can submit through it directly.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-backoffice/internal/invoice"
	"go-backoffice/internal/model"
)

const apiPrefix = "/api/v1"

// ErrNoSession is returned by calls that need a token before Login ran.
var ErrNoSession = errors.New("not logged in")

// Session is the base URL and bearer token shared by a console's calls.
type Session struct {
	BaseURL string
	Token   string
}

type Client struct {
	session  *Session
	timeout  time.Duration
	pageSize int
}

type Option func(*Client)

// WithTimeout bounds calls whose context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithPageSize sets the page size ListProducts walks the catalog with.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

func New(session *Session, opts ...Option) *Client {
	c := &Client{session: session, timeout: 15 * time.Second, pageSize: model.MaxPageSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginResult is the part of the login response the console keeps.
type LoginResult struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"`
}

// Login authenticates and stores the token on the session.
func (c *Client) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	var res LoginResult
	body := map[string]string{"login": login, "password": password}
	if err := c.do(ctx, fiber.MethodPost, "/auth/login", nil, body, &res, "log in"); err != nil {
		return nil, err
	}
	c.session.Token = res.Token
	return &res, nil
}

// Me returns the user behind the session token.
func (c *Client) Me(ctx context.Context) (*model.UserResponse, error) {
	var me model.UserResponse
	if err := c.do(ctx, fiber.MethodGet, "/users/me", nil, nil, &me, "load the current user"); err != nil {
		return nil, err
	}
	return &me, nil
}

// CurrentUserID implements invoice.Identity.
func (c *Client) CurrentUserID(ctx context.Context) (uuid.UUID, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return me.ID, nil
}

// SearchProducts returns the first page of products matching term.
func (c *Client) SearchProducts(ctx context.Context, term string) ([]model.Product, error) {
	page, err := c.productPage(ctx, term, 1)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// ListProducts walks every page of the catalog.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var all []model.Product
	for n := 1; ; n++ {
		page, err := c.productPage(ctx, "", n)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if n >= page.TotalPages || len(page.Items) == 0 {
			return all, nil
		}
	}
}

func (c *Client) productPage(ctx context.Context, term string, number int) (*model.Page[model.Product], error) {
	q := url.Values{}
	q.Set("search", term)
	q.Set("pageNumber", strconv.Itoa(number))
	q.Set("pageSize", strconv.Itoa(c.pageSize))

	var page model.Page[model.Product]
	if err := c.do(ctx, fiber.MethodGet, "/products", q, nil, &page, "search products"); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchClients looks clients up by full name or identification number.
func (c *Client) SearchClients(ctx context.Context, term string) ([]model.Client, error) {
	q := url.Values{}
	q.Set("search", term)
	q.Set("pageSize", strconv.Itoa(c.pageSize))

	var page model.Page[model.Client]
	if err := c.do(ctx, fiber.MethodGet, "/clients", q, nil, &page, "search clients"); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// CreateInvoice implements invoice.Store.
func (c *Client) CreateInvoice(ctx context.Context, req invoice.CreateInvoiceRequest) error {
	return c.do(ctx, fiber.MethodPost, "/invoices", nil, req, nil, "create the invoice")
}

// ListInvoices implements invoice.Store.
func (c *Client) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	var list []model.Invoice
	if err := c.do(ctx, fiber.MethodGet, "/invoices", nil, nil, &list, "load invoices"); err != nil {
		return nil, err
	}
	return list, nil
}

type errorBody struct {
	Error string `json:"error"`
}

// do sends one request and decodes a 2xx body into out. Non-2xx statuses
// come back as *invoice.UpstreamError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, action string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	public := strings.HasPrefix(path, "/auth/")
	if !public && c.session.Token == "" {
		return ErrNoSession
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(strings.TrimRight(c.session.BaseURL, "/") + apiPrefix + path)
	if len(query) > 0 {
		req.URI().SetQueryString(query.Encode())
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("%s: %w", action, err)
	}

	if !public {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.session.Token)
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			fiber.ReleaseAgent(a)
			return fmt.Errorf("%s: encode request: %w", action, err)
		}
		a.ContentType(fiber.MIMEApplicationJSON)
		a.Body(raw)
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	a.Timeout(timeout)

	status, raw, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", action, errors.Join(errs...))
	}

	if status < 200 || status >= 300 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return invoice.ClassifyStatus(status, action, eb.Error)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", action, err)
	}
	return nil
}
