package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-backoffice/internal/invoice"
	"go-backoffice/internal/metrics"
	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
	"go-backoffice/pkg/logger"
)

// DraftView is a draft as returned to the console. Applied is false when the
// last mutation was rejected locally and left the draft unchanged.
type DraftView struct {
	ID      uuid.UUID `json:"id"`
	Applied bool      `json:"applied"`
	invoice.Draft
}

// DraftService hosts one invoice composer per draft. A draft belongs to the
// user that created it; everyone else gets ErrDraftNotFound.
type DraftService interface {
	Create(ctx context.Context, actor Actor) (*DraftView, error)
	Get(ctx context.Context, id uuid.UUID, actor Actor) (*DraftView, error)
	SelectClient(ctx context.Context, id, clientID uuid.UUID, actor Actor) (*DraftView, error)
	AddLine(ctx context.Context, id, productID uuid.UUID, quantity int, actor Actor) (*DraftView, error)
	SetQuantity(ctx context.Context, id, productID uuid.UUID, quantity int, actor Actor) (*DraftView, error)
	Increment(ctx context.Context, id, productID uuid.UUID, actor Actor) (*DraftView, error)
	Decrement(ctx context.Context, id, productID uuid.UUID, actor Actor) (*DraftView, error)
	Remove(ctx context.Context, id, productID uuid.UUID, actor Actor) (*DraftView, error)
	Submit(ctx context.Context, id uuid.UUID, observations string, actor Actor) (*invoice.Submission, error)
	Discard(ctx context.Context, id uuid.UUID, actor Actor) error
	Prune(maxIdle time.Duration) int
}

type draftSession struct {
	mu       sync.Mutex
	owner    uuid.UUID
	composer *invoice.Composer
	touched  time.Time
}

type draftService struct {
	invoices    InvoiceService
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	metrics     *metrics.Metrics
	log         logger.Logger
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*draftSession
}

func NewDraftService(
	invoices InvoiceService,
	pRepo repository.ProductRepository,
	cRepo repository.ClientRepository,
	m *metrics.Metrics,
	log logger.Logger,
) DraftService {
	return &draftService{
		invoices:    invoices,
		productRepo: pRepo,
		clientRepo:  cRepo,
		metrics:     m,
		log:         log,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*draftSession),
	}
}

func (s *draftService) Create(ctx context.Context, actor Actor) (*DraftView, error) {
	if actor.ID == uuid.Nil {
		return nil, ErrInvalidCredentials
	}
	id := uuid.New()
	sess := &draftSession{
		owner: actor.ID,
		composer: invoice.NewComposer(
			actorIdentity(actor),
			&serviceStore{invoices: s.invoices, actor: actor},
			invoice.WithLogger(s.log.With("draft_id", id.String())),
		),
		touched: s.now(),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.log.DebugContext(ctx, "draft created", "draft_id", id, "user_id", actor.ID)
	return &DraftView{ID: id, Applied: true, Draft: sess.composer.Draft()}, nil
}

func (s *draftService) session(id uuid.UUID, actor Actor) (*draftSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || sess.owner != actor.ID {
		return nil, ErrDraftNotFound
	}
	return sess, nil
}

// mutate runs fn on the draft's composer with the session locked.
func (s *draftService) mutate(id uuid.UUID, actor Actor, op string, fn func(c *invoice.Composer) bool) (*DraftView, error) {
	sess, err := s.session(id, actor)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	applied := fn(sess.composer)
	sess.touched = s.now()
	if op != "" {
		s.metrics.DraftOp(op, applied)
	}
	return &DraftView{ID: id, Applied: applied, Draft: sess.composer.Draft()}, nil
}

func (s *draftService) Get(_ context.Context, id uuid.UUID, actor Actor) (*DraftView, error) {
	return s.mutate(id, actor, "", func(*invoice.Composer) bool { return true })
}

func (s *draftService) SelectClient(ctx context.Context, id, clientID uuid.UUID, actor Actor) (*DraftView, error) {
	if _, err := s.session(id, actor); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	return s.mutate(id, actor, "select_client", func(c *invoice.Composer) bool {
		c.SelectClient(*client)
		return true
	})
}

// AddLine looks the product up now so the line snapshots current price and stock.
func (s *draftService) AddLine(ctx context.Context, id, productID uuid.UUID, quantity int, actor Actor) (*DraftView, error) {
	if _, err := s.session(id, actor); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return s.mutate(id, actor, "add_line", func(c *invoice.Composer) bool {
		return c.AddLineItem(*product, quantity)
	})
}

func (s *draftService) SetQuantity(_ context.Context, id, productID uuid.UUID, quantity int, actor Actor) (*DraftView, error) {
	return s.mutate(id, actor, "set_quantity", func(c *invoice.Composer) bool {
		return c.SetLineQuantity(productID, quantity)
	})
}

func (s *draftService) Increment(_ context.Context, id, productID uuid.UUID, actor Actor) (*DraftView, error) {
	return s.mutate(id, actor, "increment", func(c *invoice.Composer) bool {
		return c.IncrementLine(productID)
	})
}

func (s *draftService) Decrement(_ context.Context, id, productID uuid.UUID, actor Actor) (*DraftView, error) {
	return s.mutate(id, actor, "decrement", func(c *invoice.Composer) bool {
		return c.DecrementLine(productID)
	})
}

func (s *draftService) Remove(_ context.Context, id, productID uuid.UUID, actor Actor) (*DraftView, error) {
	return s.mutate(id, actor, "remove", func(c *invoice.Composer) bool {
		return c.RemoveLineItem(productID)
	})
}

func (s *draftService) Submit(ctx context.Context, id uuid.UUID, observations string, actor Actor) (*invoice.Submission, error) {
	sess, err := s.session(id, actor)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sub, err := sess.composer.Submit(ctx, observations)
	sess.touched = s.now()
	s.metrics.Submission(err)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *draftService) Discard(ctx context.Context, id uuid.UUID, actor Actor) error {
	if _, err := s.session(id, actor); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	s.log.DebugContext(ctx, "draft discarded", "draft_id", id, "user_id", actor.ID)
	return nil
}

// Prune drops drafts untouched for longer than maxIdle and reports how many went.
func (s *draftService) Prune(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.touched.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// actorIdentity resolves the composer's user to the authenticated actor.
type actorIdentity Actor

func (a actorIdentity) CurrentUserID(context.Context) (uuid.UUID, error) {
	if a.ID == uuid.Nil {
		return uuid.Nil, &invoice.UpstreamError{Kind: invoice.KindUnauthorized, Action: "resolve the current user"}
	}
	return a.ID, nil
}

// serviceStore feeds composer submissions straight into InvoiceService.
type serviceStore struct {
	invoices InvoiceService
	actor    Actor
}

func (s *serviceStore) CreateInvoice(ctx context.Context, req invoice.CreateInvoiceRequest) error {
	if _, err := s.invoices.Create(ctx, &req, s.actor); err != nil {
		return upstreamError("create the invoice", err)
	}
	return nil
}

func (s *serviceStore) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	list, err := s.invoices.List(ctx)
	if err != nil {
		return nil, upstreamError("load invoices", err)
	}
	return list, nil
}

func upstreamError(action string, err error) error {
	kind := invoice.KindUnknown
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidInvoice), errors.Is(err, ErrClientNotFound):
		kind = invoice.KindValidation
	case errors.Is(err, ErrInvoiceExists):
		kind = invoice.KindConflict
	}
	return &invoice.UpstreamError{Kind: kind, Action: action, Message: err.Error()}
}
