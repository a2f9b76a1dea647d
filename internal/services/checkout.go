package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	"github.com/Brooklss/Tech-EcoLab/internal/cache"
	"github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/metrics"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	repository "github.com/Brooklss/Tech-EcoLab/internal/repositories"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
	"github.com/Brooklss/Tech-EcoLab/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Checkout states. The terminal ones double as the outcome label of checkout_total.
const (
	stateStarted    = "started"
	stateLocking    = "locking"
	stateValidating = "validating"
	stateCommitting = "committing"

	OutcomeCommitted = "committed"
	OutcomeAborted   = "aborted"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

const notifyTimeout = 30 * time.Second

// LowStockNotifier is told about products whose stock fell to the alert threshold.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, items []models.LowStockItem) error
}

type CheckoutService interface {
	Checkout(ctx context.Context, sess *session.Session, req *models.CheckoutRequest) (*models.CheckoutResponse, error)
	// Wait blocks until in-flight low stock notifications have finished.
	Wait()
}

type CheckoutConfig struct {
	Timeout           time.Duration
	LowStockThreshold int64
}

type checkoutService struct {
	repo     repository.ProductRepository
	cache    cache.Cache
	notifier LowStockNotifier
	cfg      CheckoutConfig
	tracer   trace.Tracer
	pending  sync.WaitGroup
}

func NewCheckoutService(repo repository.ProductRepository, c cache.Cache, notifier LowStockNotifier, cfg CheckoutConfig) CheckoutService {
	if c == nil {
		c = cache.NewNoopCache()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &checkoutService{
		repo:     repo,
		cache:    c,
		notifier: notifier,
		cfg:      cfg,
		tracer:   otel.Tracer("github.com/Brooklss/Tech-EcoLab/internal/services"),
	}
}

// checkoutRun carries the per call state machine.
type checkoutRun struct {
	logger *slog.Logger
	span   trace.Span
	state  string
}

func (r *checkoutRun) enter(state string) {
	r.logger.Debug("Checkout state", slog.String("from", r.state), slog.String("to", state))
	r.span.AddEvent(state)
	r.state = state
}

func (r *checkoutRun) finish(outcome string, err error) {
	r.enter(outcome)
	r.span.SetAttributes(attribute.String("checkout.outcome", outcome))

	if err != nil && outcome == OutcomeFailed {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
	}

	metrics.RecordCheckout(outcome)
}

// Checkout validates and decrements stock for every line item as one unit of work. Items in
// the request win over the session cart. The cart is emptied only when it was the source.
func (s *checkoutService) Checkout(ctx context.Context, sess *session.Session, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {

	ctx, span := s.tracer.Start(ctx, "checkout")
	defer span.End()

	run := &checkoutRun{logger: middleware.LoggerFromContext(ctx), span: span}
	run.enter(stateStarted)

	items, fromCart, err := resolveItems(sess, req)
	if err != nil {
		run.finish(OutcomeRejected, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("checkout.items", len(items)),
		attribute.Bool("checkout.from_cart", fromCart),
	)

	// A disconnecting client must not leave a half applied decrement behind.
	txCtx, cancel := utils.WithDetachedTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	stock, err := s.apply(txCtx, run, items)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeInsufficientStock) {
			run.finish(OutcomeAborted, err)
		} else {
			run.logger.Error("Checkout transaction failed", slog.String("error", err.Error()))
			run.finish(OutcomeFailed, err)
			err = errors.TransactionFailureError().WithError(err)
		}

		return nil, err
	}

	run.finish(OutcomeCommitted, nil)

	if fromCart {
		sess.Cart = models.Cart{}
		sess.MarkModified()
	}

	s.afterCommit(ctx, items, stock)

	return &models.CheckoutResponse{OK: true}, nil
}

// apply runs lock, validate and decrement inside one stock transaction. It returns the stock
// levels read under lock.
func (s *checkoutService) apply(ctx context.Context, run *checkoutRun, items []models.LineItem) (map[int64]int64, error) {

	tx, err := s.repo.BeginStockTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := tx.Rollback(); err != nil {
			run.logger.Warn("Stock rollback failed", slog.String("error", err.Error()))
		}
	}()

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	slices.Sort(ids)

	run.enter(stateLocking)

	stock, err := tx.LockStock(ctx, ids)
	if err != nil {
		return nil, err
	}

	run.enter(stateValidating)

	var shortages []models.StockShortage
	for _, item := range items {
		if available := stock[item.ProductID]; available < item.Quantity {
			shortages = append(shortages, models.StockShortage{
				ID:        item.ProductID,
				Available: available,
				Requested: item.Quantity,
			})
		}
	}

	if len(shortages) > 0 {
		return nil, errors.InsufficientStockError(shortages)
	}

	run.enter(stateCommitting)

	for _, item := range items {
		if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return stock, nil
}

func (s *checkoutService) afterCommit(ctx context.Context, items []models.LineItem, before map[int64]int64) {

	logger := middleware.LoggerFromContext(ctx)

	ids := make([]int64, 0, len(items))
	var low []models.LowStockItem

	for _, item := range items {
		ids = append(ids, item.ProductID)

		remaining := before[item.ProductID] - item.Quantity
		if remaining <= s.cfg.LowStockThreshold {
			low = append(low, models.LowStockItem{ProductID: item.ProductID, Remaining: remaining})
		}
	}

	if err := s.cache.Delete(ctx, cache.ProductKeys(ids)...); err != nil {
		logger.Warn("Product cache invalidation failed", slog.Any("ids", ids), slog.String("error", err.Error()))
	}

	if s.notifier == nil || len(low) == 0 {
		return
	}

	notifyCtx, cancel := utils.WithDetachedTimeout(ctx, notifyTimeout)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()

		if err := s.notifier.NotifyLowStock(notifyCtx, low); err != nil {
			logger.Warn("Low stock notification failed", slog.String("error", err.Error()))
		}
	}()
}

func (s *checkoutService) Wait() {
	s.pending.Wait()
}

// resolveItems picks the request items when present, otherwise the cart, and returns them
// normalized with duplicate ids merged in first seen order.
func resolveItems(sess *session.Session, req *models.CheckoutRequest) ([]models.LineItem, bool, error) {

	var raw []models.LineItem
	fromCart := false

	switch {
	case req != nil && len(req.Items) > 0:
		for _, item := range req.Items {
			if line, ok := item.Normalize(); ok {
				raw = append(raw, line)
			}
		}
	case len(sess.Cart.Items) > 0:
		fromCart = true
		raw = models.LineItemsFromCart(&sess.Cart)
	default:
		return nil, false, errors.EmptyCartError()
	}

	if len(raw) == 0 {
		return nil, fromCart, errors.InvalidItemsError()
	}

	return mergeLineItems(raw), fromCart, nil
}

func mergeLineItems(items []models.LineItem) []models.LineItem {
	merged := make([]models.LineItem, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity = models.AddQuantity(merged[i].Quantity, item.Quantity)
			continue
		}

		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	return merged
}
