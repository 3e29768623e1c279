package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

const maxOrderNumberAttempts = 3

var tracer = otel.Tracer("shop-backend/usecase")

// OrderService turns carts into orders and manages them afterwards.
type OrderService struct {
	tx      repository.TxManager
	orders  repository.OrderLedger
	log     *slog.Logger
	events  EventPublisher
	metrics OrderMetrics
	numbers func() string
	now     func() time.Time
}

var _ OrderUsecase = (*OrderService)(nil)

type OrderOption func(*OrderService)

func WithEventPublisher(p EventPublisher) OrderOption {
	return func(s *OrderService) { s.events = p }
}

func WithOrderMetrics(m OrderMetrics) OrderOption {
	return func(s *OrderService) { s.metrics = m }
}

func WithOrderNumbers(gen func() string) OrderOption {
	return func(s *OrderService) { s.numbers = gen }
}

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func NewOrderService(tx repository.TxManager, orders repository.OrderLedger, log *slog.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{
		tx:      tx,
		orders:  orders,
		log:     log,
		events:  nopPublisher{},
		metrics: nopMetrics{},
		numbers: NewOrderNumber,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// CreateOrder converts the caller's cart into a pending order. Either every
// effect is applied (order stored, stock decremented, cart emptied) or none.
func (s *OrderService) CreateOrder(ctx context.Context, id entity.Identity, input CreateOrderInput) (entity.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(attribute.Int64("user.id", id.UserID)))
	defer span.End()

	if !id.Authenticated() {
		return entity.Order{}, entity.ErrUnauthorized
	}
	d, err := input.delivery()
	if err != nil {
		s.metrics.OrderRejected("validation")
		return entity.Order{}, err
	}

	var order entity.Order
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order, err = s.placeOrder(ctx, id.UserID, d)
		if !errors.Is(err, entity.ErrDuplicateOrderNumber) {
			break
		}
		s.log.Warn("order number collision", "user_id", id.UserID, "attempt", attempt)
	}
	if err != nil {
		return entity.Order{}, s.checkoutFailed(span, id.UserID, err)
	}

	span.SetAttributes(attribute.String("order.number", order.OrderNumber))
	s.metrics.OrderPlaced(order.TotalAmount)
	s.events.Publish(ctx, entity.NewOrderEvent(entity.EventOrderPlaced, order, s.now()))
	s.log.Info("order placed",
		"user_id", id.UserID,
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"items", len(order.Items),
		"total", order.TotalAmount.StringFixed(2),
	)
	return order, nil
}

func (s *OrderService) placeOrder(ctx context.Context, userID int64, d entity.Delivery) (entity.Order, error) {
	var order entity.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		items, err := tx.Carts().Items(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return entity.ErrEmptyCart
		}

		for _, it := range items {
			p, err := tx.Catalog().Get(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if !p.InStock(it.Quantity) {
				return &entity.InsufficientStockError{
					ProductID: p.ID, ProductName: p.Name, Available: p.Stock, Requested: it.Quantity,
				}
			}
		}

		order = entity.NewOrder(userID, s.numbers(), items, d, s.now())
		if err := tx.Orders().Create(ctx, &order); err != nil {
			return err
		}

		// ascending product id keeps row lock order stable across checkouts
		for _, it := range byProductID(items) {
			if _, err := tx.Catalog().DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return tx.Carts().Clear(ctx, items)
	})
	if err != nil {
		return entity.Order{}, err
	}
	return order, nil
}

func (s *OrderService) checkoutFailed(span trace.Span, userID int64, err error) error {
	if entity.IsUserFacing(err) {
		reason := rejectReason(err)
		s.metrics.OrderRejected(reason)
		s.log.Warn("order rejected", "user_id", userID, "reason", reason, "err", err)
		span.SetAttributes(attribute.String("order.rejected", reason))
		return err
	}

	s.metrics.OrderRejected("error")
	span.RecordError(err)
	span.SetStatus(codes.Error, "create order failed")
	s.log.Error("create order failed", "user_id", userID, "err", err)

	var pe *entity.PersistenceError
	if errors.As(err, &pe) {
		return pe
	}
	return &entity.PersistenceError{Op: "create order", Err: err}
}

func rejectReason(err error) string {
	var stock *entity.InsufficientStockError
	switch {
	case errors.Is(err, entity.ErrEmptyCart):
		return "empty_cart"
	case errors.As(err, &stock):
		return "insufficient_stock"
	case errors.Is(err, entity.ErrCartChanged):
		return "cart_changed"
	case errors.Is(err, entity.ErrProductNotFound):
		return "product_not_found"
	default:
		return "validation"
	}
}

func byProductID(items []entity.CartItem) []entity.CartItem {
	out := append([]entity.CartItem(nil), items...)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// UpdateOrderStatus moves an order along its lifecycle. Only admins may call it.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id entity.Identity, orderID int64, status string) (entity.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateOrderStatus", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	if err := requireAdmin(id); err != nil {
		return entity.Order{}, err
	}
	next, err := entity.ParseOrderStatus(status)
	if err != nil {
		return entity.Order{}, err
	}

	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return entity.Order{}, s.storeErr("get order", err)
	}
	if !current.Status.CanTransitionTo(next) {
		return entity.Order{}, &entity.InvalidTransitionError{From: current.Status, To: next}
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, current.Status, next, s.now())
	if err != nil {
		return entity.Order{}, s.storeErr("update order status", err)
	}

	s.metrics.StatusChanged(current.Status, next)
	ev := entity.NewOrderEvent(entity.EventOrderStatusChanged, updated, s.now())
	ev.Previous = current.Status
	s.events.Publish(ctx, ev)
	s.log.Info("order status changed",
		"order_id", orderID,
		"order_number", updated.OrderNumber,
		"from", current.Status,
		"to", next,
		"by", id.UserID,
	)
	return updated, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id entity.Identity, orderID int64) (entity.Order, error) {
	if !id.Authenticated() {
		return entity.Order{}, entity.ErrUnauthorized
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return entity.Order{}, s.storeErr("get order", err)
	}
	if !id.CanView(o.UserID) {
		return entity.Order{}, entity.ErrForbidden
	}
	return o, nil
}

func (s *OrderService) GetOrderByOrderNumber(ctx context.Context, id entity.Identity, number string) (entity.Order, error) {
	if !id.Authenticated() {
		return entity.Order{}, entity.ErrUnauthorized
	}
	o, err := s.orders.GetByOrderNumber(ctx, number)
	if err != nil {
		return entity.Order{}, s.storeErr("get order by number", err)
	}
	if !id.CanView(o.UserID) {
		return entity.Order{}, entity.ErrForbidden
	}
	return o, nil
}

// GetOrdersByUser lists the caller's own orders, oldest first.
func (s *OrderService) GetOrdersByUser(ctx context.Context, id entity.Identity) ([]entity.Order, error) {
	if !id.Authenticated() {
		return nil, entity.ErrUnauthorized
	}
	out, err := s.orders.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, s.storeErr("list user orders", err)
	}
	return out, nil
}

func (s *OrderService) GetAllOrders(ctx context.Context, id entity.Identity) ([]entity.Order, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	out, err := s.orders.List(ctx)
	if err != nil {
		return nil, s.storeErr("list orders", err)
	}
	return out, nil
}

func (s *OrderService) GetOrdersByStatus(ctx context.Context, id entity.Identity, status string) ([]entity.Order, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	st, err := entity.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	out, err := s.orders.ListByStatus(ctx, st)
	if err != nil {
		return nil, s.storeErr("list orders by status", err)
	}
	return out, nil
}

// GetTotalSales sums the totals of settled orders only.
func (s *OrderService) GetTotalSales(ctx context.Context, id entity.Identity) (decimal.Decimal, error) {
	if err := requireAdmin(id); err != nil {
		return decimal.Zero, err
	}
	total, err := s.orders.SumTotal(ctx, entity.SettledStatuses)
	if err != nil {
		return decimal.Zero, s.storeErr("sum sales", err)
	}
	return total, nil
}

func (s *OrderService) GetTotalOrders(ctx context.Context, id entity.Identity) (int64, error) {
	if err := requireAdmin(id); err != nil {
		return 0, err
	}
	n, err := s.orders.Count(ctx)
	if err != nil {
		return 0, s.storeErr("count orders", err)
	}
	return n, nil
}

// GetSalesReport derives every figure from one read of the ledger, so the
// sales total, the order count and the per-status counts agree.
func (s *OrderService) GetSalesReport(ctx context.Context, id entity.Identity) (SalesReport, error) {
	ctx, span := tracer.Start(ctx, "OrderService.GetSalesReport")
	defer span.End()

	if err := requireAdmin(id); err != nil {
		return SalesReport{}, err
	}
	totals, err := s.orders.TotalsByStatus(ctx)
	if err != nil {
		return SalesReport{}, s.storeErr("order totals by status", err)
	}

	report := SalesReport{TotalSales: decimal.Zero, ByStatus: make(map[entity.OrderStatus]int64, len(totals))}
	for st, t := range totals {
		report.ByStatus[st] = t.Count
		report.TotalOrders += t.Count
		if st.Settled() {
			report.TotalSales = report.TotalSales.Add(t.Amount)
		}
	}
	return report, nil
}

// storeErr passes domain errors through and hides everything else behind a
// PersistenceError.
func (s *OrderService) storeErr(op string, err error) error {
	if entity.IsUserFacing(err) {
		return err
	}
	s.log.Error(op+" failed", "err", err)
	return &entity.PersistenceError{Op: op, Err: err}
}

func requireAdmin(id entity.Identity) error {
	if !id.Authenticated() {
		return entity.ErrUnauthorized
	}
	if !id.IsAdmin() {
		return entity.ErrForbidden
	}
	return nil
}
