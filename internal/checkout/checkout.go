// Package checkout validates shopper details and turns a cart into an order.
// No payment is processed; the order is a confirmation record.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/wagsales/internal/cart"
	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/events"
	"github.com/dukerupert/wagsales/internal/postal"
	"github.com/dukerupert/wagsales/internal/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrEmptyCart is returned when placing an order for a cart without lines.
var ErrEmptyCart = &domain.Error{Code: domain.EINVALID, Op: "checkout.place_order", Message: "cart is empty"}

// Customer identifies the buyer.
type Customer struct {
	FullName string `json:"fullName" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Document string `json:"document" validate:"required,cpf"`
}

// Address is where the order ships.
type Address struct {
	PostalCode   string `json:"cep" validate:"required,cep"`
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required,uf"`
}

// Payment selects how the shopper pays. Card fields are only checked for
// credit card payments.
type Payment struct {
	Method       domain.PaymentMethod `json:"method" validate:"required,oneof=credit pix boleto"`
	CardName     string               `json:"cardName"`
	CardNumber   string               `json:"cardNumber"`
	CardExp      string               `json:"cardExp"`
	CardCVV      string               `json:"cardCvv"`
	Installments int                  `json:"installments" validate:"gte=1,lte=12"`
}

// Details is everything collected on the checkout form.
type Details struct {
	Customer Customer `json:"customer"`
	Address  Address  `json:"address"`
	Payment  Payment  `json:"payment"`
}

// normalize trims every field and upper-cases the state, the way the
// storefront form masks input.
func (d *Details) normalize() {
	for _, s := range []*string{
		&d.Customer.FullName, &d.Customer.Email, &d.Customer.Phone, &d.Customer.Document,
		&d.Address.PostalCode, &d.Address.Street, &d.Address.Number, &d.Address.Complement,
		&d.Address.Neighborhood, &d.Address.City, &d.Address.State,
		&d.Payment.CardName, &d.Payment.CardNumber, &d.Payment.CardExp, &d.Payment.CardCVV,
	} {
		*s = strings.TrimSpace(*s)
	}
	d.Address.State = strings.ToUpper(d.Address.State)
	d.Payment.Method = domain.PaymentMethod(strings.ToLower(strings.TrimSpace(string(d.Payment.Method))))
	if d.Payment.Installments == 0 {
		d.Payment.Installments = 1
	}
}

// Cart is what checkout needs from a cart engine.
type Cart interface {
	Summary() cart.Summary
	Clear()
	RemoveCoupon()
}

// Config wires a Service to its collaborators. All fields are optional.
type Config struct {
	Postal    postal.Lookup
	Publisher events.Publisher
	Metrics   *telemetry.StoreMetrics
	Logger    *slog.Logger
	Now       func() time.Time
}

// Service validates checkout details and places orders.
type Service struct {
	postal    postal.Lookup
	publisher events.Publisher
	metrics   *telemetry.StoreMetrics
	logger    *slog.Logger
	now       func() time.Time
	validate  *validator.Validate
}

// NewService creates a checkout service.
func NewService(cfg Config) *Service {
	s := &Service{
		postal:    cfg.Postal,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       cfg.Now,
		validate:  newValidator(),
	}
	if s.publisher == nil {
		s.publisher = events.NoopPublisher{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// FillAddress looks up cep and returns the address to prefill the form with,
// or nil when the code is malformed, unknown, or the lookup fails. Callers
// should drop the result if ctx was cancelled while waiting.
func (s *Service) FillAddress(ctx context.Context, cep string) *domain.Address {
	if s.postal == nil {
		return nil
	}

	addr, err := s.postal.Lookup(ctx, cep)
	switch {
	case err == nil:
		s.metrics.RecordPostalLookup("found")
		return addr
	case domain.IsCode(err, domain.ENOTFOUND), domain.IsCode(err, domain.EINVALID):
		s.metrics.RecordPostalLookup("not_found")
	default:
		s.metrics.RecordPostalLookup("failed")
		s.logger.Warn("postal code lookup failed", "cep", cep, "error", err)
	}
	return nil
}

// Validate checks d and returns a *domain.ValidationError listing every
// invalid field, keyed by its JSON path (e.g. "customer.document").
func (s *Service) Validate(d Details) error {
	d.normalize()
	return s.validateNormalized(d)
}

func (s *Service) validateNormalized(d Details) error {
	if err := s.validate.Struct(d); err != nil {
		return toValidationError("checkout.validate", err)
	}
	return nil
}

// PlaceOrder validates d, snapshots c into an order, publishes an
// order.placed event, and empties the cart. Publishing is best effort.
func (s *Service) PlaceOrder(ctx context.Context, c Cart, d Details) (*domain.Order, error) {
	summary := c.Summary()
	if len(summary.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	d.normalize()
	if err := s.validateNormalized(d); err != nil {
		return nil, err
	}

	now := s.now()
	id := uuid.New()
	order := &domain.Order{
		ID:            id,
		Number:        OrderNumber(now, id),
		Lines:         summary.Lines,
		ItemCount:     summary.ItemCount,
		Subtotal:      summary.Subtotal,
		Discount:      summary.Discount,
		Shipping:      summary.Shipping,
		Total:         summary.Total,
		Coupon:        summary.Coupon,
		CustomerName:  d.Customer.FullName,
		CustomerEmail: d.Customer.Email,
		PaymentMethod: d.Payment.Method,
		Installments:  d.Payment.Installments,
		ShipTo: domain.Address{
			PostalCode:   postal.Sanitize(d.Address.PostalCode),
			Street:       d.Address.Street,
			Number:       d.Address.Number,
			Complement:   d.Address.Complement,
			Neighborhood: d.Address.Neighborhood,
			City:         d.Address.City,
			State:        d.Address.State,
		},
		PlacedAt: now,
	}

	s.publish(ctx, order)
	s.metrics.RecordOrder(string(order.PaymentMethod), order.Total, order.ItemCount)

	c.Clear()
	c.RemoveCoupon()

	s.logger.Info("order placed",
		"order_number", order.Number,
		"items", order.ItemCount,
		"total", order.Total.StringFixed(2),
		"payment_method", order.PaymentMethod,
	)
	return order, nil
}

func (s *Service) publish(ctx context.Context, order *domain.Order) {
	env, err := events.NewEnvelope(events.TypeOrderPlaced, order.Number, order, order.PlacedAt)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("failed to publish order event", "order_number", order.Number, "error", err)
	}
}

// OrderNumber renders the shopper-facing order number: "WS-", the Unix
// milliseconds of t in upper-case base 36, then the first four hex digits of
// id so orders placed in the same millisecond stay distinct.
func OrderNumber(t time.Time, id uuid.UUID) string {
	return "WS-" + strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36)) +
		"-" + strings.ToUpper(id.String()[:4])
}
