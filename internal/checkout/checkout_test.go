package checkout_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/wagsales/internal/cart"
	"github.com/dukerupert/wagsales/internal/catalog"
	"github.com/dukerupert/wagsales/internal/checkout"
	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/events"
	"github.com/dukerupert/wagsales/internal/postal"
	"github.com/dukerupert/wagsales/internal/telemetry"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.UnixMilli(1700000000000).UTC()

func validDetails() checkout.Details {
	return checkout.Details{
		Customer: checkout.Customer{
			FullName: "Maria Silva",
			Email:    "maria@example.com",
			Phone:    "(11) 98765-4321",
			Document: "529.982.247-25",
		},
		Address: checkout.Address{
			PostalCode:   "01310-100",
			Street:       "Avenida Paulista",
			Number:       "1000",
			Neighborhood: "Bela Vista",
			City:         "São Paulo",
			State:        "sp",
		},
		Payment: checkout.Payment{Method: domain.PaymentPix},
	}
}

func TestValidCPF(t *testing.T) {
	tests := []struct {
		cpf  string
		want bool
	}{
		{"529.982.247-25", true},
		{"52998224725", true},
		{"111.444.777-35", true},
		{"529.982.247-26", false},
		{"000.000.000-00", false},
		{"111.111.111-11", false},
		{"5299822472", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.cpf, func(t *testing.T) {
			assert.Equal(t, tt.want, checkout.ValidCPF(tt.cpf))
		})
	}
}

func TestOrderNumber(t *testing.T) {
	a := uuid.MustParse("9f1c2d3e-0000-4000-8000-000000000001")
	b := uuid.MustParse("0a7b2d3e-0000-4000-8000-000000000002")

	assert.Equal(t, "WS-LOYW3V28-9F1C", checkout.OrderNumber(placedAt, a))
	assert.NotEqual(t, checkout.OrderNumber(placedAt, a), checkout.OrderNumber(placedAt, b),
		"same millisecond, different orders")
}

func TestService_Validate(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(d *checkout.Details)
		wantFields []string
	}{
		{"valid pix", func(d *checkout.Details) {}, nil},
		{"valid boleto", func(d *checkout.Details) { d.Payment.Method = "BOLETO" }, nil},
		{"valid credit", func(d *checkout.Details) {
			d.Payment = checkout.Payment{Method: domain.PaymentCredit, CardName: "MARIA SILVA",
				CardNumber: "4111 1111 1111 1111", CardExp: "12/29", CardCVV: "123", Installments: 3}
		}, nil},
		{"short name", func(d *checkout.Details) { d.Customer.FullName = " Al " }, []string{"customer.fullName"}},
		{"bad email", func(d *checkout.Details) { d.Customer.Email = "maria" }, []string{"customer.email"}},
		{"bad phone", func(d *checkout.Details) { d.Customer.Phone = "98765-432" }, []string{"customer.phone"}},
		{"bad cpf", func(d *checkout.Details) { d.Customer.Document = "529.982.247-26" }, []string{"customer.document"}},
		{"bad cep", func(d *checkout.Details) { d.Address.PostalCode = "01310" }, []string{"address.cep"}},
		{"missing street", func(d *checkout.Details) { d.Address.Street = "  " }, []string{"address.street"}},
		{"bad state", func(d *checkout.Details) { d.Address.State = "São" }, []string{"address.state"}},
		{"unknown method", func(d *checkout.Details) { d.Payment.Method = "cash" }, []string{"payment.method"}},
		{"too many installments", func(d *checkout.Details) { d.Payment.Installments = 13 }, []string{"payment.installments"}},
		{"credit without card", func(d *checkout.Details) { d.Payment.Method = domain.PaymentCredit },
			[]string{"payment.cardName", "payment.cardNumber", "payment.cardExp", "payment.cardCvv"}},
		{"credit with short card", func(d *checkout.Details) {
			d.Payment = checkout.Payment{Method: domain.PaymentCredit, CardName: "M",
				CardNumber: "4111 1111 111", CardExp: "1229", CardCVV: "12345"}
		}, []string{"payment.cardNumber", "payment.cardExp", "payment.cardCvv"}},
	}

	svc := checkout.NewService(checkout.Config{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.modify(&d)

			err := svc.Validate(d)

			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			fields := domain.GetValidationFields(err)
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
			assert.Len(t, fields, len(tt.wantFields))
		})
	}
}

func newCart(t *testing.T) (*cart.Engine, *catalog.Engine) {
	t.Helper()
	cat := catalog.NewEngine(catalog.SeedProducts())
	return cart.NewEngine(cart.Config{Catalog: cat}), cat
}

func TestService_PlaceOrder(t *testing.T) {
	c, cat := newCart(t)
	p, ok := cat.ProductByID("1")
	require.True(t, ok)
	c.Add(p, 2, nil)
	require.NoError(t, c.ApplyCoupon("FRETEGRATIS"))
	before := c.Summary()

	pub := &events.RecordingPublisher{}
	reg := prometheus.NewRegistry()
	svc := checkout.NewService(checkout.Config{
		Publisher: pub,
		Metrics:   telemetry.NewStoreMetrics("test", reg),
		Now:       func() time.Time { return placedAt },
	})

	order, err := svc.PlaceOrder(context.Background(), c, validDetails())
	require.NoError(t, err)

	assert.Equal(t, checkout.OrderNumber(placedAt, order.ID), order.Number)
	assert.True(t, strings.HasPrefix(order.Number, "WS-LOYW3V28-"))
	assert.NotEqual(t, [16]byte{}, [16]byte(order.ID))
	assert.Equal(t, before.Lines, order.Lines)
	assert.Equal(t, 2, order.ItemCount)
	assert.True(t, before.Total.Equal(order.Total))
	assert.Equal(t, "FRETEGRATIS", order.Coupon)
	assert.Equal(t, "SP", order.ShipTo.State)
	assert.Equal(t, "01310100", order.ShipTo.PostalCode)
	assert.Equal(t, domain.PaymentPix, order.PaymentMethod)
	assert.Equal(t, 1, order.Installments)

	assert.Empty(t, c.Lines(), "cart is cleared")
	assert.Empty(t, c.Coupon(), "coupon is removed")

	published := pub.Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeOrderPlaced, published[0].Type)
	assert.Equal(t, order.Number, published[0].Key)
	payload, err := events.Decode[domain.Order](published[0])
	require.NoError(t, err)
	assert.Equal(t, order.Number, payload.Number)
	assert.True(t, order.Total.Equal(payload.Total))
}

func TestService_PlaceOrderEmptyCart(t *testing.T) {
	c, _ := newCart(t)
	svc := checkout.NewService(checkout.Config{})

	order, err := svc.PlaceOrder(context.Background(), c, validDetails())

	assert.Nil(t, order)
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestService_PlaceOrderInvalidKeepsCart(t *testing.T) {
	c, cat := newCart(t)
	p, _ := cat.ProductByID("1")
	c.Add(p, 1, nil)
	pub := &events.RecordingPublisher{}
	svc := checkout.NewService(checkout.Config{Publisher: pub})

	d := validDetails()
	d.Customer.Email = ""
	order, err := svc.PlaceOrder(context.Background(), c, d)

	assert.Nil(t, order)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "customer.email")
	assert.Len(t, c.Lines(), 1)
	assert.Empty(t, pub.Published())
}

func TestService_PlaceOrderPublishFailureIsNotFatal(t *testing.T) {
	var logs bytes.Buffer
	c, cat := newCart(t)
	p, _ := cat.ProductByID("1")
	c.Add(p, 1, nil)
	svc := checkout.NewService(checkout.Config{
		Publisher: &events.RecordingPublisher{Err: errors.New("broker down")},
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
	})

	order, err := svc.PlaceOrder(context.Background(), c, validDetails())

	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Empty(t, c.Lines())
	assert.Contains(t, logs.String(), "failed to publish order event")
}

func TestService_FillAddress(t *testing.T) {
	lookup := postal.NewMockLookup(map[string]domain.Address{
		"01310100": {Street: "Avenida Paulista", Neighborhood: "Bela Vista", City: "São Paulo", State: "SP"},
	})
	svc := checkout.NewService(checkout.Config{Postal: lookup, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))})

	addr := svc.FillAddress(context.Background(), "01310-100")
	require.NotNil(t, addr)
	assert.Equal(t, "Avenida Paulista", addr.Street)

	assert.Nil(t, svc.FillAddress(context.Background(), "123"))
	assert.Nil(t, svc.FillAddress(context.Background(), "99999999"))

	lookup.LookupFunc = func(ctx context.Context, code string) (*domain.Address, error) {
		return nil, errors.New("timeout")
	}
	assert.Nil(t, svc.FillAddress(context.Background(), "01310100"))

	assert.Nil(t, checkout.NewService(checkout.Config{}).FillAddress(context.Background(), "01310100"))
}
