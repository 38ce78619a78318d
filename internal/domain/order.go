package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the accepted checkout payment methods.
type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "credit"
	PaymentPix    PaymentMethod = "pix"
	PaymentBoleto PaymentMethod = "boleto"
)

// Order is the confirmation record produced by a completed checkout.
// Nothing is charged; the order captures the cart as it was when placed.
type Order struct {
	ID            uuid.UUID          `json:"id"`
	Number        string             `json:"number"`
	Lines         []DetailedCartLine `json:"lines"`
	ItemCount     int                `json:"itemCount"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Shipping      decimal.Decimal    `json:"shipping"`
	Total         decimal.Decimal    `json:"total"`
	Coupon        string             `json:"coupon,omitempty"`
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	PaymentMethod PaymentMethod      `json:"paymentMethod"`
	Installments  int                `json:"installments"`
	ShipTo        Address            `json:"shipTo"`
	PlacedAt      time.Time          `json:"placedAt"`
}

// Address is a Brazilian postal address as collected at checkout.
type Address struct {
	PostalCode   string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}
