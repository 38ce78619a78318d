package cart_test

import (
	"testing"

	"github.com/dukerupert/wagsales/internal/cart"
	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSnapshot(t *testing.T) {
	data, err := cart.EncodeSnapshot([]domain.CartLine{
		{ProductID: "1", Quantity: 2},
		{ProductID: "5", Quantity: 1, Selections: map[string]string{"size": "42"}},
	}, "BEMVINDO10")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":"1","qty":2},{"id":"5","qty":1,"v":{"size":"42"}}],"coupon":"BEMVINDO10"}`, string(data))

	data, err = cart.EncodeSnapshot(nil, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"coupon":null}`, string(data))
}

func TestDecodeSnapshot(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantItems  []domain.CartLine
		wantCoupon string
		wantErr    bool
	}{
		{
			name:       "current format",
			data:       `{"items":[{"id":"1","qty":2}],"coupon":"FRETEGRATIS"}`,
			wantItems:  []domain.CartLine{{ProductID: "1", Quantity: 2}},
			wantCoupon: "FRETEGRATIS",
		},
		{
			name:      "legacy bare array",
			data:      ` [{"id":"3","qty":1,"v":{"color":"azul"}}]`,
			wantItems: []domain.CartLine{{ProductID: "3", Quantity: 1, Selections: map[string]string{"color": "azul"}}},
		},
		{
			name:      "invalid lines dropped",
			data:      `{"items":[{"id":"","qty":2},{"id":"2","qty":0},{"id":"3","qty":-1},{"id":"4","qty":1}],"coupon":null}`,
			wantItems: []domain.CartLine{{ProductID: "4", Quantity: 1}},
		},
		{name: "garbage", data: `not json`, wantErr: true},
		{name: "empty", data: `   `, wantErr: true},
		{name: "wrong shape", data: `{"items":"nope"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := cart.DecodeSnapshot([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantItems, s.Items)
			if tt.wantCoupon == "" {
				assert.Nil(t, s.Coupon)
			} else {
				require.NotNil(t, s.Coupon)
				assert.Equal(t, tt.wantCoupon, *s.Coupon)
			}
		})
	}
}
