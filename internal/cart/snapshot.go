package cart

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/dukerupert/wagsales/internal/domain"
)

// Snapshot is the persisted form of a cart.
type Snapshot struct {
	Items  []domain.CartLine `json:"items"`
	Coupon *string           `json:"coupon"`
}

// EncodeSnapshot serializes lines and the active coupon code ("" for none).
func EncodeSnapshot(lines []domain.CartLine, coupon string) ([]byte, error) {
	s := Snapshot{Items: lines}
	if s.Items == nil {
		s.Items = []domain.CartLine{}
	}
	if coupon != "" {
		s.Coupon = &coupon
	}
	return json.Marshal(s)
}

// DecodeSnapshot parses a stored cart. Both the current object form and the
// legacy bare array of lines are accepted. Lines without a product id or with a
// non-positive quantity are dropped.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return Snapshot{}, errors.New("empty snapshot")
	}

	var s Snapshot
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &s.Items); err != nil {
			return Snapshot{}, err
		}
	} else if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}

	kept := s.Items[:0]
	for _, line := range s.Items {
		if line.ProductID == "" || line.Quantity <= 0 {
			continue
		}
		kept = append(kept, line)
	}
	s.Items = kept
	return s, nil
}
