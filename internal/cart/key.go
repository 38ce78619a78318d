package cart

import (
	"slices"
	"strings"
)

// MakeKey derives the line identity for a product and its variant selections.
// Without selections the key is the bare product id; otherwise the pairs are
// sorted by type and rendered as "id:type=value|type=value". The format is
// part of the persisted snapshot and must stay stable.
func MakeKey(productID string, selections map[string]string) string {
	if len(selections) == 0 {
		return productID
	}

	types := make([]string, 0, len(selections))
	for typ := range selections {
		types = append(types, typ)
	}
	slices.Sort(types)

	pairs := make([]string, len(types))
	for i, typ := range types {
		pairs[i] = typ + "=" + selections[typ]
	}
	return productID + ":" + strings.Join(pairs, "|")
}
