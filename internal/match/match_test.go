package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kevinseim/beanio-sub003/internal/match"
)

func TestNormalizeIdent(t *testing.T) {
	tests := map[string]string{
		"OrderID":    "orderid",
		"order_id":   "orderid",
		"order-id":   "orderid",
		"Order Id":   "orderid",
		"customer":   "customer",
		"":           "",
		"unit.price": "unitprice",
	}

	for in, want := range tests {
		assert.Equal(t, want, match.NormalizeIdent(in), in)
	}

	assert.True(t, match.SameIdent("UnitPrice", "unit_price"))
	assert.False(t, match.SameIdent("price", "prices"))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, match.Levenshtein("abc", "abc"))
	assert.Equal(t, 3, match.Levenshtein("", "abc"))
	assert.Equal(t, 1, match.Levenshtein("header", "headr"))
	assert.Equal(t, 3, match.Levenshtein("kitten", "sitting"))
	assert.Equal(t, 1, match.Levenshtein("naïve", "naive"))
}

func TestSuggest(t *testing.T) {
	candidates := []string{"header", "detail", "trailer", "headers"}

	assert.Equal(t, []string{"header", "headers"}, match.Suggest("headr", candidates, 3))
	assert.Equal(t, []string{"header"}, match.Suggest("headr", candidates, 1))
	assert.Empty(t, match.Suggest("zzz", candidates, 3))
	assert.InDelta(t, 1.0, match.Score("Order_ID", "orderId"), 1e-9)
}
