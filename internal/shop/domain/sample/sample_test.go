package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts(t *testing.T) {
	ps := Products()
	require.Len(t, ps, 14)

	seen := map[string]bool{}
	byCategory := map[string]int{}
	for _, p := range ps {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		byCategory[p.Category]++
		assert.GreaterOrEqual(t, p.Price, 0.0)
	}

	assert.GreaterOrEqual(t, byCategory["chicken"], 3)
	assert.Equal(t, 2, byCategory["drink"])
}

func TestProducts_FreshCopy(t *testing.T) {
	a := Products()
	a[0].Name = "changed"
	a[0].Options[0].Choices[0].Label = "changed"

	b := Products()
	assert.Equal(t, "ไก่ฮอทแอนด์สไปซี่", b[0].Name)
	assert.Equal(t, "น่อง", b[0].Options[0].Choices[0].Label)
}

func TestPromotions(t *testing.T) {
	ps := Promotions()
	require.Len(t, ps, 2)
	for _, p := range ps {
		assert.True(t, p.Active)
	}
}
