package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64) Product {
	return Product{ID: id, Category: 1, Name: "item", Price: 100 * id}
}

func TestBasket_AddRemoveWalkthrough(t *testing.T) {
	b := NewBasket(nil)
	p := product(1)

	b.Add(p)
	assert.Equal(t, []BasketLine{{Quantity: 1, Product: p}}, b.Lines)

	b.Add(p)
	assert.Equal(t, []BasketLine{{Quantity: 2, Product: p}}, b.Lines)

	assert.True(t, b.Remove(1))
	assert.Equal(t, []BasketLine{{Quantity: 1, Product: p}}, b.Lines)

	assert.True(t, b.Remove(1))
	assert.Empty(t, b.Lines)
}

func TestBasket_AddKeepsFirstAddOrder(t *testing.T) {
	b := NewBasket(nil)
	b.Add(product(3))
	b.Add(product(1))
	b.Add(product(3))
	b.Add(product(2))

	require.Len(t, b.Lines, 3)
	assert.Equal(t, int64(3), b.Lines[0].Product.ID)
	assert.Equal(t, 2, b.Lines[0].Quantity)
	assert.Equal(t, int64(1), b.Lines[1].Product.ID)
	assert.Equal(t, int64(2), b.Lines[2].Product.ID)
}

func TestBasket_RemoveAbsentIsNoop(t *testing.T) {
	b := NewBasket(nil)
	b.Add(product(1))
	before := b.Clone()

	assert.False(t, b.Remove(42))
	assert.Equal(t, before.Lines, b.Lines)
}

func TestBasket_RemoveMiddleLine(t *testing.T) {
	b := NewBasket(nil)
	b.Add(product(1))
	b.Add(product(2))
	b.Add(product(3))

	b.Remove(2)

	require.Len(t, b.Lines, 2)
	assert.Equal(t, int64(1), b.Lines[0].Product.ID)
	assert.Equal(t, int64(3), b.Lines[1].Product.ID)
}

func TestBasket_ClearEmptiesAnyBasket(t *testing.T) {
	b := NewBasket(nil)
	for i := int64(1); i <= 5; i++ {
		b.Add(product(i))
		b.Add(product(i))
	}

	b.Clear()

	assert.True(t, b.IsEmpty())
	assert.Equal(t, 0, b.ItemCount())
	assert.NotNil(t, b.Lines)
}

// For any add/remove sequence, quantity(p) is adds minus removes clamped at
// zero and there is never a line with quantity zero or a duplicate line.
func TestBasket_QuantityMatchesAddsMinusRemoves(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for run := 0; run < 200; run++ {
		b := NewBasket(nil)
		expected := map[int64]int{}

		for step := 0; step < 50; step++ {
			id := rng.Int64N(4) + 1
			if rng.IntN(2) == 0 {
				b.Add(product(id))
				expected[id]++
			} else {
				b.Remove(id)
				if expected[id] > 0 {
					expected[id]--
				}
			}
		}

		seen := map[int64]bool{}
		for _, l := range b.Lines {
			require.GreaterOrEqual(t, l.Quantity, 1)
			require.False(t, seen[l.Product.ID], "duplicate line for %d", l.Product.ID)
			seen[l.Product.ID] = true
		}
		for id := int64(1); id <= 4; id++ {
			require.Equal(t, expected[id], b.Quantity(id))
			require.Equal(t, expected[id] > 0, b.FindLineIndex(id) >= 0)
		}
	}
}

func TestBasket_Totals(t *testing.T) {
	b := NewBasket(nil)
	b.Add(product(1))
	b.Add(product(1))
	b.Add(product(3))

	assert.Equal(t, 3, b.ItemCount())
	assert.Equal(t, int64(2*100+300), b.TotalAmount())
}

func TestBasket_CloneIsIndependent(t *testing.T) {
	b := NewBasket(nil)
	b.Add(product(1))
	c := b.Clone()

	b.Add(product(1))
	b.Add(product(2))

	assert.Equal(t, 1, c.Quantity(1))
	assert.Equal(t, 0, c.Quantity(2))
}

func TestNewBasket_NormalisesLines(t *testing.T) {
	b := NewBasket([]BasketLine{
		{Quantity: 1, Product: product(1)},
		{Quantity: 0, Product: product(2)},
		{Quantity: 2, Product: product(1)},
	})

	require.Len(t, b.Lines, 1)
	assert.Equal(t, 3, b.Quantity(1))
}
