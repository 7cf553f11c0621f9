package loadgen

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() OrderProfile {
	return OrderProfile{
		MinItems:       1,
		MaxItems:       4,
		MinPrice:       500,
		MaxPrice:       5000,
		MaxQuantity:    3,
		PaymentMethods: []string{"cash", "mobile-payment"},
	}
}

func TestOrderFactory_NextIsValid(t *testing.T) {
	f := NewOrderFactory(testProfile(), 7)

	for i := 0; i < 50; i++ {
		c := f.Next()

		assert.NotEmpty(t, c.Customer.Name)
		assert.NotEmpty(t, c.Customer.Phone)
		assert.NotEmpty(t, c.Customer.Address)
		assert.Contains(t, []string{"cash", "mobile-payment"}, c.PaymentMethod)
		require.GreaterOrEqual(t, len(c.Items), 1)
		require.LessOrEqual(t, len(c.Items), 4)

		sum := decimal.Zero
		for _, it := range c.Items {
			assert.NotEmpty(t, it.Name)
			assert.GreaterOrEqual(t, it.Price, 500.0)
			assert.LessOrEqual(t, it.Price, 5000.0)
			assert.GreaterOrEqual(t, it.Quantity, 1)
			assert.LessOrEqual(t, it.Quantity, 3)
			sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		assert.True(t, sum.Equal(decimal.NewFromFloat(c.TotalAmount)), "total %v != lines %v", c.TotalAmount, sum)
	}
}

func TestOrderFactory_SeedIsReproducible(t *testing.T) {
	a := NewOrderFactory(testProfile(), 99)
	b := NewOrderFactory(testProfile(), 99)

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestOrderFactory_Chance(t *testing.T) {
	f := NewOrderFactory(testProfile(), 1)

	assert.False(t, f.Chance(0))
	assert.False(t, f.Chance(-1))
	assert.True(t, f.Chance(1))

	hits := 0
	for i := 0; i < 1000; i++ {
		if f.Chance(0.5) {
			hits++
		}
	}
	assert.InDelta(t, 500, hits, 100)
}
