package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestResolve_NoDiscount(t *testing.T) {
	price, err := Resolve(59.99, nil)
	require.NoError(t, err)

	assert.Equal(t, 59.99, price.CurrentPrice)
	assert.Nil(t, price.OriginalPrice)
	assert.Nil(t, price.DiscountPercent)
}

func TestResolve_ZeroDiscount(t *testing.T) {
	price, err := Resolve(59.99, intPtr(0))
	require.NoError(t, err)

	assert.Equal(t, 59.99, price.CurrentPrice)
	assert.Nil(t, price.OriginalPrice)
}

func TestResolve_LinearDiscount(t *testing.T) {
	price, err := Resolve(59.99, intPtr(25))
	require.NoError(t, err)

	assert.Equal(t, 44.99, price.CurrentPrice) // 59.99 * 0.75 = 44.9925
	require.NotNil(t, price.OriginalPrice)
	assert.Equal(t, 59.99, *price.OriginalPrice)
	require.NotNil(t, price.DiscountPercent)
	assert.Equal(t, 25, *price.DiscountPercent)
}

func TestResolve_FullDiscount(t *testing.T) {
	price, err := Resolve(59.99, intPtr(100))
	require.NoError(t, err)

	assert.Equal(t, float64(0), price.CurrentPrice)
	require.NotNil(t, price.OriginalPrice)
	assert.Equal(t, 59.99, *price.OriginalPrice)
}

func TestResolve_FreeGame(t *testing.T) {
	price, err := Resolve(0, nil)
	require.NoError(t, err)

	assert.Equal(t, float64(0), price.CurrentPrice)
	assert.Nil(t, price.OriginalPrice)
}

func TestResolve_RoundsHalfAwayFromZero(t *testing.T) {
	// 10.01 * 0.50 = 5.005, which rounds up to 5.01
	price, err := Resolve(10.01, intPtr(50))
	require.NoError(t, err)

	assert.Equal(t, 5.01, price.CurrentPrice)
}

func TestResolve_IdempotentOnOwnOutput(t *testing.T) {
	first, err := Resolve(59.99, intPtr(25))
	require.NoError(t, err)

	// Re-resolving the discounted price with no discount is the identity.
	second, err := Resolve(first.CurrentPrice, nil)
	require.NoError(t, err)
	assert.Equal(t, first.CurrentPrice, second.CurrentPrice)
	assert.Nil(t, second.OriginalPrice)
}

func TestResolve_NegativeBasePrice(t *testing.T) {
	_, err := Resolve(-1, nil)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestResolve_DiscountOutOfRange(t *testing.T) {
	_, err := Resolve(10, intPtr(101))
	assert.ErrorIs(t, err, ErrInvariantViolation)

	_, err = Resolve(10, intPtr(-1))
	assert.ErrorIs(t, err, ErrInvariantViolation)
}
