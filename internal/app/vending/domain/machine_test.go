package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := NewMachine(CurrencySEK, nil)
	require.NoError(t, err)
	return m
}

func TestNewMachine(t *testing.T) {
	t.Run("empty denominations select the default set", func(t *testing.T) {
		m := newTestMachine(t)
		assert.Equal(t, []int64{1, 2, 5, 10, 20, 50, 100, 500, 1000}, m.AllowedCoins())
		assert.Equal(t, int64(0), m.Balance())
	})

	t.Run("custom denominations are kept", func(t *testing.T) {
		m, err := NewMachine(CurrencyUSD, []int64{25, 10, 5})
		require.NoError(t, err)
		assert.Equal(t, []int64{25, 10, 5}, m.AllowedCoins())
	})

	t.Run("unknown currency fails", func(t *testing.T) {
		_, err := NewMachine("EUR", nil)
		assert.ErrorIs(t, err, ErrInvalidCurrencyCode)
	})

	t.Run("non-positive or duplicate denominations fail", func(t *testing.T) {
		_, err := NewMachine(CurrencySEK, []int64{1, 0})
		assert.ErrorIs(t, err, ErrInvalidDenomination)

		_, err = NewMachine(CurrencySEK, []int64{5, 5})
		assert.ErrorIs(t, err, ErrInvalidDenomination)
	})

	t.Run("returned coin slice is a copy", func(t *testing.T) {
		m := newTestMachine(t)
		coins := m.AllowedCoins()
		coins[0] = 9999
		assert.Equal(t, int64(1), m.AllowedCoins()[0])
	})
}

func TestMachine_Insert(t *testing.T) {
	m := newTestMachine(t)

	t.Run("accepted coin increases balance by its value", func(t *testing.T) {
		require.NoError(t, m.Insert(10))
		require.NoError(t, m.Insert(5))
		assert.Equal(t, int64(15), m.Balance())
	})

	t.Run("rejected coin leaves balance unchanged", func(t *testing.T) {
		err := m.Insert(3)
		assert.ErrorIs(t, err, ErrInvalidDenomination)
		assert.Equal(t, int64(15), m.Balance())
	})
}

func TestMachine_Purchase(t *testing.T) {
	t.Run("unknown product", func(t *testing.T) {
		m := newTestMachine(t)
		_, err := m.Purchase("Vether")
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Equal(t, int64(0), m.Balance())
	})

	t.Run("balance too low", func(t *testing.T) {
		m := newTestMachine(t)
		require.NoError(t, m.Insert(1))
		_, err := m.Purchase("Banana") // price 2
		assert.ErrorIs(t, err, ErrBalanceTooLow)
		assert.Equal(t, int64(1), m.Balance())
	})

	t.Run("success reduces balance by price and returns usage", func(t *testing.T) {
		m := newTestMachine(t)
		require.NoError(t, m.Insert(10))
		usage, err := m.Purchase("Tomato") // price 5
		require.NoError(t, err)
		assert.Equal(t, "throw it at some annoying person", usage)
		assert.Equal(t, int64(5), m.Balance())
	})

	t.Run("second purchase fails once balance drops below price", func(t *testing.T) {
		m := newTestMachine(t)
		require.NoError(t, m.Insert(2))
		_, err := m.Purchase("Banana")
		require.NoError(t, err)

		_, err = m.Purchase("Banana")
		assert.ErrorIs(t, err, ErrBalanceTooLow)
		assert.Equal(t, int64(0), m.Balance())
	})
}

func TestMachine_EndTransaction(t *testing.T) {
	t.Run("greedy decomposition of the balance", func(t *testing.T) {
		m := newTestMachine(t)
		for _, v := range []int64{10, 10, 10, 2, 2, 2, 1, 1, 1} {
			require.NoError(t, m.Insert(v))
		}
		require.Equal(t, int64(39), m.Balance())

		change := m.EndTransaction()
		assert.Equal(t, map[int64]int64{20: 1, 10: 1, 5: 1, 2: 2}, change)
		assert.Equal(t, int64(0), m.Balance())
	})

	t.Run("zero balance returns no coins", func(t *testing.T) {
		m := newTestMachine(t)
		assert.Empty(t, m.EndTransaction())
		assert.Equal(t, int64(0), m.Balance())
	})

	t.Run("indivisible remainder is forfeited", func(t *testing.T) {
		m, err := NewMachine(CurrencySEK, []int64{5, 2})
		require.NoError(t, err)
		require.NoError(t, m.Insert(5))
		require.NoError(t, m.Insert(2))
		require.NoError(t, m.Insert(2))
		require.NoError(t, m.Insert(2))
		// balance 11: two 5s leave 1, which no coin can represent

		change := m.EndTransaction()
		assert.Equal(t, map[int64]int64{5: 2}, change)
		assert.Equal(t, int64(0), m.Balance())
	})

	t.Run("returned value never exceeds the prior balance", func(t *testing.T) {
		m, err := NewMachine(CurrencyUSD, []int64{25, 10})
		require.NoError(t, err)
		require.NoError(t, m.Insert(25))
		require.NoError(t, m.Insert(10))
		require.NoError(t, m.Insert(10))
		before := m.Balance()

		var returned int64
		for denom, count := range m.EndTransaction() {
			returned += denom * count
		}
		assert.LessOrEqual(t, returned, before)
		assert.Equal(t, int64(0), m.Balance())
	})
}

func TestMachine_FullLifecycle(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	m := newTestMachine(t)

	ok, err := m.TryAddProduct("Volvo", "xyz", "abc", 1)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, m.Insert(1))

	ok, err = m.TryChangeProduct("Volvo", nil, strPtr("plough"), nil)
	require.NoError(t, err)
	require.True(t, ok)

	usage, err := m.Purchase("Volvo")
	require.NoError(t, err)
	assert.Equal(t, "plough", usage)
	assert.Equal(t, int64(0), m.Balance())

	assert.True(t, m.TryRemoveProduct("Volvo"))

	_, err = m.Purchase("Volvo")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMachine_FormattingAndQueries(t *testing.T) {
	m, err := NewMachine(CurrencyUSD, nil)
	require.NoError(t, err)
	require.NoError(t, m.Insert(10))

	assert.Equal(t, "$ 10", m.BalanceText())
	assert.Equal(t, "$ 42", m.AmountString(42))

	lowest, err := m.LowestPurchasePrice()
	require.NoError(t, err)
	assert.Equal(t, int64(2), lowest)

	assert.Len(t, m.AllProducts(), 3)
	assert.Empty(t, m.CustomProducts())
}
