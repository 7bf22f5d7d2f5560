package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), EUR)
		require.NoError(t, err)
		assert.Equal(t, EUR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", EUR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", EUR)
		assert.Error(t, err)
	})
}

func TestNewMoneyEUR(t *testing.T) {
	m := NewMoneyEUR(decimal.NewFromFloat(50.00))
	assert.Equal(t, EUR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestZeroEUR(t *testing.T) {
	m := ZeroEUR()
	assert.True(t, m.IsZero())
	assert.Equal(t, EUR, m.Currency())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds amounts with same currency", func(t *testing.T) {
		a := NewMoneyEURFromFloat(10.50)
		b := NewMoneyEURFromFloat(5.25)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(15.75)))
	})

	t.Run("rejects different currencies", func(t *testing.T) {
		a := NewMoneyEURFromFloat(10)
		b, _ := NewMoney(decimal.NewFromInt(10), USD)
		_, err := a.Add(b)
		assert.Error(t, err)
	})
}

func TestMoneySubtract(t *testing.T) {
	t.Run("subtracts amounts", func(t *testing.T) {
		a := NewMoneyEURFromFloat(10)
		b := NewMoneyEURFromFloat(4)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(6)))
	})

	t.Run("allows negative results", func(t *testing.T) {
		a := NewMoneyEURFromFloat(4)
		b := NewMoneyEURFromFloat(10)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("rejects different currencies", func(t *testing.T) {
		a := NewMoneyEURFromFloat(10)
		b, _ := NewMoney(decimal.NewFromInt(4), GBP)
		_, err := a.Subtract(b)
		assert.Error(t, err)
	})
}

func TestMoneyMultiply(t *testing.T) {
	m := NewMoneyEURFromFloat(12.50)
	result := m.Multiply(decimal.NewFromInt(3))
	assert.True(t, result.Amount().Equal(decimal.NewFromFloat(37.50)))
	assert.Equal(t, EUR, result.Currency())
}

func TestMoneyDivide(t *testing.T) {
	t.Run("divides amount", func(t *testing.T) {
		m := NewMoneyEURFromFloat(10)
		result, err := m.Divide(decimal.NewFromInt(4))
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(2.5)))
	})

	t.Run("rejects division by zero", func(t *testing.T) {
		m := NewMoneyEURFromFloat(10)
		_, err := m.Divide(decimal.Zero)
		assert.Error(t, err)
	})
}

func TestMoneyComparisons(t *testing.T) {
	a := NewMoneyEURFromFloat(5)
	b := NewMoneyEURFromFloat(10)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	c, _ := NewMoney(decimal.NewFromInt(5), USD)
	_, err = a.LessThan(c)
	assert.Error(t, err)
}

func TestMoneyEquals(t *testing.T) {
	a := NewMoneyEURFromFloat(9.99)
	b := NewMoneyEURFromFloat(9.99)
	c, _ := NewMoney(decimal.NewFromFloat(9.99), USD)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestMoneyString(t *testing.T) {
	m := NewMoneyEURFromFloat(1234.5)
	assert.Equal(t, "1234.50 EUR", m.String())
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshals amount and currency", func(t *testing.T) {
		m := NewMoneyEURFromFloat(42.75)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"42.75","currency":"EUR"}`, string(data))
	})

	t.Run("unmarshals back", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"42.75","currency":"EUR"}`), &m)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.75)))
		assert.Equal(t, EUR, m.Currency())
	})

	t.Run("rejects invalid amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"abc","currency":"EUR"}`), &m)
		assert.Error(t, err)
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		err := m.Scan("19.9900")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(19.99)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans float value", func(t *testing.T) {
		var m Money
		err := m.Scan(19.99)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(19.99)))
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		err := m.Scan(nil)
		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})
}

func TestMoneyFactory(t *testing.T) {
	t.Run("mints in its currency", func(t *testing.T) {
		f := NewMoneyFactory(USD)
		m := f.New(decimal.NewFromFloat(12.50))
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12.50)))
		assert.Equal(t, USD, f.Zero().Currency())
	})

	t.Run("empty currency falls back to the default", func(t *testing.T) {
		f := NewMoneyFactory("")
		assert.Equal(t, DefaultCurrency, f.Currency())
	})
}
