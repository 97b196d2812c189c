package service

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsMoney(t *testing.T) {
	a, b := 0.1, 0.2 // runtime sum carries float drift
	cases := []struct {
		in   float64
		want bool
	}{
		{0, true},
		{12.5, true},
		{25.99, true},
		{1e9, true},
		{a + b, false},
		{1.005, false},
		{-1, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsMoney(c.in), "IsMoney(%v)", c.in)
	}
}

func TestRound2AndPercent(t *testing.T) {
	assert.Equal(t, 52.5, Round2(52.499999999))
	a, b := 0.1, 0.2
	assert.NotEqual(t, 0.3, a+b)
	assert.Equal(t, 0.3, Round2(a+b))

	assert.Equal(t, 0.0, Percent(decimal.NewFromInt(5), decimal.Zero))
	assert.Equal(t, 33.33, Percent(decimal.NewFromInt(1), decimal.NewFromInt(3)))
	assert.Equal(t, 100.0, Percent(decimal.NewFromInt(60), decimal.NewFromInt(60)))

	assert.Equal(t, "0.3", Sum(0.1, 0.2).String())
}
