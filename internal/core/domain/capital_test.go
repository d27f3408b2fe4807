package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func movement(dir domain.Direction, src domain.Source, amount string) domain.Movement {
	return domain.Movement{
		MovementID: "m",
		Direction:  dir,
		Source:     src,
		Category:   domain.CategoryFood,
		Amount:     dec(amount),
		Date:       time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC),
	}
}

func TestCapitalAccount_ApplyMovementRouting(t *testing.T) {
	now := time.Date(2025, 5, 25, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		m         domain.Movement
		wantBank  string
		wantCash  string
		wantOther string
	}{
		{name: "in bank", m: movement(domain.DirectionIn, domain.SourceBank, "100"), wantBank: "100", wantCash: "0", wantOther: "0"},
		{name: "out cash", m: movement(domain.DirectionOut, domain.SourceCash, "30"), wantBank: "0", wantCash: "-30", wantOther: "0"},
		{name: "in other", m: movement(domain.DirectionIn, domain.SourceOther, "0.01"), wantBank: "0", wantCash: "0", wantOther: "0.01"},
		{name: "out bank", m: movement(domain.DirectionOut, domain.SourceBank, "12.50"), wantBank: "-12.5", wantCash: "0", wantOther: "0"},
		{name: "sub-cent rounded", m: movement(domain.DirectionIn, domain.SourceCash, "1.234"), wantBank: "0", wantCash: "1.23", wantOther: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domain.NewCapitalAccount("c1", "u1", decimal.Zero, decimal.Zero, decimal.Zero, now)
			require.NoError(t, c.ApplyMovement(tt.m, now))

			assert.True(t, c.Bank.Equal(dec(tt.wantBank)), "bank = %s", c.Bank)
			assert.True(t, c.Cash.Equal(dec(tt.wantCash)), "cash = %s", c.Cash)
			assert.True(t, c.Other.Equal(dec(tt.wantOther)), "other = %s", c.Other)
			assert.True(t, c.IsConsistent())
			assert.Equal(t, domain.DateOnly(now), c.UpdatedOn)
		})
	}
}

func TestCapitalAccount_InvariantHoldsAcrossSequence(t *testing.T) {
	now := time.Now()
	c := domain.NewCapitalAccount("c1", "u1", dec("10"), dec("20"), dec("30"), now)
	require.True(t, c.IsConsistent())

	seq := []domain.Movement{
		movement(domain.DirectionIn, domain.SourceBank, "100"),
		movement(domain.DirectionOut, domain.SourceCash, "45.55"),
		movement(domain.DirectionIn, domain.SourceOther, "0.45"),
		movement(domain.DirectionOut, domain.SourceBank, "99.99"),
	}
	for _, m := range seq {
		require.NoError(t, c.ApplyMovement(m, now))
		assert.True(t, c.IsConsistent())
	}
	for i := len(seq) - 1; i >= 0; i-- {
		require.NoError(t, c.RevertMovement(seq[i], now))
		assert.True(t, c.IsConsistent())
	}

	assert.True(t, c.Bank.Equal(dec("10")))
	assert.True(t, c.Cash.Equal(dec("20")))
	assert.True(t, c.Other.Equal(dec("30")))
	assert.True(t, c.Total.Equal(dec("60")))
}

func TestCapitalAccount_ApplyRevertRoundTrip(t *testing.T) {
	now := time.Now()
	c := domain.NewCapitalAccount("c1", "u1", dec("5.10"), dec("7.20"), dec("0"), now)
	before := c

	m := movement(domain.DirectionOut, domain.SourceOther, "3.33")
	require.NoError(t, c.ApplyMovement(m, now))
	require.NoError(t, c.RevertMovement(m, now))

	assert.True(t, before.Bank.Equal(c.Bank))
	assert.True(t, before.Cash.Equal(c.Cash))
	assert.True(t, before.Other.Equal(c.Other))
	assert.True(t, before.Total.Equal(c.Total))
}

func TestCapitalAccount_ApplyRejectsUnknownSource(t *testing.T) {
	c := domain.NewCapitalAccount("c1", "u1", decimal.Zero, decimal.Zero, decimal.Zero, time.Now())
	err := c.ApplyMovement(movement(domain.DirectionIn, domain.Source("WALLET"), "1"), time.Now())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.True(t, c.Total.IsZero())
}

func TestCapitalAccount_Reset(t *testing.T) {
	c := domain.NewCapitalAccount("c1", "u1", dec("1"), dec("2"), dec("3"), time.Now())
	c.Reset(time.Now())
	assert.True(t, c.Total.IsZero())
	assert.True(t, c.IsConsistent())
}

func TestMovementDraft_Validate(t *testing.T) {
	valid := domain.MovementDraft{
		Direction: domain.DirectionOut,
		Source:    domain.SourceCash,
		Category:  domain.CategoryFood,
		Amount:    dec("1"),
		Date:      time.Now(),
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(d *domain.MovementDraft)
	}{
		{"zero amount", func(d *domain.MovementDraft) { d.Amount = decimal.Zero }},
		{"negative amount", func(d *domain.MovementDraft) { d.Amount = dec("-1") }},
		{"rounds to zero", func(d *domain.MovementDraft) { d.Amount = dec("0.004") }},
		{"bad direction", func(d *domain.MovementDraft) { d.Direction = "SIDEWAYS" }},
		{"bad source", func(d *domain.MovementDraft) { d.Source = "" }},
		{"bad category", func(d *domain.MovementDraft) { d.Category = "PETS" }},
		{"missing date", func(d *domain.MovementDraft) { d.Date = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			assert.ErrorIs(t, d.Validate(), apperrors.ErrValidation)
		})
	}
}

func TestParseEnums(t *testing.T) {
	d, err := domain.ParseDirection("out")
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionOut, d)

	s, err := domain.ParseSource(" cash ")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceCash, s)

	c, err := domain.ParseCategory("Food")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryFood, c)

	_, err = domain.ParseCategory("pets")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
