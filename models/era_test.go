package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodle-tools/client-eden-golang-api/models"
)

func TestNewMortalEra(t *testing.T) {
	tests := []struct {
		name       string
		period     uint64
		checkpoint uint64
		first      byte
		second     byte
	}{
		{
			name:       "period 64 phase 49",
			period:     64,
			checkpoint: 49,
			first:      0x15,
			second:     0x03,
		},
		{
			name:       "period rounded up to 64",
			period:     60,
			checkpoint: 49,
			first:      0x15,
			second:     0x03,
		},
		{
			name:       "period 32768 phase 20000",
			period:     32768,
			checkpoint: 20000,
			first:      0x4e,
			second:     0x9c,
		},
		{
			name:       "checkpoint beyond period wraps",
			period:     64,
			checkpoint: 64 + 49,
			first:      0x15,
			second:     0x03,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			era := models.NewMortalEra(test.period, test.checkpoint)

			assert.True(t, era.IsMortalEra)
			assert.False(t, era.IsImmortalEra)
			assert.Equal(t, test.first, era.AsMortalEra.First)
			assert.Equal(t, test.second, era.AsMortalEra.Second)
		})
	}
}

func TestNewMortalEra_ZeroPeriod(t *testing.T) {
	era := models.NewMortalEra(0, 12345)

	assert.True(t, era.IsImmortalEra)
	assert.False(t, era.IsMortalEra)
}

func TestNewImmortalEra(t *testing.T) {
	era := models.NewImmortalEra()

	assert.True(t, era.IsImmortalEra)
	assert.False(t, era.IsMortalEra)
}

func TestRoundMortalPeriod(t *testing.T) {
	tests := []struct {
		period uint64
		want   uint64
	}{
		{period: 0, want: 4},
		{period: 3, want: 4},
		{period: 4, want: 4},
		{period: 5, want: 8},
		{period: 64, want: 64},
		{period: 100, want: 128},
		{period: 65536, want: 65536},
		{period: 100000, want: 65536},
	}

	for _, test := range tests {
		got := models.RoundMortalPeriod(test.period)

		assert.Equalf(t, test.want, got, "period %d", test.period)
	}
}
