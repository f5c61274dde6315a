package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, dto.PlaidSandbox, cfg.PlaidEnvironment)
	assert.Equal(t, 720*time.Hour, cfg.AITTL)
	assert.Equal(t, time.Sunday, cfg.WeekStart)
	assert.Equal(t, "USD", cfg.Currency)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	v.Set("WEEKSTART", "Monday")
	v.Set("PLAIDENVIRONMENT", "production")
	v.Set("AITTL", "2h")
	v.Set("CURRENCY", "gbp")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, time.Monday, cfg.WeekStart)
	assert.Equal(t, dto.PlaidProduction, cfg.PlaidEnvironment)
	assert.Equal(t, 2*time.Hour, cfg.AITTL)
	assert.Equal(t, "GBP", cfg.Currency)
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("PROJECTID", "household-prod")
	t.Setenv("VERTEXMODEL", "gemini-2.0-flash")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "household-prod", cfg.ProjectID)
	assert.Equal(t, "gemini-2.0-flash", cfg.VertexModel)
}

func TestParseWeekStart(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"", time.Sunday},
		{"sun", time.Sunday},
		{"Monday", time.Monday},
		{"tue", time.Tuesday},
		{" WEDNESDAY ", time.Wednesday},
		{"thu", time.Thursday},
		{"friday", time.Friday},
		{"Sat", time.Saturday},
	}
	for _, tt := range tests {
		got, err := parseWeekStart(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLoadRejectsUnknownWeekStart(t *testing.T) {
	for _, in := range []string{"mondya", "weekday", "t"} {
		v := viper.New()
		v.Set("WEEKSTART", in)

		cfg, err := Load(v)
		assert.Nil(t, cfg, in)
		var invalid *errs.ValidationError
		assert.ErrorAs(t, err, &invalid, in)
	}
}
