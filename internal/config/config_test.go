package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-id")
	t.Setenv("AUTH_JWT_SECRET", "unit-test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "dukaan", cfg.MongoDB.DBName)
	assert.Equal(t, "0 21 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, "Asia/Kolkata", cfg.Reporting.Timezone)
	assert.Equal(t, "0.18", cfg.Billing.TaxRate.String())
	assert.Equal(t, "100", cfg.Billing.LoyaltyEarnDivisor.String())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("TAX_RATE", "0.05")
	t.Setenv("AUTH_TOKEN_TTL", "30m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "0.05", cfg.Billing.TaxRate.String())
	assert.Equal(t, "30m0s", cfg.Auth.TokenTTL.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	setRequiredEnv(t)

	t.Run("MalformedTaxRate", func(t *testing.T) {
		t.Setenv("TAX_RATE", "eighteen percent")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("TaxRateOutOfRange", func(t *testing.T) {
		t.Setenv("TAX_RATE", "1.5")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("MalformedTokenTTL", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_TTL", "soon")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestValidateMissingSecret(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}
