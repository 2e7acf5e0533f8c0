package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FeeReminder/internal/config"
)

// TestVobizConfig_Validate проверяет, что ошибка перечисляет все недостающие
// переменные окружения в алфавитном порядке
func TestVobizConfig_Validate(t *testing.T) {
	cfg := config.VobizConfig{CallerID: "+918035551234"}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Equal(t,
		"missing vobiz credentials: set FEE_REMINDER_VOBIZ_ANSWERURL, "+
			"FEE_REMINDER_VOBIZ_AUTHID, FEE_REMINDER_VOBIZ_AUTHTOKEN "+
			"in environment or .env",
		err.Error())
}

// TestVobizConfig_Validate_Complete проверяет полный набор креденшалов
func TestVobizConfig_Validate_Complete(t *testing.T) {
	cfg := config.VobizConfig{
		AuthID:    "id",
		AuthToken: "token",
		CallerID:  "+918035551234",
		AnswerURL: "https://example.com/answer",
	}

	assert.NoError(t, cfg.Validate())
}

// TestExotelConfig_Validate проверяет креденшалы Exotel
func TestExotelConfig_Validate(t *testing.T) {
	err := config.ExotelConfig{}.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing exotel credentials")
	assert.Contains(t, err.Error(), "FEE_REMINDER_EXOTEL_ACCOUNTSID")
}

// TestTwilioConfig_Validate проверяет, что пробельные значения считаются пустыми
func TestTwilioConfig_Validate(t *testing.T) {
	cfg := config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "   ",
		FromNumber: "+15005550006",
	}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEE_REMINDER_TWILIO_AUTHTOKEN")
}

// TestLoadConfig_CredentialsFromEnv проверяет, что креденшалы всех трех
// провайдеров подхватываются из переменных окружения
func TestLoadConfig_CredentialsFromEnv(t *testing.T) {
	t.Setenv("FEE_REMINDER_EXOTEL_APIKEY", "ekey")
	t.Setenv("FEE_REMINDER_EXOTEL_APITOKEN", "etoken")
	t.Setenv("FEE_REMINDER_EXOTEL_ACCOUNTSID", "esid")
	t.Setenv("FEE_REMINDER_EXOTEL_CALLERID", "08035551234")
	t.Setenv("FEE_REMINDER_EXOTEL_APPID", "12345")
	t.Setenv("FEE_REMINDER_TWILIO_ACCOUNTSID", "AC123")
	t.Setenv("FEE_REMINDER_TWILIO_AUTHTOKEN", "ttoken")
	t.Setenv("FEE_REMINDER_TWILIO_FROMNUMBER", "+15005550006")
	t.Setenv("FEE_REMINDER_VOBIZ_AUTHID", "vid")
	t.Setenv("FEE_REMINDER_VOBIZ_AUTHTOKEN", "vtoken")
	t.Setenv("FEE_REMINDER_VOBIZ_CALLERID", "+918035551234")
	t.Setenv("FEE_REMINDER_VOBIZ_ANSWERURL", "https://example.com/answer")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ekey", cfg.Exotel.APIKey)
	assert.Equal(t, "etoken", cfg.Exotel.APIToken)
	assert.Equal(t, "esid", cfg.Exotel.AccountSID)
	assert.Equal(t, "08035551234", cfg.Exotel.CallerID)
	assert.Equal(t, "12345", cfg.Exotel.AppID)
	assert.Equal(t, "AC123", cfg.Twilio.AccountSID)
	assert.Equal(t, "ttoken", cfg.Twilio.AuthToken)
	assert.Equal(t, "+15005550006", cfg.Twilio.FromNumber)
	assert.Equal(t, "vid", cfg.Vobiz.AuthID)
	assert.Equal(t, "vtoken", cfg.Vobiz.AuthToken)
	assert.Equal(t, "+918035551234", cfg.Vobiz.CallerID)
	assert.Equal(t, "https://example.com/answer", cfg.Vobiz.AnswerURL)

	assert.NoError(t, cfg.Exotel.Validate())
	assert.NoError(t, cfg.Twilio.Validate())
	assert.NoError(t, cfg.Vobiz.Validate())
}

// TestLoadConfig_Defaults проверяет значения по умолчанию без окружения
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "vobiz", cfg.Provider)
	assert.Equal(t, "0.0.0.0:5000", cfg.HTTP.GetConnectionString())
	assert.Equal(t, config.DefaultOrgName, cfg.OrgName)
	assert.Equal(t, "api.in.exotel.com", cfg.Exotel.Subdomain)

	// Незаполненные креденшалы остаются пустыми и валидацию не проходят
	assert.Empty(t, cfg.Vobiz.AuthID)
	assert.Error(t, cfg.Vobiz.Validate())
}

// TestLoadConfig_EnvOverridesDefaults проверяет приоритет окружения над дефолтами
func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("FEE_REMINDER_PROVIDER", "twilio")
	t.Setenv("FEE_REMINDER_HTTP_PORT", "9999")
	t.Setenv("FEE_REMINDER_ORGNAME", "ABC Institute")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "twilio", cfg.Provider)
	assert.Equal(t, "9999", cfg.HTTP.Port)
	assert.Equal(t, "ABC Institute", cfg.OrgName)
}

// TestHTTPConfig_GetConnectionString проверяет сборку адреса сервера
func TestHTTPConfig_GetConnectionString(t *testing.T) {
	cfg := config.HTTPConfig{Host: "0.0.0.0", Port: "5000"}

	assert.Equal(t, "0.0.0.0:5000", cfg.GetConnectionString())
}
