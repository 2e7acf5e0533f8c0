package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FeeReminder/internal/domain"
	"FeeReminder/internal/phone"
)

// TestNormalize_Exotel проверяет приведение к национальному формату с ведущим нулем
func TestNormalize_Exotel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"e164", "+919876543210", "09876543210"},
		{"country code without plus", "919876543210", "09876543210"},
		{"bare ten digits", "9876543210", "09876543210"},
		{"already national", "09876543210", "09876543210"},
		{"with separators", "+91 98765-43210", "09876543210"},
		{"foreign e164 drops plus", "+14155552671", "14155552671"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.Normalize(tt.in, domain.ProviderExotel))
		})
	}
}

// TestNormalize_Twilio проверяет, что для Twilio убираются только разделители
func TestNormalize_Twilio(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"e164 passthrough", "+919876543210", "+919876543210"},
		{"spaces and dashes", "+91 98765-43210", "+919876543210"},
		{"parentheses", "+1 (415) 555-2671", "+14155552671"},
		{"bare digits untouched", "9876543210", "9876543210"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.Normalize(tt.in, domain.ProviderTwilio))
		})
	}
}

// TestNormalize_Vobiz проверяет приведение к цифрам с кодом страны без плюса
func TestNormalize_Vobiz(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"e164", "+919876543210", "919876543210"},
		{"national with zero", "09876543210", "919876543210"},
		{"bare ten digits", "9876543210", "919876543210"},
		{"already prefixed", "919876543210", "919876543210"},
		{"foreign e164 drops plus", "+14155552671", "14155552671"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.Normalize(tt.in, domain.ProviderVobiz))
		})
	}
}

// TestNormalize_Idempotent проверяет, что повторная нормализация ничего не меняет
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"+919876543210",
		"919876543210",
		"09876543210",
		"9876543210",
		"+91 98765 43210",
		"+14155552671",
	}
	providers := []domain.Provider{
		domain.ProviderExotel,
		domain.ProviderTwilio,
		domain.ProviderVobiz,
	}

	for _, p := range providers {
		for _, in := range inputs {
			once := phone.Normalize(in, p)
			twice := phone.Normalize(once, p)
			assert.Equal(t, once, twice, "provider %s, input %q", p, in)
		}
	}
}
