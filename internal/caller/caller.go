package caller

import (
	"fmt"

	"FeeReminder/internal/caller/exotel"
	"FeeReminder/internal/caller/twilio"
	"FeeReminder/internal/caller/vobiz"
	"FeeReminder/internal/config"
	"FeeReminder/internal/domain"
)

// New выбирает адаптер по конфигурации. Одна точка выбора на старте,
// дальше весь код работает только с domain.Caller.
func New(cfg *config.Config) (domain.Caller, error) {
	switch domain.Provider(cfg.Provider) {
	case domain.ProviderExotel:
		return exotel.New(cfg.Exotel, cfg.OrgName)
	case domain.ProviderTwilio:
		return twilio.New(cfg.Twilio, cfg.OrgName)
	case domain.ProviderVobiz:
		return vobiz.New(cfg.Vobiz, cfg.OrgName)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, cfg.Provider)
	}
}
