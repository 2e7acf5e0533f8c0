package config

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/wb-go/wbf/config"
)

// Config основная конфигурация приложения.
type Config struct {
	// HTTP callback-сервер
	HTTP HTTPConfig `config:"http"`

	// Активный провайдер звонков
	Provider string `config:"provider" default:"vobiz"`

	// Название организации, звучит в сообщении
	OrgName string `config:"orgname"`

	// Ростер для снапшота callback-сервера (поиск по номеру)
	Roster RosterConfig `config:"roster"`

	// Диспетчеризация звонков
	Dispatch DispatchConfig `config:"dispatch"`

	// Провайдеры
	Exotel ExotelConfig `config:"exotel"`
	Twilio TwilioConfig `config:"twilio"`
	Vobiz  VobizConfig  `config:"vobiz"`

	// Логирование
	Logging LoggingConfig `config:"logging"`
}

// HTTPConfig конфигурация HTTP сервера.
type HTTPConfig struct {
	Host string `config:"host" default:"0.0.0.0"`
	Port string `config:"port" default:"5000"`
}

// RosterConfig конфигурация снапшота ростера.
type RosterConfig struct {
	Path string `config:"path"`
}

// DispatchConfig конфигурация последовательной рассылки.
type DispatchConfig struct {
	Delay time.Duration `config:"delay" default:"2s"`
}

// ExotelConfig креденшалы Exotel (dial-connect через call-flow applet).
type ExotelConfig struct {
	APIKey     string `config:"apikey"`
	APIToken   string `config:"apitoken"`
	AccountSID string `config:"accountsid"`
	CallerID   string `config:"callerid"`
	AppID      string `config:"appid"`
	Subdomain  string `config:"subdomain" default:"api.in.exotel.com"`
}

// TwilioConfig креденшалы Twilio (TwiML инлайном).
type TwilioConfig struct {
	AccountSID string `config:"accountsid"`
	AuthToken  string `config:"authtoken"`
	FromNumber string `config:"fromnumber"`
}

// VobizConfig креденшалы Vobiz (answer-URL, двухфазная доставка текста).
type VobizConfig struct {
	AuthID    string `config:"authid"`
	AuthToken string `config:"authtoken"`
	CallerID  string `config:"callerid"`
	AnswerURL string `config:"answerurl"`
}

// LoggingConfig конфигурация логирования.
type LoggingConfig struct {
	Level string `config:"level" default:"info"`
}

// DefaultOrgName организация по умолчанию, если orgname не задан.
const DefaultOrgName = "फीस विभाग"

const envPrefix = "FEE_REMINDER"

// Validate проверяет полноту креденшалов Exotel.
func (c ExotelConfig) Validate() error {
	return checkCredentials("exotel", map[string]string{
		"EXOTEL_APIKEY":     c.APIKey,
		"EXOTEL_APITOKEN":   c.APIToken,
		"EXOTEL_ACCOUNTSID": c.AccountSID,
		"EXOTEL_CALLERID":   c.CallerID,
		"EXOTEL_APPID":      c.AppID,
	})
}

// Validate проверяет полноту креденшалов Twilio.
func (c TwilioConfig) Validate() error {
	return checkCredentials("twilio", map[string]string{
		"TWILIO_ACCOUNTSID": c.AccountSID,
		"TWILIO_AUTHTOKEN":  c.AuthToken,
		"TWILIO_FROMNUMBER": c.FromNumber,
	})
}

// Validate проверяет полноту креденшалов Vobiz.
func (c VobizConfig) Validate() error {
	return checkCredentials("vobiz", map[string]string{
		"VOBIZ_AUTHID":    c.AuthID,
		"VOBIZ_AUTHTOKEN": c.AuthToken,
		"VOBIZ_CALLERID":  c.CallerID,
		"VOBIZ_ANSWERURL": c.AnswerURL,
	})
}

func checkCredentials(provider string, creds map[string]string) error {
	var missing []string
	for name, value := range creds {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, envPrefix+"_"+name)
		}
	}
	if len(missing) > 0 {
		// Стабильный текст ошибки
		sort.Strings(missing)
		return fmt.Errorf("missing %s credentials: set %s in environment or .env",
			provider, strings.Join(missing, ", "))
	}
	return nil
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	wbfCfg := config.New()
	if err := wbfCfg.LoadEnvFiles(".env"); err != nil {
		log.Printf("failed to load env vars: %v", err)
	}
	// Включаем переменные окружения с префиксом
	wbfCfg.EnableEnv(envPrefix)

	// Устанавливаем значения по умолчанию
	// callback server config
	wbfCfg.SetDefault("http.host", "0.0.0.0")
	wbfCfg.SetDefault("http.port", "5000")
	// dispatch config
	wbfCfg.SetDefault("provider", "vobiz")
	wbfCfg.SetDefault("orgname", DefaultOrgName)
	wbfCfg.SetDefault("dispatch.delay", "2s")
	wbfCfg.SetDefault("roster.path", "")
	// provider defaults
	wbfCfg.SetDefault("exotel.subdomain", "api.in.exotel.com")
	// Креденшалы регистрируются пустыми: без SetDefault ключ невидим для
	// Unmarshal и значение из окружения не подхватится
	wbfCfg.SetDefault("exotel.apikey", "")
	wbfCfg.SetDefault("exotel.apitoken", "")
	wbfCfg.SetDefault("exotel.accountsid", "")
	wbfCfg.SetDefault("exotel.callerid", "")
	wbfCfg.SetDefault("exotel.appid", "")
	wbfCfg.SetDefault("twilio.accountsid", "")
	wbfCfg.SetDefault("twilio.authtoken", "")
	wbfCfg.SetDefault("twilio.fromnumber", "")
	wbfCfg.SetDefault("vobiz.authid", "")
	wbfCfg.SetDefault("vobiz.authtoken", "")
	wbfCfg.SetDefault("vobiz.callerid", "")
	wbfCfg.SetDefault("vobiz.answerurl", "")
	// other config
	wbfCfg.SetDefault("logging.level", "info")

	// Создаем структуру конфигурации и загружаем данные
	appConfig := &Config{}
	if err := wbfCfg.Unmarshal(appConfig); err != nil {
		return nil, err
	}
	if appConfig.OrgName == "" {
		appConfig.OrgName = DefaultOrgName
	}
	return appConfig, nil
}

// GetConnectionString формирует строку подключения для HTTP.
func (c *HTTPConfig) GetConnectionString() string {
	return c.Host + ":" + c.Port
}
