package exotel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wb-go/wbf/zlog"

	"FeeReminder/internal/config"
	"FeeReminder/internal/domain"
	"FeeReminder/internal/message"
	"FeeReminder/internal/phone"
)

// HTTPClient абстракция над http.Client для тестов.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option настраивает Caller.
type Option func(*Caller)

// WithHTTPClient подменяет HTTP клиент.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Caller) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL подменяет базовый URL API (для тестов).
func WithBaseURL(baseURL string) Option {
	return func(c *Caller) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// Exotel не принимает текст в запросе: applet сам запрашивает, что говорить.
// Поэтому в Make Call уходит только CustomField с именем студента.
const (
	callType    = "trans" // транзакционный звонок
	timeLimit   = "120"   // максимум 2 минуты разговора
	ringTimeout = "30"    // 30 секунд дозвона
)

// Caller адаптер Exotel: подключение абонента к заранее заведенному
// call-flow applet (dial-connect).
type Caller struct {
	cfg        config.ExotelConfig
	orgName    string
	baseURL    string
	httpClient HTTPClient
}

// New создает адаптер Exotel. Падает сразу, если креденшалы неполные.
func New(cfg config.ExotelConfig, orgName string, opts ...Option) (*Caller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Caller{
		cfg:        cfg,
		orgName:    orgName,
		baseURL:    fmt.Sprintf("https://%s/v1/Accounts/%s", cfg.Subdomain, cfg.AccountSID),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MakeCall ставит звонок через Calls/connect.json.
func (c *Caller) MakeCall(ctx context.Context, r domain.Reminder, dryRun bool) domain.CallResult {
	dest := phone.Normalize(r.PhoneNumber, domain.ProviderExotel)
	text := message.Compose(r, c.orgName)

	if dryRun {
		return domain.CallResult{
			Status:      domain.StatusDryRun,
			Phone:       dest,
			StudentName: r.StudentName,
			Message:     text,
		}
	}

	form := url.Values{
		"From":        {dest},
		"CallerId":    {c.cfg.CallerID},
		"Url":         {c.appletURL()},
		"CallType":    {callType},
		"TimeLimit":   {timeLimit},
		"TimeOut":     {ringTimeout},
		"CustomField": {r.StudentName},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/Calls/connect.json", strings.NewReader(form.Encode()))
	if err != nil {
		return c.errorResult(dest, r.StudentName, err.Error())
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.errorResult(dest, r.StudentName, transportError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.errorResult(dest, r.StudentName,
			fmt.Sprintf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var parsed struct {
		Call struct {
			Sid string `json:"Sid"`
		} `json:"Call"`
	}
	sid := "unknown"
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Call.Sid != "" {
		sid = parsed.Call.Sid
	}

	zlog.Logger.Info().
		Str("provider", domain.ProviderExotel.String()).
		Str("call_sid", sid).
		Str("phone", dest).
		Msg("call initiated")

	return domain.CallResult{
		Status:      domain.StatusInitiated,
		CallID:      sid,
		Phone:       dest,
		StudentName: r.StudentName,
	}
}

// CallStatus запрашивает статус звонка по SID.
func (c *Caller) CallStatus(ctx context.Context, callID string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/Calls/%s.json", c.baseURL, url.PathEscape(callID)), nil)
	if err != nil {
		return "", false
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APIToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var parsed struct {
		Call struct {
			Status string `json:"Status"`
		} `json:"Call"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&parsed); err != nil {
		return "", false
	}
	if parsed.Call.Status == "" {
		return "", false
	}
	return parsed.Call.Status, true
}

// appletURL собирает адрес call-flow applet, который Exotel дергает сам.
func (c *Caller) appletURL() string {
	return fmt.Sprintf("http://my.exotel.com/%s/exoml/start_voice/%s",
		c.cfg.AccountSID, c.cfg.AppID)
}

func (c *Caller) errorResult(dest, studentName, detail string) domain.CallResult {
	zlog.Logger.Warn().
		Str("provider", domain.ProviderExotel.String()).
		Str("phone", dest).
		Str("error", detail).
		Msg("call submission failed")
	return domain.CallResult{
		Status:      domain.StatusError,
		Phone:       dest,
		StudentName: studentName,
		Error:       detail,
	}
}

const maxBodyBytes = 16 * 1024

func transportError(err error) string {
	if e, ok := err.(interface{ Timeout() bool }); ok && e.Timeout() {
		return "API request timed out"
	}
	return err.Error()
}
