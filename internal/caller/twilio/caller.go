package twilio

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
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

const (
	// Женский голос Google TTS для хинди
	sayVoice    = "Google.hi-IN-Wavenet-A"
	sayLanguage = "hi-IN"

	defaultBaseURL = "https://api.twilio.com/2010-04-01"
	maxBodyBytes   = 16 * 1024
)

// Caller адаптер Twilio: текст уходит инлайном как TwiML документ
// прямо в запросе создания звонка.
type Caller struct {
	cfg        config.TwilioConfig
	orgName    string
	baseURL    string
	httpClient HTTPClient
}

// New создает адаптер Twilio. Падает сразу, если креденшалы неполные.
func New(cfg config.TwilioConfig, orgName string, opts ...Option) (*Caller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Caller{
		cfg:        cfg,
		orgName:    orgName,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MakeCall создает звонок с TwiML документом внутри.
func (c *Caller) MakeCall(ctx context.Context, r domain.Reminder, dryRun bool) domain.CallResult {
	dest := phone.Normalize(r.PhoneNumber, domain.ProviderTwilio)
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
		"To":    {dest},
		"From":  {c.cfg.FromNumber},
		"Twiml": {BuildTwiML(text)},
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", c.baseURL, url.PathEscape(c.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return c.errorResult(dest, r.StudentName, err.Error())
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
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
		Sid string `json:"sid"`
	}
	sid := "unknown"
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Sid != "" {
		sid = parsed.Sid
	}

	zlog.Logger.Info().
		Str("provider", domain.ProviderTwilio.String()).
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
	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls/%s.json",
		c.baseURL, url.PathEscape(c.cfg.AccountSID), url.PathEscape(callID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var parsed struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&parsed); err != nil {
		return "", false
	}
	if parsed.Status == "" {
		return "", false
	}
	return parsed.Status, true
}

// BuildTwiML собирает голосовой документ с экранированным текстом.
func BuildTwiML(text string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<Response>` +
		fmt.Sprintf(`<Say voice="%s" language="%s">%s</Say>`, sayVoice, sayLanguage, escapeXML(text)) +
		`<Pause length="1"/>` +
		`</Response>`
}

func escapeXML(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (c *Caller) errorResult(dest, studentName, detail string) domain.CallResult {
	zlog.Logger.Warn().
		Str("provider", domain.ProviderTwilio.String()).
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

func transportError(err error) string {
	if e, ok := err.(interface{ Timeout() bool }); ok && e.Timeout() {
		return "API request timed out"
	}
	return err.Error()
}
