package vobiz

import (
	"bytes"
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

const (
	ringTimeout = "30"
	timeLimit   = "120" // максимум 2 минуты разговора

	defaultAPIHost = "https://api.vobiz.ai"
	maxBodyBytes   = 16 * 1024
)

// Caller адаптер Vobiz. Доставка текста двухфазная: Make Call несет только
// answer_url с параметрами напоминания, сам текст провайдер заберет позже
// входящим запросом к callback-серверу при ответе абонента.
type Caller struct {
	cfg        config.VobizConfig
	orgName    string
	baseURL    string
	httpClient HTTPClient
}

// New создает адаптер Vobiz. Падает сразу, если креденшалы неполные.
func New(cfg config.VobizConfig, orgName string, opts ...Option) (*Caller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Caller{
		cfg:        cfg,
		orgName:    orgName,
		baseURL:    fmt.Sprintf("%s/api/v1/Account/%s", defaultAPIHost, cfg.AuthID),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// makeCallRequest тело запроса Vobiz Make Call.
type makeCallRequest struct {
	From         string `json:"from"`
	To           string `json:"to"`
	AnswerURL    string `json:"answer_url"`
	AnswerMethod string `json:"answer_method"`
	RingTimeout  string `json:"ring_timeout"`
	TimeLimit    string `json:"time_limit"`
	HangupURL    string `json:"hangup_url"`
	HangupMethod string `json:"hangup_method"`
}

// MakeCall ставит звонок, кодируя поля напоминания в answer_url.
func (c *Caller) MakeCall(ctx context.Context, r domain.Reminder, dryRun bool) domain.CallResult {
	dest := phone.Normalize(r.PhoneNumber, domain.ProviderVobiz)
	text := message.Compose(r, c.orgName)

	if dryRun {
		return domain.CallResult{
			Status:      domain.StatusDryRun,
			Phone:       dest,
			StudentName: r.StudentName,
			Message:     text,
		}
	}

	payload := makeCallRequest{
		From:         c.cfg.CallerID,
		To:           dest,
		AnswerURL:    c.answerURL(r),
		AnswerMethod: http.MethodPost,
		RingTimeout:  ringTimeout,
		TimeLimit:    timeLimit,
		HangupURL:    c.hangupURL(),
		HangupMethod: http.MethodPost,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return c.errorResult(dest, r.StudentName, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/Call/", bytes.NewReader(body))
	if err != nil {
		return c.errorResult(dest, r.StudentName, err.Error())
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.errorResult(dest, r.StudentName, transportError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.errorResult(dest, r.StudentName,
			fmt.Sprintf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	var parsed struct {
		CallUUID string `json:"call_uuid"`
	}
	callUUID := "unknown"
	if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.CallUUID != "" {
		callUUID = parsed.CallUUID
	}

	zlog.Logger.Info().
		Str("provider", domain.ProviderVobiz.String()).
		Str("call_uuid", callUUID).
		Str("phone", dest).
		Msg("call initiated")

	return domain.CallResult{
		Status:      domain.StatusInitiated,
		CallID:      callUUID,
		Phone:       dest,
		StudentName: r.StudentName,
	}
}

// CallStatus запрашивает статус звонка по UUID.
func (c *Caller) CallStatus(ctx context.Context, callID string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/Call/%s/", c.baseURL, url.PathEscape(callID)), nil)
	if err != nil {
		return "", false
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var parsed map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&parsed); err != nil {
		return "", false
	}
	for _, key := range []string{"call_status", "status"} {
		if s, ok := parsed[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// answerURL собирает полный answer_url с параметрами студента. Vobiz при
// ответе абонента делает запрос ровно по этому URL, так что query-параметры —
// наши же, провайдер их не добавляет.
func (c *Caller) answerURL(r domain.Reminder) string {
	params := url.Values{
		"student_name": {r.StudentName},
		"amount":       {r.PendingFees},
		"due_date":     {r.DueDate},
		"org_name":     {c.orgName},
	}
	return c.cfg.AnswerURL + "?" + params.Encode()
}

// hangupURL выводится из answer_url: тот же хост, путь /hangup.
func (c *Caller) hangupURL() string {
	base := strings.TrimRight(strings.SplitN(c.cfg.AnswerURL, "?", 2)[0], "/")
	if strings.HasSuffix(base, "/answer") {
		return strings.TrimSuffix(base, "/answer") + "/hangup"
	}
	if base == "" {
		return "/hangup"
	}
	return base + "/hangup"
}

func (c *Caller) authorize(req *http.Request) {
	req.Header.Set("X-Auth-ID", c.cfg.AuthID)
	req.Header.Set("X-Auth-Token", c.cfg.AuthToken)
}

func (c *Caller) errorResult(dest, studentName, detail string) domain.CallResult {
	zlog.Logger.Warn().
		Str("provider", domain.ProviderVobiz.String()).
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
