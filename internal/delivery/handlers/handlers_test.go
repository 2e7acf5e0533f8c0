package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"

	"FeeReminder/internal/delivery/handlers"
	"FeeReminder/internal/domain"
	"FeeReminder/internal/roster"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

// MockCaller мок для domain.Caller
type MockCaller struct {
	mock.Mock
}

func (m *MockCaller) MakeCall(ctx context.Context, r domain.Reminder, dryRun bool) domain.CallResult {
	args := m.Called(ctx, r, dryRun)
	return args.Get(0).(domain.CallResult)
}

func (m *MockCaller) CallStatus(ctx context.Context, callID string) (string, bool) {
	args := m.Called(ctx, callID)
	return args.String(0), args.Bool(1)
}

func testSnapshot() *roster.Snapshot {
	return roster.NewSnapshot([]domain.Reminder{
		{StudentName: "राहुल शर्मा", PhoneNumber: "+919876543210", PendingFees: "5000", DueDate: "15-02-2026"},
		{StudentName: "प्रिया पटेल", PhoneNumber: "+919876543211", PendingFees: "3500", DueDate: "20-02-2026"},
	})
}

func getRequest(t *testing.T, h gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h(c)
	return w
}

// TestHealthHandler проверяет ответ health check
func TestHealthHandler(t *testing.T) {
	h := handlers.NewHandlersSet(nil, nil, "Org")

	w := getRequest(t, h.HealthHandler, "/health")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["service"])
}

// TestAnswerHandler_WithReminderParams проверяет сборку XML из параметров answer_url
func TestAnswerHandler_WithReminderParams(t *testing.T) {
	h := handlers.NewHandlersSet(nil, nil, "Default Org")

	q := url.Values{
		"student_name": {"राहुल शर्मा"},
		"amount":       {"5000"},
		"due_date":     {"15-02-2026"},
		"org_name":     {"ABC Institute"},
	}
	w := getRequest(t, h.AnswerHandler, "/answer?"+q.Encode())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, body, `<Speak language="hi-IN" voice="WOMAN" loop="1">`)
	assert.Contains(t, body, "राहुल शर्मा")
	assert.Contains(t, body, "5000")
	assert.Contains(t, body, "15-02-2026")
	assert.Contains(t, body, "ABC Institute")
	assert.NotContains(t, body, "Default Org")
}

// TestAnswerHandler_DefaultsForOptionalParams проверяет дефолты amount и org_name
func TestAnswerHandler_DefaultsForOptionalParams(t *testing.T) {
	h := handlers.NewHandlersSet(nil, nil, "Default Org")

	w := getRequest(t, h.AnswerHandler, "/answer?student_name=X&due_date=Y")

	body := w.Body.String()
	assert.Contains(t, body, "Default Org")
	assert.Contains(t, body, "0 रुपये")
}

// TestAnswerHandler_EscapesXML проверяет экранирование спецсимволов в тексте
func TestAnswerHandler_EscapesXML(t *testing.T) {
	h := handlers.NewHandlersSet(nil, nil, "Org")

	q := url.Values{"student_name": {`A & B <C>`}, "amount": {"100"}, "due_date": {"D"}}
	w := getRequest(t, h.AnswerHandler, "/answer?"+q.Encode())

	body := w.Body.String()
	assert.Contains(t, body, "A &amp; B &lt;C&gt;")
	assert.NotContains(t, body, "<C>")
}

// TestAnswerHandler_LookupByCaller проверяет поиск звонящего в снапшоте ростера
func TestAnswerHandler_LookupByCaller(t *testing.T) {
	h := handlers.NewHandlersSet(nil, testSnapshot(), "ABC Institute")

	// Номер в национальном формате должен найтись по последним 10 цифрам
	w := getRequest(t, h.AnswerHandler, "/answer?From=09876543211")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "<speak>"))
	assert.True(t, strings.HasSuffix(body, "</speak>"))
	assert.Contains(t, body, "प्रिया पटेल")
	assert.Contains(t, body, "3500")
}

// TestAnswerHandler_CallFromParam проверяет альтернативное имя параметра звонящего
func TestAnswerHandler_CallFromParam(t *testing.T) {
	h := handlers.NewHandlersSet(nil, testSnapshot(), "Org")

	w := getRequest(t, h.AnswerHandler, "/answer?CallFrom=%2B919876543210")

	assert.Contains(t, w.Body.String(), "राहुल शर्मा")
}

// TestAnswerHandler_UnknownCaller проверяет деградацию до обезличенного сообщения
func TestAnswerHandler_UnknownCaller(t *testing.T) {
	h := handlers.NewHandlersSet(nil, testSnapshot(), "ABC Institute")

	w := getRequest(t, h.AnswerHandler, "/answer?From=%2B919999999999")

	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "ABC Institute")
	assert.NotContains(t, body, "राहुल")
	assert.NotContains(t, body, "प्रिया")
}

// TestAnswerHandler_NoSnapshot проверяет ответ без загруженного ростера
func TestAnswerHandler_NoSnapshot(t *testing.T) {
	h := handlers.NewHandlersSet(nil, nil, "ABC Institute")

	w := getRequest(t, h.AnswerHandler, "/answer?From=%2B919876543210")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ABC Institute")
}

// TestHangupHandler проверяет фиксацию события завершения звонка
func TestHangupHandler(t *testing.T) {
	h := handlers.NewHandlersSet(nil, nil, "Org")

	q := url.Values{
		"call_uuid":   {"uuid-42"},
		"call_status": {"completed"},
		"duration":    {"45"},
	}
	w := getRequest(t, h.HangupHandler, "/hangup?"+q.Encode())

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "received", response["status"])

	ev, ok := h.HangupEvents().Get("uuid-42")
	require.True(t, ok)
	assert.Equal(t, "completed", ev.Status)
	assert.Equal(t, "45", ev.Duration)
	assert.False(t, ev.ReceivedAt.IsZero())
}

// TestHangupHandler_MissingFields проверяет дефолты и подтверждение без полей
func TestHangupHandler_MissingFields(t *testing.T) {
	h := handlers.NewHandlersSet(nil, nil, "Org")

	w := getRequest(t, h.HangupHandler, "/hangup")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, h.HangupEvents().Total())
}

// TestHangupHandler_TwilioFieldNames проверяет альтернативное имя идентификатора
func TestHangupHandler_TwilioFieldNames(t *testing.T) {
	h := handlers.NewHandlersSet(nil, nil, "Org")

	w := getRequest(t, h.HangupHandler, "/hangup?CallSid=CA42")

	assert.Equal(t, http.StatusOK, w.Code)

	ev, ok := h.HangupEvents().Get("CA42")
	require.True(t, ok)
	assert.Equal(t, "unknown", ev.Status)
	assert.Equal(t, "0", ev.Duration)
}
