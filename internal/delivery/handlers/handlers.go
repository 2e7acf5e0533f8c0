package handlers

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/zlog"

	"FeeReminder/internal/domain"
	"FeeReminder/internal/message"
	"FeeReminder/internal/roster"
)

const serviceName = "fee-reminder-webhook"

type Handler struct {
	caller    domain.Caller // nil, если провайдер не сконфигурирован
	snapshot  *roster.Snapshot
	orgName   string
	hangupLog *HangupLog
}

func NewHandlersSet(caller domain.Caller, snapshot *roster.Snapshot, orgName string) *Handler {
	return &Handler{
		caller:    caller,
		snapshot:  snapshot,
		orgName:   orgName,
		hangupLog: NewHangupLog(),
	}
}

// HangupEvents лог завершенных звонков (только чтение снаружи).
func (h *Handler) HangupEvents() *HangupLog {
	return h.hangupLog
}

// HealthHandler проба живости.
func (h *Handler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
}

// AnswerHandler обрабатывает answer callback: абонент снял трубку, провайдер
// спрашивает, что говорить. Если поля напоминания пришли в параметрах (их
// закодировал в answer_url наш же адаптер) — собираем текст из них и отдаем
// XML с директивой Speak. Иначе это запрос в стиле Exotel: ищем звонящего по
// номеру в снапшоте ростера и отдаем SSML простым текстом; промах деградирует
// до обезличенного сообщения, а не до ошибки.
func (h *Handler) AnswerHandler(c *gin.Context) {
	name := param(c, "student_name")
	if name != "" {
		r := domain.Reminder{
			StudentName: name,
			PendingFees: paramDefault(c, "amount", "0"),
			DueDate:     param(c, "due_date"),
		}
		org := paramDefault(c, "org_name", h.orgName)
		h.respondSpeakXML(c, message.Compose(r, org))
		return
	}

	callerNumber := firstParam(c, "From", "CallFrom", "CallerId")
	if r, ok := h.snapshot.FindByPhone(callerNumber); ok {
		h.respondSSML(c, message.Compose(r, h.orgName))
		return
	}

	zlog.Logger.Warn().
		Str("caller", callerNumber).
		Msg("no roster match for inbound caller, using generic message")
	h.respondSSML(c, message.Generic(h.orgName))
}

// HangupHandler обрабатывает hangup callback. Поля необязательные,
// пропуски заменяются дефолтами: провайдеру всегда отвечаем подтверждением.
func (h *Handler) HangupHandler(c *gin.Context) {
	ev := HangupEvent{
		CallID:   firstParam(c, "call_uuid", "CallSid", "call_id"),
		Status:   paramDefault(c, "call_status", "unknown"),
		Duration: paramDefault(c, "duration", "0"),
	}
	h.hangupLog.Record(ev)

	zlog.Logger.Info().
		Str("call_id", ev.CallID).
		Str("call_status", ev.Status).
		Str("duration", ev.Duration).
		Msg("call completed")

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// respondSpeakXML отдает XML документ Vobiz с экранированным текстом.
func (h *Handler) respondSpeakXML(c *gin.Context, text string) {
	body := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		"<Response>\n" +
		fmt.Sprintf("    <Speak language=\"hi-IN\" voice=\"WOMAN\" loop=\"1\">%s</Speak>\n", escapeXML(text)) +
		"</Response>"
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(body))
}

// respondSSML отдает SSML-подобное тело простым текстом (стиль Exotel).
func (h *Handler) respondSSML(c *gin.Context, text string) {
	body := fmt.Sprintf("<speak>%s</speak>", escapeXML(text))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func escapeXML(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// param достает параметр из query или формы: провайдеры шлют и GET, и POST.
func param(c *gin.Context, key string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return c.PostForm(key)
}

func paramDefault(c *gin.Context, key, def string) string {
	if v := param(c, key); v != "" {
		return v
	}
	return def
}

func firstParam(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := param(c, key); v != "" {
			return v
		}
	}
	return ""
}
