package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"FeeReminder/internal/domain"
)

// CallRequest JSON тело ручки POST /api/call.
type CallRequest struct {
	StudentName string `json:"student_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	PendingFees string `json:"pending_fees" validate:"required"`
	DueDate     string `json:"due_date" validate:"required"`
	DryRun      bool   `json:"dry_run"`
}

var validate = validator.New()

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "обязательное поле"
	default:
		return "некорректное значение"
	}
}

// CreateCallHandler ставит один звонок через сконфигурированного провайдера.
func (h *Handler) CreateCallHandler(c *gin.Context) {
	if h.caller == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "call provider is not configured"})
		return
	}

	var req CallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный JSON: " + err.Error()})
		return
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			errorsMap := make(map[string]string)
			for _, e := range verrs {
				errorsMap[e.Field()] = validationMessage(e)
			}

			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Ошибка валидации",
				"errors":  errorsMap,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r := domain.Reminder{
		StudentName: req.StudentName,
		PhoneNumber: req.PhoneNumber,
		PendingFees: req.PendingFees,
		DueDate:     req.DueDate,
	}

	result := h.caller.MakeCall(c.Request.Context(), r, req.DryRun)

	code := http.StatusOK
	if result.Status == domain.StatusError {
		code = http.StatusBadGateway
	}
	c.JSON(code, gin.H{"result": result})
}

// CallStatusHandler возвращает текущий статус звонка у провайдера.
func (h *Handler) CallStatusHandler(c *gin.Context) {
	if h.caller == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "call provider is not configured"})
		return
	}

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	status, ok := h.caller.CallStatus(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"call_id": id, "status": status})
}
