package domain

type CallStatus string

// String возвращает строковое представление статуса.
func (s CallStatus) String() string {
	return string(s)
}

// IsValid проверяет, является ли статус валидным.
func (s CallStatus) IsValid() bool {
	switch s {
	case StatusInitiated, StatusDryRun, StatusError:
		return true
	default:
		return false
	}
}

const (
	StatusInitiated CallStatus = "initiated"
	StatusDryRun    CallStatus = "dry_run"
	StatusError     CallStatus = "error"
)

type Provider string

// String возвращает строковое представление провайдера.
func (p Provider) String() string {
	return string(p)
}

// IsValid проверяет, является ли провайдер валидным.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderExotel, ProviderTwilio, ProviderVobiz:
		return true
	default:
		return false
	}
}

const (
	ProviderExotel Provider = "exotel"
	ProviderTwilio Provider = "twilio"
	ProviderVobiz  Provider = "vobiz"
)

// CallResult представляет итог одной попытки звонка.
type CallResult struct {
	Status      CallStatus `json:"status"`
	CallID      string     `json:"call_id,omitempty"`
	Phone       string     `json:"phone"`
	StudentName string     `json:"student_name"`
	Message     string     `json:"message,omitempty"`
	Error       string     `json:"error,omitempty"`
}
