package roster

import (
	"FeeReminder/internal/domain"
)

// Snapshot неизменяемый снимок ростера для callback-сервера. Загружается
// один раз на старте, дальше только читается, блокировки не нужны.
type Snapshot struct {
	reminders []domain.Reminder
}

// NewSnapshot создает снимок ростера.
func NewSnapshot(reminders []domain.Reminder) *Snapshot {
	return &Snapshot{reminders: reminders}
}

// Len возвращает количество записей в снимке.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.reminders)
}

// FindByPhone ищет запись по номеру звонящего, сравнивая последние 10 цифр.
// Выигрывает первое совпадение по порядку ростера; коллизии по хвосту номера
// не разрешаются (см. тест на политику).
func (s *Snapshot) FindByPhone(callerNumber string) (domain.Reminder, bool) {
	if s == nil {
		return domain.Reminder{}, false
	}
	key := lastDigits(callerNumber, 10)
	if key == "" {
		return domain.Reminder{}, false
	}
	for _, r := range s.reminders {
		if lastDigits(r.PhoneNumber, 10) == key {
			return r, true
		}
	}
	return domain.Reminder{}, false
}

// lastDigits берет последние n цифр строки; короче n — пустой результат.
func lastDigits(s string, n int) string {
	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) < n {
		return ""
	}
	return string(digits[len(digits)-n:])
}
