package message

import (
	"fmt"

	"FeeReminder/internal/domain"
)

// Compose собирает фиксированный пятистрочный текст напоминания на хинди:
// приветствие, представление организации, сумма, срок, благодарность.
// Детерминированная подстановка, без экранирования: за экранирование под
// транспортный формат отвечает адаптер или callback-сервер.
func Compose(r domain.Reminder, orgName string) string {
	return fmt.Sprintf(
		"नमस्ते %s जी,\n"+
			"यह %s से बात हो रही है।\n"+
			"आपकी %s रुपये की फीस बकाया है।\n"+
			"कृपया %s से पहले भुगतान करें।\n"+
			"धन्यवाद।",
		r.StudentName, orgName, r.PendingFees, r.DueDate,
	)
}

// Generic собирает обезличенное напоминание для случая, когда звонящего не
// удалось найти в снапшоте ростера.
func Generic(orgName string) string {
	return fmt.Sprintf(
		"नमस्ते जी,\n"+
			"यह %s से बात हो रही है।\n"+
			"आपकी फीस बकाया है।\n"+
			"कृपया समय पर भुगतान करें।\n"+
			"धन्यवाद।",
		orgName,
	)
}
