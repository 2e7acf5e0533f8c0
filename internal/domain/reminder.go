package domain

// Reminder представляет одну строку ростера для голосового напоминания.
// Сумма и дата — непрозрачные строки для озвучивания, не числа.
type Reminder struct {
	StudentName string
	PhoneNumber string
	PendingFees string
	DueDate     string

	// Row номер строки в исходной таблице, для предупреждений.
	Row int
}

// Validate проверяет, что все озвучиваемые поля заполнены.
func (r Reminder) Validate() error {
	switch {
	case r.StudentName == "":
		return ErrEmptyStudentName
	case r.PhoneNumber == "":
		return ErrEmptyPhoneNumber
	case r.PendingFees == "":
		return ErrEmptyPendingFees
	case r.DueDate == "":
		return ErrEmptyDueDate
	}
	return nil
}
