package domain

import "errors"

var (
	// ErrInvalidProvider ошибка неизвестного провайдера звонков.
	ErrInvalidProvider = errors.New("invalid call provider")
	// ErrEmptyRoster ошибка пустого ростера.
	ErrEmptyRoster = errors.New("roster is empty")
	// ErrEmptyStudentName ошибка пустого имени студента.
	ErrEmptyStudentName = errors.New("student name is empty")
	// ErrEmptyPhoneNumber ошибка пустого номера телефона.
	ErrEmptyPhoneNumber = errors.New("phone number is empty")
	// ErrEmptyPendingFees ошибка пустой суммы задолженности.
	ErrEmptyPendingFees = errors.New("pending fees is empty")
	// ErrEmptyDueDate ошибка пустой даты оплаты.
	ErrEmptyDueDate = errors.New("due date is empty")
)
