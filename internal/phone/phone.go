package phone

import (
	"strings"

	"FeeReminder/internal/domain"
)

// Normalize приводит сырой номер к формату набора конкретного провайдера.
// Exotel ждет национальный формат с ведущим 0, Twilio принимает E.164 как
// есть, Vobiz ждет цифры с кодом страны без плюса. Кривой ввод (не та длина,
// не цифры) отдается как есть: последним арбитром выступает API провайдера.
func Normalize(raw string, p domain.Provider) string {
	n := stripSeparators(raw)

	switch p {
	case domain.ProviderExotel:
		return forExotel(n)
	case domain.ProviderTwilio:
		return n
	case domain.ProviderVobiz:
		return forVobiz(n)
	default:
		return n
	}
}

// stripSeparators убирает все, кроме цифр и одного ведущего плюса.
func stripSeparators(raw string) string {
	var b strings.Builder
	for i, c := range raw {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
			continue
		}
		if c == '+' && i == 0 {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// forExotel: 0XXXXXXXXXX (национальный формат с кодом STD).
func forExotel(n string) string {
	switch {
	case strings.HasPrefix(n, "+91"):
		return "0" + n[3:]
	case strings.HasPrefix(n, "91") && len(n) == 12:
		return "0" + n[2:]
	case strings.HasPrefix(n, "+"):
		return n[1:]
	case !strings.HasPrefix(n, "0") && len(n) == 10:
		return "0" + n
	}
	return n
}

// forVobiz: 91XXXXXXXXXX (код страны, без плюса).
func forVobiz(n string) string {
	switch {
	case strings.HasPrefix(n, "+"):
		return n[1:]
	case strings.HasPrefix(n, "0") && len(n) == 11:
		return "91" + n[1:]
	case len(n) == 10:
		return "91" + n
	}
	return n
}
