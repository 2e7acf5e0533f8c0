package roster

import (
	"fmt"
	"strings"

	"github.com/wb-go/wbf/zlog"
	"github.com/xuri/excelize/v2"

	"FeeReminder/internal/domain"
)

// Обязательные колонки ростера, сопоставление без учета регистра.
var requiredColumns = []string{"student_name", "phone_number", "pending_fees", "due_date"}

// Load читает ростер из первого листа xlsx файла.
// Отсутствие обязательной колонки — фатальная ошибка загрузки; строки с
// пустым именем пропускаются; номера без + по возможности чинятся.
func Load(path string) ([]domain.Reminder, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read roster sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrEmptyRoster
	}

	idx, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	reminders := make([]domain.Reminder, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2

		name := strings.TrimSpace(cell(row, idx["student_name"]))
		if name == "" {
			continue
		}

		r := domain.Reminder{
			StudentName: name,
			PhoneNumber: fixPhone(strings.TrimSpace(cell(row, idx["phone_number"])), rowNum),
			PendingFees: strings.TrimSpace(cell(row, idx["pending_fees"])),
			DueDate:     strings.TrimSpace(cell(row, idx["due_date"])),
			Row:         rowNum,
		}
		reminders = append(reminders, r)
	}

	return reminders, nil
}

// columnIndex находит индексы обязательных колонок в заголовке.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// cell безопасно достает ячейку: excelize обрезает пустые хвосты строк.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// fixPhone дочинивает индийские номера без кода страны. Все прочее
// оставляется как есть: ряд не выбрасывается, решать будет API провайдера.
func fixPhone(p string, rowNum int) string {
	if p == "" || strings.HasPrefix(p, "+") {
		return p
	}

	zlog.Logger.Warn().
		Int("row", rowNum).
		Str("phone", p).
		Msg("phone number should start with country code (e.g. +91)")

	switch {
	case strings.HasPrefix(p, "91") && len(p) == 12:
		return "+" + p
	case len(p) == 10:
		return "+91" + p
	}
	return p
}
