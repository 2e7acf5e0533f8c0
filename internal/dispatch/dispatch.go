package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wb-go/wbf/zlog"

	"FeeReminder/internal/domain"
)

// Options параметры одного прогона рассылки.
type Options struct {
	// DryRun рендерит результат без сетевых вызовов.
	DryRun bool
	// Limit ограничивает число звонков (0 — без ограничения).
	Limit int
	// Delay пауза между последовательными звонками.
	Delay time.Duration
	// Out поток для построчного прогресса; по умолчанию os.Stdout.
	Out io.Writer
}

// Summary итог прогона рассылки.
type Summary struct {
	Success int
	Failed  int
	Total   int
	Results []domain.CallResult
}

// Run последовательно обзванивает ростер: один звонок за раз, пауза между
// звонками, без ретраев. Транспортные ошибки не прерывают прогон, они
// копятся в счетчиках; отмена контекста останавливает рассылку между
// звонками.
func Run(ctx context.Context, caller domain.Caller, reminders []domain.Reminder, opts Options) Summary {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if opts.Limit > 0 && len(reminders) > opts.Limit {
		reminders = reminders[:opts.Limit]
	}

	summary := Summary{
		Total:   len(reminders),
		Results: make([]domain.CallResult, 0, len(reminders)),
	}

	for i, r := range reminders {
		if ctx.Err() != nil {
			zlog.Logger.Warn().
				Int("done", i).
				Int("total", summary.Total).
				Msg("dispatch cancelled")
			break
		}

		fmt.Fprintf(out, "[%d/%d] Calling %s... ", i+1, summary.Total, r.StudentName)

		result := caller.MakeCall(ctx, r, opts.DryRun)
		summary.Results = append(summary.Results, result)

		switch result.Status {
		case domain.StatusInitiated:
			summary.Success++
			fmt.Fprintf(out, "✅ Call initiated (ID: %s)\n", truncateID(result.CallID))
		case domain.StatusDryRun:
			summary.Success++
			fmt.Fprintf(out, "🔍 Dry run (phone: %s)\n", result.Phone)
		default:
			summary.Failed++
			fmt.Fprintf(out, "❌ Failed: %s\n", result.Error)
		}

		// Пауза между звонками, кроме последнего; в dry run сеть не
		// трогаем, ждать нечего.
		if !opts.DryRun && i < len(reminders)-1 {
			select {
			case <-time.After(opts.Delay):
			case <-ctx.Done():
			}
		}
	}

	return summary
}

// truncateID укорачивает длинные идентификаторы для консоли.
func truncateID(id string) string {
	const max = 20
	if len(id) > max {
		return id[:max] + "..."
	}
	return id
}
