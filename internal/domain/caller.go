package domain

import "context"

// Caller интерфейс отправки голосовых звонков через одного провайдера.
type Caller interface {
	// MakeCall ставит звонок по напоминанию. Транспортные ошибки не
	// пробрасываются наружу, они сворачиваются в CallResult со статусом error.
	MakeCall(ctx context.Context, r Reminder, dryRun bool) CallResult
	// CallStatus запрашивает текущий статус звонка у провайдера.
	// При любой ошибке (сеть, not found) возвращает ok=false.
	CallStatus(ctx context.Context, callID string) (string, bool)
}
