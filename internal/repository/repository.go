package repository

import (
	"context"
	"time"

	"github.com/ivanoskov/deal_bot/internal/model"
)

// SessionStore хранит текущее состояние диалога каждого пользователя
type SessionStore interface {
	Get(userID int64) model.State
	Set(userID int64, state model.State)
	// Save записывает состояние вместе с именем пользователя
	Save(session model.UserSession)
	// Lock берет эксклюзивную блокировку ключа; вызов unlock обязателен
	Lock(userID int64) (unlock func())
}

// EscalationRepository хранит архив сообщений, переданных оператору
type EscalationRepository interface {
	CreateEscalation(ctx context.Context, escalation *model.EscalationRecord) error
	GetEscalations(ctx context.Context, filter EscalationFilter) ([]model.EscalationRecord, error)
}

type EscalationFilter struct {
	UserID    int64
	StartDate *time.Time
	Limit     int
}
