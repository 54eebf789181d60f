package service

import (
	"context"

	"github.com/ivanoskov/deal_bot/internal/logger"
	"github.com/ivanoskov/deal_bot/internal/metrics"
	"github.com/ivanoskov/deal_bot/internal/model"
	"github.com/ivanoskov/deal_bot/internal/repository"
)

// Forwarder доставляет эскалацию оператору
type Forwarder interface {
	Forward(ctx context.Context, action model.ForwardToOperator) error
}

// ArchivingForwarder сохраняет эскалацию в архив и передает ее дальше.
// Ошибка архива только логируется.
type ArchivingForwarder struct {
	next Forwarder
	repo repository.EscalationRepository
	log  logger.Logger
}

func NewArchivingForwarder(next Forwarder, repo repository.EscalationRepository, log logger.Logger) *ArchivingForwarder {
	return &ArchivingForwarder{next: next, repo: repo, log: log}
}

func (f *ArchivingForwarder) Forward(ctx context.Context, action model.ForwardToOperator) error {
	if action.Escalation != nil {
		if err := f.repo.CreateEscalation(ctx, model.NewEscalationRecord(action.Escalation)); err != nil {
			metrics.ArchiveFailures.Inc()
			f.log.WithError(err).Warn("failed to archive escalation", logger.Fields{
				"escalation_id": action.Escalation.ID,
				"user_id":       action.Escalation.UserID,
			})
		}
	}
	return f.next.Forward(ctx, action)
}
