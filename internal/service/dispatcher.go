package service

import (
	"github.com/ivanoskov/deal_bot/internal/logger"
	"github.com/ivanoskov/deal_bot/internal/metrics"
	"github.com/ivanoskov/deal_bot/internal/model"
	"github.com/ivanoskov/deal_bot/internal/repository"
)

// Dispatcher связывает хранилище сессий и роутер и превращает решения в действия
type Dispatcher struct {
	sessions   repository.SessionStore
	router     *Router
	copy       Copy
	operatorID int64
	stats      *Stats
	log        logger.Logger
}

func NewDispatcher(sessions repository.SessionStore, c Copy, operatorID int64, stats *Stats, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		sessions:   sessions,
		router:     NewRouter(c),
		copy:       c,
		operatorID: operatorID,
		stats:      stats,
		log:        log,
	}
}

// Handle выбирает обработчик по типу входящего сообщения
func (d *Dispatcher) Handle(msg model.IncomingMessage) []model.OutgoingAction {
	if msg.IsEntryCommand {
		return d.OnEntryCommand(msg.UserID, msg.ChatID, msg.DisplayName)
	}
	return d.OnMessage(msg)
}

// OnEntryCommand сбрасывает пользователя в StateStarted независимо от прошлого состояния
func (d *Dispatcher) OnEntryCommand(userID, chatID int64, displayName string) []model.OutgoingAction {
	unlock := d.sessions.Lock(userID)
	d.sessions.Save(model.UserSession{UserID: userID, State: model.StateStarted, DisplayName: displayName})
	unlock()

	d.record(model.IntentStart)
	d.log.Info("entry command", logger.Fields{"user_id": userID, "display_name": displayName})

	return []model.OutgoingAction{
		model.ReplyToUser{ChatID: chatID, Text: d.copy.StartReset, RemoveMenu: true},
		model.ReplyToUser{ChatID: chatID, Text: d.copy.StartGreeting, Menu: MenuFor(model.StateStarted).Labels()},
	}
}

// OnMessage прогоняет текст через роутер под блокировкой пользователя
func (d *Dispatcher) OnMessage(msg model.IncomingMessage) []model.OutgoingAction {
	unlock := d.sessions.Lock(msg.UserID)
	state := d.sessions.Get(msg.UserID)
	decision := d.router.Decide(state, msg.RawText, Identity{
		UserID:      msg.UserID,
		DisplayName: msg.DisplayName,
		Handle:      msg.Handle,
	})
	if decision.NextState != nil {
		d.sessions.Save(model.UserSession{UserID: msg.UserID, State: *decision.NextState, DisplayName: msg.DisplayName})
	}
	unlock()

	d.record(decision.Intent)
	log := d.log.With(logger.Fields{"user_id": msg.UserID, "state": state.String(), "intent": string(decision.Intent)})
	log.Debug("message routed", nil)

	reply := model.ReplyToUser{ChatID: msg.ChatID, Text: decision.ReplyText}
	if decision.Menu != nil {
		reply.Menu = decision.Menu.Labels()
	}
	actions := []model.OutgoingAction{reply}

	if decision.Escalate != nil {
		metrics.Escalations.Inc()
		log.Info("escalating to operator", logger.Fields{"escalation_id": decision.Escalate.ID})
		actions = append(actions, model.ForwardToOperator{
			OperatorID: d.operatorID,
			Text:       render(d.copy.OperatorForward, decision.Escalate.DisplayName, decision.Escalate.Handle, decision.Escalate.RawText),
			Escalation: decision.Escalate,
		})
	}
	return actions
}

func (d *Dispatcher) record(intent model.Intent) {
	if d.stats != nil {
		d.stats.Record(intent)
	}
	metrics.MessagesRouted.WithLabelValues(string(intent)).Inc()
	if counter, ok := d.sessions.(interface{ Len() int }); ok {
		metrics.ActiveSessions.Set(float64(counter.Len()))
	}
}
