package model

// IncomingMessage представляет входящее сообщение от транспорта
type IncomingMessage struct {
	UserID         int64
	ChatID         int64
	DisplayName    string
	Handle         string
	RawText        string
	IsEntryCommand bool
}

// OutgoingAction описывает действие, которое транспорт должен выполнить.
// Реализации: ReplyToUser, ForwardToOperator.
type OutgoingAction interface {
	isOutgoingAction()
}

// ReplyToUser отправляет ответ пользователю; Menu == nil оставляет текущую клавиатуру
type ReplyToUser struct {
	ChatID     int64
	Text       string
	Menu       []string
	RemoveMenu bool
}

// ForwardToOperator пересылает нераспознанное сообщение оператору
type ForwardToOperator struct {
	OperatorID int64
	Text       string
	Escalation *EscalationPayload
}

func (ReplyToUser) isOutgoingAction()       {}
func (ForwardToOperator) isOutgoingAction() {}
