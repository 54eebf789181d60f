package model

// State определяет позицию пользователя в сценарии диалога
type State int

const (
	// StateUnset означает, что сессии нет. В хранилище не пишется
	StateUnset State = iota
	StateStarted
	StateDealSelected
)

func (s State) String() string {
	switch s {
	case StateStarted:
		return "STARTED"
	case StateDealSelected:
		return "DEAL_SELECTED"
	default:
		return "UNSET"
	}
}

// UserSession представляет текущую сессию пользователя.
// DisplayName обновляется при каждой смене состояния
type UserSession struct {
	UserID      int64  `json:"user_id"`
	State       State  `json:"state"`
	DisplayName string `json:"display_name"`
}
