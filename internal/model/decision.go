package model

import (
	"time"

	"github.com/google/uuid"
)

// Intent описывает категорию, в которую попал текст пользователя
type Intent string

const (
	IntentStart           Intent = "start"
	IntentDeal            Intent = "deal"
	IntentBlocked         Intent = "blocked"
	IntentServices        Intent = "services"
	IntentBuildWebsite    Intent = "build_website"
	IntentCourierWebsite  Intent = "courier_website"
	IntentBitcoin         Intent = "bitcoin"
	IntentTrackingWebsite Intent = "tracking_website"
	IntentAutoBot         Intent = "auto_bot"
	IntentBanking         Intent = "banking"
	IntentBlogPortal      Intent = "blog_portal"
	IntentBusinessWebsite Intent = "business_website"
	IntentCompanyWebsite  Intent = "company_website"
	IntentCPanelDomain    Intent = "cpanel_domain"
	IntentRestart         Intent = "restart"
	IntentEscalate        Intent = "escalate"
)

type MenuOption struct {
	Label string `json:"label"`
}

// Menu хранит кнопки в порядке отображения
type Menu []MenuOption

// Labels возвращает подписи кнопок в исходном порядке
func (m Menu) Labels() []string {
	labels := make([]string, len(m))
	for i, opt := range m {
		labels[i] = opt.Label
	}
	return labels
}

// RoutingDecision представляет результат маршрутизации одного сообщения.
// Menu == nil означает "без меню", NextState == nil означает "состояние не меняется".
type RoutingDecision struct {
	Intent    Intent
	ReplyText string
	Menu      Menu
	NextState *State
	Escalate  *EscalationPayload
}

// EscalationPayload содержит сообщение, которое нужно передать оператору
type EscalationPayload struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Handle      string    `json:"handle"`
	RawText     string    `json:"raw_text"`
	CreatedAt   time.Time `json:"created_at"`
}

// GenerateID генерирует новый UUID для эскалации, если он еще не установлен
func (e *EscalationPayload) GenerateID() {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
}
