package model

import "time"

// EscalationRecord представляет строку таблицы escalations в Supabase
type EscalationRecord struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Handle      string    `json:"handle"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEscalationRecord переводит эскалацию в формат хранилища
func NewEscalationRecord(p *EscalationPayload) *EscalationRecord {
	return &EscalationRecord{
		ID:          p.ID,
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Handle:      p.Handle,
		Text:        p.RawText,
		CreatedAt:   p.CreatedAt,
	}
}
