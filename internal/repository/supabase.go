package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/deal_bot/internal/model"
)

const escalationsTable = "escalations"

// SupabaseRepository архивирует эскалации в Supabase
type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

// postgrest-go не принимает context, поэтому отмена проверяется до запроса
func (r *SupabaseRepository) CreateEscalation(ctx context.Context, escalation *model.EscalationRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to create escalation: %w", err)
	}

	_, _, err := r.client.From(escalationsTable).Insert(escalation, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create escalation: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) GetEscalations(ctx context.Context, filter EscalationFilter) ([]model.EscalationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to get escalations: %w", err)
	}

	query := r.client.From(escalationsTable).Select("*", "", false)

	if filter.UserID != 0 {
		query = query.Eq("user_id", strconv.FormatInt(filter.UserID, 10))
	}
	if filter.StartDate != nil {
		query = query.Gte("created_at", filter.StartDate.Format(time.RFC3339))
	}

	// Сначала новые
	query = query.Order("created_at", &postgrest.OrderOpts{Ascending: false})

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit, "")
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get escalations: %w", err)
	}

	var escalations []model.EscalationRecord
	if err := json.Unmarshal(data, &escalations); err != nil {
		return nil, fmt.Errorf("failed to parse escalations: %w", err)
	}
	return escalations, nil
}
