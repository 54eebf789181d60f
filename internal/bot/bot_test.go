package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/deal_bot/internal/logger"
	"github.com/ivanoskov/deal_bot/internal/model"
	"github.com/ivanoskov/deal_bot/internal/repository"
	"github.com/ivanoskov/deal_bot/internal/service"
)

const operatorID int64 = 7168112250

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, s.err
}

func (s *fakeSender) messages() []tgbotapi.MessageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tgbotapi.MessageConfig, 0, len(s.sent))
	for _, c := range s.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

type fakeArchive struct {
	created []model.EscalationRecord
	filters []repository.EscalationFilter
	err     error
}

func (a *fakeArchive) CreateEscalation(_ context.Context, e *model.EscalationRecord) error {
	a.created = append(a.created, *e)
	return nil
}

// GetEscalations отдает записи от новых к старым, как Supabase с order=created_at.desc
func (a *fakeArchive) GetEscalations(_ context.Context, filter repository.EscalationFilter) ([]model.EscalationRecord, error) {
	a.filters = append(a.filters, filter)
	if a.err != nil {
		return nil, a.err
	}
	out := make([]model.EscalationRecord, 0, len(a.created))
	for i := len(a.created) - 1; i >= 0; i-- {
		out = append(out, a.created[i])
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func newTestBot(t *testing.T, workers int) (*Bot, *fakeSender, *repository.MemorySessionStore) {
	store := repository.NewMemorySessionStore()
	stats := service.NewStats()
	log := logger.NewTestLogger(t)
	dispatcher := service.NewDispatcher(store, service.DefaultCopy(), operatorID, stats, log)
	sender := &fakeSender{}
	b := newBot(sender, dispatcher, stats, Options{OperatorID: operatorID, Workers: workers}, log)
	return b, sender, store
}

func textUpdate(id int, userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID, FirstName: "Jane", LastName: "Doe", UserName: "jane"},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	}
}

func commandUpdate(id int, userID int64, command string) tgbotapi.Update {
	u := textUpdate(id, userID, "/"+command)
	u.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command) + 1}}
	return u
}

func TestHandleUpdate_StartSendsResetThenRootMenu(t *testing.T) {
	b, sender, store := newTestBot(t, 1)

	require.NoError(t, b.handleUpdate(context.Background(), commandUpdate(1, 10, "start")))

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.IsType(t, tgbotapi.ReplyKeyboardRemove{}, msgs[0].ReplyMarkup)

	keyboard, ok := msgs[1].ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, keyboard.ResizeKeyboard)
	require.Len(t, keyboard.Keyboard, 1)
	assert.Equal(t, "Lets Deal", keyboard.Keyboard[0][0].Text)
	assert.Equal(t, model.StateStarted, store.Get(10))
}

func TestHandleUpdate_LetsDealRendersDealMenu(t *testing.T) {
	b, sender, store := newTestBot(t, 1)

	require.NoError(t, b.handleUpdate(context.Background(), textUpdate(1, 10, "Lets Deal")))

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "Hi, Jane Doe,")
	keyboard := msgs[0].ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	assert.Len(t, keyboard.Keyboard, 5)
	assert.Equal(t, model.StateDealSelected, store.Get(10))
}

func TestHandleUpdate_EscalationForwardsToOperator(t *testing.T) {
	b, sender, store := newTestBot(t, 1)
	archive := &fakeArchive{}
	b.WithArchive(archive)
	store.Set(10, model.StateDealSelected)

	require.NoError(t, b.handleUpdate(context.Background(), textUpdate(1, 10, "hello, what's your rate?")))

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(10), msgs[0].ChatID)
	assert.Equal(t, service.DefaultCopy().Acknowledge, msgs[0].Text)
	assert.Nil(t, msgs[0].ReplyMarkup)

	assert.Equal(t, operatorID, msgs[1].ChatID)
	assert.Equal(t, "📩 Message from Jane Doe (@jane):\n\nhello, what's your rate?", msgs[1].Text)

	require.Len(t, archive.created, 1)
	assert.Equal(t, int64(10), archive.created[0].UserID)
}

func TestHandleUpdate_DeliveryFailureKeepsState(t *testing.T) {
	b, sender, store := newTestBot(t, 1)
	sender.err = errors.New("network down")

	require.NoError(t, b.handleUpdate(context.Background(), textUpdate(1, 10, "lets deal")))
	assert.Equal(t, model.StateDealSelected, store.Get(10))
}

func TestHandleUpdate_IgnoresNonTextAndUnknownCommands(t *testing.T) {
	b, sender, _ := newTestBot(t, 1)
	ctx := context.Background()

	require.NoError(t, b.handleUpdate(ctx, tgbotapi.Update{UpdateID: 1}))
	require.NoError(t, b.handleUpdate(ctx, textUpdate(2, 10, "")))
	require.NoError(t, b.handleUpdate(ctx, commandUpdate(3, 10, "help")))

	assert.Empty(t, sender.messages())
}

func TestHandleUpdate_StatsOnlyForOperator(t *testing.T) {
	b, sender, _ := newTestBot(t, 1)
	ctx := context.Background()

	require.NoError(t, b.handleUpdate(ctx, commandUpdate(1, 10, "stats")))
	assert.Empty(t, sender.sent)

	require.NoError(t, b.handleUpdate(ctx, commandUpdate(2, operatorID, "stats")))
	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "No messages yet.", msgs[0].Text)

	require.NoError(t, b.handleUpdate(ctx, textUpdate(3, 10, "lets deal")))
	require.NoError(t, b.handleUpdate(ctx, commandUpdate(4, operatorID, "stats")))

	last := sender.sent[len(sender.sent)-1]
	photo, ok := last.(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, operatorID, photo.ChatID)
	assert.Equal(t, "📊 Total: 1", photo.Caption)
}

func TestHandleUpdate_EscalationsOnlyForOperator(t *testing.T) {
	b, sender, _ := newTestBot(t, 1)
	archive := &fakeArchive{}
	b.WithArchive(archive)

	require.NoError(t, b.handleUpdate(context.Background(), commandUpdate(1, 10, "escalations")))
	assert.Empty(t, sender.sent)
	assert.Empty(t, archive.filters)
}

func TestHandleUpdate_EscalationsWithoutArchive(t *testing.T) {
	b, sender, _ := newTestBot(t, 1)

	require.NoError(t, b.handleUpdate(context.Background(), commandUpdate(1, operatorID, "escalations")))
	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Escalation archive is disabled.", msgs[0].Text)
}

func TestHandleUpdate_EscalationsListsRecent(t *testing.T) {
	b, sender, _ := newTestBot(t, 1)
	archive := &fakeArchive{}
	b.WithArchive(archive)
	ctx := context.Background()

	require.NoError(t, b.handleUpdate(ctx, commandUpdate(1, operatorID, "escalations")))
	require.Len(t, sender.messages(), 1)
	assert.Equal(t, "No escalations yet.", sender.messages()[0].Text)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < recentEscalations+2; i++ {
		archive.created = append(archive.created, model.EscalationRecord{
			ID:          "id",
			UserID:      int64(i),
			DisplayName: "Jane Doe",
			Handle:      "jane",
			Text:        "question " + string(rune('a'+i)),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}

	require.NoError(t, b.handleUpdate(ctx, commandUpdate(2, operatorID, "escalations")))
	require.Len(t, archive.filters, 2)
	assert.Equal(t, repository.EscalationFilter{Limit: recentEscalations}, archive.filters[1])

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	text := msgs[1].Text
	assert.Equal(t, operatorID, msgs[1].ChatID)
	assert.True(t, strings.HasPrefix(text, "📋 Last 10 escalations:"))
	assert.Contains(t, text, "2024-05-01 12:11 Jane Doe (@jane):\nquestion l")
	assert.NotContains(t, text, "question a")
	assert.Less(t, strings.Index(text, "question l"), strings.Index(text, "question c"))
}

func TestHandleUpdate_EscalationsArchiveError(t *testing.T) {
	b, sender, _ := newTestBot(t, 1)
	b.WithArchive(&fakeArchive{err: errors.New("supabase down")})

	err := b.handleUpdate(context.Background(), commandUpdate(1, operatorID, "escalations"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supabase down")
	assert.Empty(t, sender.sent)
}

func TestPreview_TruncatesByRunes(t *testing.T) {
	short := "  привет  "
	assert.Equal(t, "привет", preview(short))

	long := strings.Repeat("ж", escalationPreview+5)
	got := preview(long)
	assert.Equal(t, strings.Repeat("ж", escalationPreview)+"…", got)
}

func TestHandleWebhook(t *testing.T) {
	b, sender, store := newTestBot(t, 1)
	body := []byte(`{"update_id":1,"message":{"message_id":5,"from":{"id":77,"first_name":"","username":"anon"},"chat":{"id":77,"type":"private"},"text":"LETS DEAL"}}`)

	require.NoError(t, b.HandleWebhook(context.Background(), body))
	assert.Equal(t, model.StateDealSelected, store.Get(77))
	require.Len(t, sender.messages(), 1)
	assert.Contains(t, sender.messages()[0].Text, "Hi, @anon,")

	assert.Error(t, b.HandleWebhook(context.Background(), []byte("{")))
}

func TestConsume_PreservesPerUserOrder(t *testing.T) {
	b, _, store := newTestBot(t, 4)

	updates := make(chan tgbotapi.Update, 256)
	id := 0
	for user := int64(1); user <= 20; user++ {
		for _, text := range []string{"lets deal", "restart bot", "lets deal", "restart bot"} {
			id++
			updates <- textUpdate(id, user, text)
		}
		if user%2 == 1 {
			id++
			updates <- textUpdate(id, user, "lets deal")
		}
	}
	close(updates)

	require.NoError(t, b.consume(context.Background(), updates))

	for user := int64(1); user <= 20; user++ {
		want := model.StateStarted
		if user%2 == 1 {
			want = model.StateDealSelected
		}
		assert.Equal(t, want, store.Get(user), "user %d", user)
	}
}

func TestConsume_StopsOnCancel(t *testing.T) {
	b, _, _ := newTestBot(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	updates := make(chan tgbotapi.Update)
	assert.NoError(t, b.consume(ctx, updates))
}

func TestShardIndex(t *testing.T) {
	assert.Equal(t, shardIndex(textUpdate(1, 42, "a"), 4), shardIndex(textUpdate(2, 42, "b"), 4))
	assert.Equal(t, 0, shardIndex(tgbotapi.Update{}, 4))
	idx := shardIndex(textUpdate(1, -5, "a"), 3)
	assert.True(t, idx >= 0 && idx < 3)
}
