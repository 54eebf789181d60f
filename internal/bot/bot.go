package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/ivanoskov/deal_bot/internal/charts"
	"github.com/ivanoskov/deal_bot/internal/logger"
	"github.com/ivanoskov/deal_bot/internal/metrics"
	"github.com/ivanoskov/deal_bot/internal/model"
	"github.com/ivanoskov/deal_bot/internal/repository"
	"github.com/ivanoskov/deal_bot/internal/service"
)

const (
	shardBuffer = 64
	// Сколько последних эскалаций показывает /escalations
	recentEscalations = 10
	escalationPreview = 200
)

// Sender описывает часть Telegram API, через которую бот отправляет сообщения
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Options struct {
	Token       string
	OperatorID  int64
	Workers     int
	PollTimeout int
	HTTPTimeout time.Duration
}

// Bot принимает обновления Telegram, отдает их диспетчеру
// и выполняет полученные действия
type Bot struct {
	api        *tgbotapi.BotAPI
	sender     Sender
	dispatcher *service.Dispatcher
	forwarder  service.Forwarder
	archive    repository.EscalationRepository
	stats      *service.Stats
	charts     *charts.ChartGenerator
	operatorID int64
	workers    int
	timeout    int
	log        logger.Logger
}

func NewBot(opts Options, dispatcher *service.Dispatcher, stats *service.Stats, log logger.Logger) (*Bot, error) {
	client := &http.Client{Timeout: opts.HTTPTimeout}
	api, err := tgbotapi.NewBotAPIWithClient(opts.Token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	b := newBot(api, dispatcher, stats, opts, log)
	b.api = api
	return b, nil
}

func newBot(sender Sender, dispatcher *service.Dispatcher, stats *service.Stats, opts Options, log logger.Logger) *Bot {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	b := &Bot{
		sender:     sender,
		dispatcher: dispatcher,
		stats:      stats,
		charts:     charts.NewChartGenerator(),
		operatorID: opts.OperatorID,
		workers:    workers,
		timeout:    opts.PollTimeout,
		log:        log,
	}
	b.forwarder = b
	return b
}

// WithArchive сохраняет каждую эскалацию в repo перед пересылкой оператору
func (b *Bot) WithArchive(repo repository.EscalationRepository) *Bot {
	b.archive = repo
	b.forwarder = service.NewArchivingForwarder(b, repo, b.log)
	return b
}

// Forward отправляет эскалацию в чат оператора
func (b *Bot) Forward(_ context.Context, action model.ForwardToOperator) error {
	_, err := b.sender.Send(tgbotapi.NewMessage(action.OperatorID, action.Text))
	if err != nil {
		return fmt.Errorf("failed to forward to operator: %w", err)
	}
	return nil
}

// Start запускает бота в режиме long polling и блокируется до отмены ctx
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("bot started", logger.Fields{"username": b.api.Self.UserName, "workers": b.workers})

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	return b.consume(ctx, updates)
}

// consume раскладывает обновления по воркерам по ID пользователя:
// сообщения одного пользователя идут по порядку, разные пользователи параллельно.
func (b *Bot) consume(ctx context.Context, updates <-chan tgbotapi.Update) error {
	var g errgroup.Group
	// Принятые обновления дорабатываются до конца даже после отмены ctx
	workCtx := context.WithoutCancel(ctx)

	shards := make([]chan tgbotapi.Update, b.workers)
	for i := range shards {
		shard := make(chan tgbotapi.Update, shardBuffer)
		shards[i] = shard
		g.Go(func() error {
			for update := range shard {
				if err := b.handleUpdate(workCtx, update); err != nil {
					b.log.WithError(err).Error("error handling update", logger.Fields{"update_id": update.UpdateID})
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, shard := range shards {
				close(shard)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case update, ok := <-updates:
				if !ok {
					return nil
				}
				shards[shardIndex(update, len(shards))] <- update
			}
		}
	})

	return g.Wait()
}

func shardIndex(update tgbotapi.Update, n int) int {
	var id int64
	if update.Message != nil {
		id = userID(update.Message)
	}
	return int(uint64(id) % uint64(n))
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("failed to decode update: %w", err)
	}

	return b.handleUpdate(ctx, update)
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	message := update.Message
	if message == nil {
		return nil
	}

	if message.IsCommand() {
		defer observe("command", time.Now())
		return b.handleCommand(ctx, message)
	}

	// Только текст; фото, стикеры и прочее игнорируются
	if message.Text == "" {
		return nil
	}

	defer observe("message", time.Now())
	b.execute(ctx, b.dispatcher.Handle(toIncoming(message, false)))
	return nil
}

func observe(kind string, start time.Time) {
	metrics.UpdateDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		b.execute(ctx, b.dispatcher.Handle(toIncoming(message, true)))
	case "stats":
		if !b.fromOperator(message) {
			return nil
		}
		return b.handleStats(chatID(message))
	case "escalations":
		if !b.fromOperator(message) {
			return nil
		}
		return b.handleEscalations(ctx, chatID(message))
	default:
		b.log.Debug("unknown command ignored", logger.Fields{"command": message.Command()})
	}
	return nil
}

// fromOperator пропускает служебные команды только из чата оператора
func (b *Bot) fromOperator(message *tgbotapi.Message) bool {
	if chatID(message) == b.operatorID {
		return true
	}
	b.log.Debug("operator command from non-operator", logger.Fields{
		"user_id": userID(message),
		"command": message.Command(),
	})
	return false
}

func (b *Bot) handleStats(chatID int64) error {
	counts := b.stats.Snapshot()
	png, err := b.charts.GenerateIntentChart(counts)
	if err != nil {
		return err
	}

	if png == nil {
		_, err = b.sender.Send(tgbotapi.NewMessage(chatID, "No messages yet."))
		return err
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "stats.png", Bytes: png})
	photo.Caption = fmt.Sprintf("📊 Total: %d", b.stats.Total())
	_, err = b.sender.Send(photo)
	return err
}

// handleEscalations отправляет оператору последние сохраненные эскалации
func (b *Bot) handleEscalations(ctx context.Context, chatID int64) error {
	if b.archive == nil {
		_, err := b.sender.Send(tgbotapi.NewMessage(chatID, "Escalation archive is disabled."))
		return err
	}

	records, err := b.archive.GetEscalations(ctx, repository.EscalationFilter{Limit: recentEscalations})
	if err != nil {
		return fmt.Errorf("failed to list escalations: %w", err)
	}

	if len(records) == 0 {
		_, err = b.sender.Send(tgbotapi.NewMessage(chatID, "No escalations yet."))
		return err
	}

	_, err = b.sender.Send(tgbotapi.NewMessage(chatID, formatEscalations(records)))
	return err
}

func formatEscalations(records []model.EscalationRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Last %d escalations:", len(records))
	for _, r := range records {
		fmt.Fprintf(&sb, "\n\n%s %s (@%s):\n%s",
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
			r.DisplayName,
			r.Handle,
			preview(r.Text),
		)
	}
	return sb.String()
}

// preview обрезает текст по рунам, чтобы не порвать UTF-8
func preview(text string) string {
	text = strings.TrimSpace(text)
	if lo.RuneLength(text) <= escalationPreview {
		return text
	}
	return lo.Substring(text, 0, escalationPreview) + "…"
}

// execute выполняет действия без повторов: ошибки доставки только логируются
func (b *Bot) execute(ctx context.Context, actions []model.OutgoingAction) {
	for _, action := range actions {
		switch a := action.(type) {
		case model.ReplyToUser:
			if err := b.reply(a); err != nil {
				metrics.DeliveryFailures.WithLabelValues("reply").Inc()
				b.log.WithError(err).Warn("failed to send reply", logger.Fields{"chat_id": a.ChatID})
			}
		case model.ForwardToOperator:
			if err := b.forwarder.Forward(ctx, a); err != nil {
				metrics.DeliveryFailures.WithLabelValues("forward").Inc()
				b.log.WithError(err).Warn("failed to forward escalation", logger.Fields{"operator_id": a.OperatorID})
			}
		}
	}
}

func (b *Bot) reply(a model.ReplyToUser) error {
	msg := tgbotapi.NewMessage(a.ChatID, a.Text)
	switch {
	case a.RemoveMenu:
		msg.ReplyMarkup = removeKeyboard()
	case a.Menu != nil:
		msg.ReplyMarkup = menuKeyboard(a.Menu)
	}
	_, err := b.sender.Send(msg)
	return err
}
