package main

import (
	"context"
	"sync"

	"github.com/ivanoskov/deal_bot/internal/bot"
	"github.com/ivanoskov/deal_bot/internal/config"
	"github.com/ivanoskov/deal_bot/internal/logger"
	"github.com/ivanoskov/deal_bot/internal/repository"
	"github.com/ivanoskov/deal_bot/internal/service"
)

// Request структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Бот создается один раз на экземпляр функции, чтобы сессии жили
// между вызовами, пока экземпляр не выгружен
var (
	instance *bot.Bot
	initErr  error
	once     sync.Once
)

func setup() (*bot.Bot, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewStructured(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	copyText, err := service.LoadCopy(cfg.CopyFile)
	if err != nil {
		return nil, err
	}

	stats := service.NewStats()
	dispatcher := service.NewDispatcher(repository.NewMemorySessionStore(), copyText, cfg.OperatorID, stats, log)

	b, err := bot.NewBot(bot.Options{
		Token:       cfg.TelegramToken,
		OperatorID:  cfg.OperatorID,
		Workers:     1,
		HTTPTimeout: cfg.SendTimeout,
	}, dispatcher, stats, log)
	if err != nil {
		return nil, err
	}

	if cfg.ArchiveEnabled() {
		repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, err
		}
		b.WithArchive(repo)
	}
	return b, nil
}

func Handler(ctx context.Context, request Request) (*Response, error) {
	once.Do(func() {
		instance, initErr = setup()
	})
	if initErr != nil {
		return errorResponse(initErr)
	}

	// Обработка webhook-обновления
	if err := instance.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
