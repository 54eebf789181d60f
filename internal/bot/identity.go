package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/deal_bot/internal/model"
)

// displayName — "Имя Фамилия", иначе @username, иначе @UnknownUser
func displayName(user *tgbotapi.User) string {
	if user == nil {
		return "@UnknownUser"
	}
	fullName := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if fullName != "" {
		return fullName
	}
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return "@UnknownUser"
}

func handle(user *tgbotapi.User) string {
	if user == nil || user.UserName == "" {
		return "unknown"
	}
	return user.UserName
}

func userID(message *tgbotapi.Message) int64 {
	if message.From != nil {
		return message.From.ID
	}
	return chatID(message)
}

func chatID(message *tgbotapi.Message) int64 {
	if message.Chat != nil {
		return message.Chat.ID
	}
	if message.From != nil {
		return message.From.ID
	}
	return 0
}

func toIncoming(message *tgbotapi.Message, entry bool) model.IncomingMessage {
	return model.IncomingMessage{
		UserID:         userID(message),
		ChatID:         chatID(message),
		DisplayName:    displayName(message.From),
		Handle:         handle(message.From),
		RawText:        message.Text,
		IsEntryCommand: entry,
	}
}
