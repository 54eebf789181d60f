package service

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ivanoskov/deal_bot/internal/model"
)

const dealTrigger = "lets deal"

// Identity содержит данные пользователя, нужные для ответа и эскалации
type Identity struct {
	UserID      int64
	DisplayName string
	Handle      string
}

// Rule связывает предикат по нормализованному тексту с ответом
type Rule struct {
	Intent model.Intent
	Match  func(normalized string) bool
	Reply  func(c Copy) model.RoutingDecision
}

func contains(substr string) func(string) bool {
	return func(s string) bool {
		return strings.Contains(s, substr)
	}
}

func containsAny(substrs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range substrs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

func info(intent model.Intent, text func(Copy) string) func(Copy) model.RoutingDecision {
	return func(c Copy) model.RoutingDecision {
		return model.RoutingDecision{Intent: intent, ReplyText: text(c)}
	}
}

// Порядок важен: срабатывает первое совпадение, остальные не проверяются.
var categoryRules = []Rule{
	{model.IntentServices, contains("services"), info(model.IntentServices, func(c Copy) string { return c.Services })},
	{model.IntentBuildWebsite, contains("build a website"), func(c Copy) model.RoutingDecision {
		return model.RoutingDecision{
			Intent:    model.IntentBuildWebsite,
			ReplyText: c.WebsitePrompt,
			Menu:      WebsiteMenu(),
		}
	}},
	{model.IntentCourierWebsite, contains("courier website"), info(model.IntentCourierWebsite, func(c Copy) string { return c.CourierWebsite })},
	{model.IntentBitcoin, contains("bitcoin"), info(model.IntentBitcoin, func(c Copy) string { return c.Bitcoin })},
	{model.IntentTrackingWebsite, contains("tracking website"), info(model.IntentTrackingWebsite, func(c Copy) string { return c.TrackingWebsite })},
	{model.IntentAutoBot, contains("auto-bot"), info(model.IntentAutoBot, func(c Copy) string { return c.AutoBot })},
	{model.IntentBanking, contains("banking"), info(model.IntentBanking, func(c Copy) string { return c.Banking })},
	{model.IntentBlogPortal, contains("blog portal"), info(model.IntentBlogPortal, func(c Copy) string { return c.BlogPortal })},
	{model.IntentBusinessWebsite, contains("business website"), info(model.IntentBusinessWebsite, func(c Copy) string { return c.BusinessWebsite })},
	{model.IntentCompanyWebsite, contains("company website"), info(model.IntentCompanyWebsite, func(c Copy) string { return c.CompanyWebsite })},
	{model.IntentCPanelDomain, containsAny("cpanel", "domain"), info(model.IntentCPanelDomain, func(c Copy) string { return c.CPanelDomain })},
	{model.IntentRestart, contains("restart bot"), func(c Copy) model.RoutingDecision {
		return model.RoutingDecision{
			Intent:    model.IntentRestart,
			ReplyText: c.Restart,
			Menu:      MenuFor(model.StateStarted),
			NextState: lo.ToPtr(model.StateStarted),
		}
	}},
}

// Rules возвращает копию упорядоченной таблицы правил категорий
func Rules() []Rule {
	out := make([]Rule, len(categoryRules))
	copy(out, categoryRules)
	return out
}

// Router решает, что ответить на сообщение. Ввода-вывода не делает.
type Router struct {
	copy Copy
	now  func() time.Time
}

func NewRouter(c Copy) *Router {
	return &Router{copy: c, now: time.Now}
}

// Normalize обрезает пробелы по краям и переводит текст в нижний регистр
func Normalize(text string) string {
	// cases.Caser хранит состояние, поэтому создается на каждый вызов
	return cases.Lower(language.Und).String(strings.TrimSpace(text))
}

// Decide маршрутизирует текст с учетом текущего состояния. Ошибок не бывает:
// любой ввод, включая пустой, дает определенное решение.
func (r *Router) Decide(state model.State, rawText string, id Identity) model.RoutingDecision {
	text := Normalize(rawText)

	if strings.Contains(text, dealTrigger) {
		return model.RoutingDecision{
			Intent:    model.IntentDeal,
			ReplyText: render(r.copy.DealGreeting, id.DisplayName, id.Handle, rawText),
			Menu:      MenuFor(model.StateDealSelected),
			NextState: lo.ToPtr(model.StateDealSelected),
		}
	}

	if state != model.StateDealSelected {
		return model.RoutingDecision{
			Intent:    model.IntentBlocked,
			ReplyText: r.copy.Blocked,
		}
	}

	for _, rule := range categoryRules {
		if rule.Match(text) {
			return rule.Reply(r.copy)
		}
	}

	escalation := &model.EscalationPayload{
		UserID:      id.UserID,
		DisplayName: id.DisplayName,
		Handle:      id.Handle,
		RawText:     rawText,
		CreatedAt:   r.now(),
	}
	escalation.GenerateID()

	return model.RoutingDecision{
		Intent:    model.IntentEscalate,
		ReplyText: r.copy.Acknowledge,
		Escalate:  escalation,
	}
}
