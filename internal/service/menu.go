package service

import "github.com/ivanoskov/deal_bot/internal/model"

var (
	rootMenu = []string{"Lets Deal"}

	dealMenu = []string{
		"I need your services",
		"I want to build a website",
		"I need your direct contact",
		"I want to discuss a deal with you",
		"Restart BOT",
	}

	websiteMenu = []string{
		"Courier Website",
		"Bitcoin Investment Website",
		"Tracking Website",
		"Auto-BOT",
		"Banking Website",
		"Blog Portal",
		"Business Website",
		"Company Website",
		"cPanel & Domains",
		"Restart BOT",
	}
)

func newMenu(labels []string) model.Menu {
	menu := make(model.Menu, len(labels))
	for i, l := range labels {
		menu[i] = model.MenuOption{Label: l}
	}
	return menu
}

// MenuFor возвращает меню верхнего уровня для состояния; для StateUnset меню нет.
// Каждый вызов отдает новую копию.
func MenuFor(state model.State) model.Menu {
	switch state {
	case model.StateStarted:
		return newMenu(rootMenu)
	case model.StateDealSelected:
		return newMenu(dealMenu)
	default:
		return nil
	}
}

// WebsiteMenu возвращает подменю типов сайтов. Отдельного состояния для него нет.
func WebsiteMenu() model.Menu {
	return newMenu(websiteMenu)
}
