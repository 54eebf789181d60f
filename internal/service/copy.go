package service

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Copy хранит тексты ответов бота. Плейсхолдеры: {name}, {handle}, {text}.
type Copy struct {
	StartReset      string `yaml:"start_reset"`
	StartGreeting   string `yaml:"start_greeting"`
	DealGreeting    string `yaml:"deal_greeting"`
	Blocked         string `yaml:"blocked"`
	Services        string `yaml:"services"`
	WebsitePrompt   string `yaml:"website_prompt"`
	CourierWebsite  string `yaml:"courier_website"`
	Bitcoin         string `yaml:"bitcoin"`
	TrackingWebsite string `yaml:"tracking_website"`
	AutoBot         string `yaml:"auto_bot"`
	Banking         string `yaml:"banking"`
	BlogPortal      string `yaml:"blog_portal"`
	BusinessWebsite string `yaml:"business_website"`
	CompanyWebsite  string `yaml:"company_website"`
	CPanelDomain    string `yaml:"cpanel_domain"`
	Restart         string `yaml:"restart"`
	Acknowledge     string `yaml:"acknowledge"`
	OperatorForward string `yaml:"operator_forward"`
}

const contactEmail = "webdeveloper1972@gmail.com"

func DefaultCopy() Copy {
	return Copy{
		StartReset:    "🔄 Resetting keyboard...",
		StartGreeting: "👋 What's up! Tap the 'Lets Deal' button below to continue:",
		DealGreeting: "Hi, {name}, Welcome to Biggest Atom BOT, Powered by Khodex:\n" +
			"A Programmer, Graphic Designer, Website Developer and Web Guru...\n\n" +
			"What would you like to do?",
		Blocked: "❌ Please tap the 'Lets Deal' button first to proceed. Send /start if you don't see it.",
		Services: "📩 Explain the service you need in full now and I will get back to you shortly, " +
			"or email " + contactEmail + " to keep it official and safe. " +
			"I don't give out WhatsApp numbers directly — we'll switch if needed.",
		WebsitePrompt: "🖥️ Choose the type of website you want to build:",
		CourierWebsite: "A courier website is an online platform designed for delivery services. " +
			"It allows customers to schedule pickups, track shipments, and manage deliveries.\n\n" +
			"Send your features in numbered format now and I will get back to you shortly, or email " + contactEmail + ".",
		Bitcoin: "A Bitcoin Investment Broker website allows users to invest Bitcoin with tracking, analytics, and guidance.\n\n" +
			"Send your features in numbered format now and I will get back to you shortly or email: " + contactEmail + ".",
		TrackingWebsite: "A tracking website is usually part of a courier system. " +
			"If you mean another type, explain it to me now and I will get back to you shortly or email: " + contactEmail + ".",
		AutoBot: "A bot automates tasks such as chatting or trading. Explain what you want and I’ll get back to you.\n\n" +
			"Type it here now or email " + contactEmail + ".",
		Banking: "A custom banking website offers tailored financial services and branding for banks.\n\n" +
			"Send your features in numbered format now and I will get back to you shortly or email " + contactEmail + ".",
		BlogPortal: "A blog portal combines blog content with a hub of tools/resources.\n\n" +
			"Send your WhatsApp number and features in numbered format now, or email " + contactEmail + ".",
		BusinessWebsite: "A business website showcases your products, services, and contact info.\n\n" +
			"Send your WhatsApp number and features in numbered format now, or email " + contactEmail + ".",
		CompanyWebsite: "A company website is your digital face: team, mission, services, and more.\n\n" +
			"Send your WhatsApp number and features in numbered format now, or email " + contactEmail + ".",
		CPanelDomain: "We can set up cPanel and domains along with your website project.\n\n" +
			"Send the domain details and required features now or email " + contactEmail + ".",
		Restart:         "🔁 Bot restarted. Tap 'Lets Deal' to begin again.",
		Acknowledge:     "✅ Perfect, Your message has been received. I will get back to you shortly.",
		OperatorForward: "📩 Message from {name} (@{handle}):\n\n{text}",
	}
}

// LoadCopy читает YAML поверх текстов по умолчанию. Пустой путь дает только умолчания
func LoadCopy(path string) (Copy, error) {
	c := DefaultCopy()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Copy{}, fmt.Errorf("failed to read copy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Copy{}, fmt.Errorf("failed to parse copy file: %w", err)
	}
	return c, nil
}

func render(template, name, handle, text string) string {
	return strings.NewReplacer("{name}", name, "{handle}", handle, "{text}", text).Replace(template)
}
