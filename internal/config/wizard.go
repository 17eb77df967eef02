package config

import (
	"fmt"
	"net/url"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Jotunheim MC website setup")
	fmt.Println()

	cfg := DefaultConfig()

	listenPrompt := promptui.Prompt{
		Label:   "Listen address",
		Default: cfg.Listen,
	}
	listen, err := listenPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("listen address: %w", err)
	}
	cfg.Listen = listen

	basePrompt := promptui.Prompt{
		Label:    "Public base URL",
		Default:  cfg.BaseURL,
		Validate: validateAbsoluteURL,
	}
	baseURL, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	cfg.BaseURL = baseURL

	webhookPrompt := promptui.Prompt{
		Label: "Contact form webhook URL (leave blank to configure later)",
		Validate: func(s string) error {
			if s == "" {
				return nil
			}
			return validateAbsoluteURL(s)
		},
	}
	webhook, err := webhookPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("webhook url: %w", err)
	}
	cfg.Contact.WebhookURL = webhook

	chatPrompt := promptui.Select{
		Label: "Enable live chat widget",
		Items: []string{"yes", "no"},
	}
	chatIdx, _, err := chatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chat selection: %w", err)
	}
	cfg.Chat.Enabled = chatIdx == 0

	originsPrompt := promptui.Prompt{
		Label:   "Extra CORS origins (comma-separated, leave blank for none)",
		Default: "",
	}
	origins, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cors origins: %w", err)
	}
	cfg.CORS.AllowedOrigins = splitAndTrim(origins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateAbsoluteURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}
