// Package bot covers the one interaction this service has with the Telegram
// Bot API: registering the webhook the frontend's bot integration relies on.
package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	Logger "github.com/giftpropaganda/newsfeed/utils/log"
)

// RegisterWebhook points the bot's webhook at the given URL. Called once at
// startup when both token and URL are configured, a failure is logged by the
// caller and is never fatal.
func RegisterWebhook(token, webhookURL string) error {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return errors.Wrap(err, "create bot api client")
	}

	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return errors.Wrap(err, "build webhook config")
	}
	if _, err := api.Request(wh); err != nil {
		return errors.Wrap(err, "set webhook")
	}

	info, err := api.GetWebhookInfo()
	if err != nil {
		return errors.Wrap(err, "verify webhook")
	}
	if info.LastErrorDate != 0 {
		Logger.Log.Warnf("webhook registered with previous delivery error: %s", info.LastErrorMessage)
	}

	Logger.Log.Infof("webhook registered at %s", webhookURL)
	return nil
}
