package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages via a Telegram bot.
// This keeps notification code independent of the bot library's lifecycle.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
