package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// UI texts in English
const (
	startText = "👋 I am the event assistant.\n\n" +
		"Tell me your Teckzite ID with /id <your ID>, then ask about your registered events.\n\n" +
		"⏰ You will also get an email a minute before each of your events starts."
	idUsageText = "Send your Teckzite ID like this: /id TZ12345"
	forgetText  = "Your Teckzite ID is forgotten for this chat."
	failureText = "Sorry, I could not answer that right now. Please try again later."
)

// mainMenuKeyboard builds a reply keyboard: "/forget" once an ID is known, "/start" otherwise.
func mainMenuKeyboard(hasID bool) tgbotapi.ReplyKeyboardMarkup {
	action := "/start"
	if hasID {
		action = "/forget"
	}
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(action),
		),
	)
}
