package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/assistant"
)

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("telegram send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) sendWithMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenuKeyboard(r.account(chatID) != "")
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("telegram send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// --- Commands ---

func (r *Router) handleStart(chatID int64) {
	r.sendWithMenu(chatID, startText)
}

func (r *Router) handleSetID(chatID int64, id string) {
	if id == "" {
		r.sendText(chatID, idUsageText)
		return
	}
	r.setAccount(chatID, id)
	r.sendWithMenu(chatID, "Got it, your Teckzite ID is "+id+". Ask me anything about your events.")
}

func (r *Router) handleForget(chatID int64) {
	r.clearAccount(chatID)
	r.sendWithMenu(chatID, forgetText)
}

// --- Free-form queries ---

func (r *Router) handleQuery(ctx context.Context, chatID int64, text string) {
	reply, err := r.responder.Respond(ctx, assistant.Turn{
		Text:      text,
		Intent:    ChannelIntent,
		AccountID: r.account(chatID),
		Templates: r.templates,
	})
	if err != nil {
		r.log.Error("respond failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, failureText)
		return
	}
	for _, m := range reply.Messages {
		r.sendText(chatID, m)
	}
	if reply.Outcome == assistant.NeedAccountID {
		r.sendText(chatID, idUsageText)
	}
}
