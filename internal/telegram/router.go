package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/assistant"
)

// ChannelIntent labels turns arriving through Telegram, which has no intent classifier.
const ChannelIntent = "ask_event_info"

// Sender is the subset of *tgbotapi.BotAPI the router uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Responder answers one chat turn.
type Responder interface {
	Respond(ctx context.Context, turn assistant.Turn) (assistant.Reply, error)
}

// Router wires Telegram updates to handlers and holds the per-chat account slot.
type Router struct {
	bot       Sender
	log       *zap.Logger
	responder Responder
	templates map[string]string
	slots     map[int64]string // chatID -> Teckzite ID
	mu        sync.RWMutex
}

// NewRouter creates a new Telegram router.
func NewRouter(bot Sender, log *zap.Logger, responder Responder, templates map[string]string) *Router {
	return &Router{
		bot:       bot,
		log:       log,
		responder: responder,
		templates: templates,
		slots:     make(map[int64]string),
	}
}

// setAccount stores the account ID for a chat (non-persistent, in-memory).
func (r *Router) setAccount(chatID int64, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[chatID] = id
}

// account returns the account ID for a chat, if any.
func (r *Router) account(chatID int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slots[chatID]
}

// clearAccount forgets the account ID for a chat.
func (r *Router) clearAccount(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	chatID := upd.Message.Chat.ID
	text := strings.TrimSpace(upd.Message.Text)
	if text == "" {
		// stickers, photos and the like
		return
	}

	cmd, arg := splitCommand(text)
	switch cmd {
	case "/start":
		r.handleStart(chatID)
	case "/id":
		r.handleSetID(chatID, arg)
	case "/forget":
		r.handleForget(chatID)
	default:
		r.handleQuery(ctx, chatID, text)
	}
}

// splitCommand returns the leading command token, without any @botname
// suffix, and the rest of the text. Plain text yields an empty command.
func splitCommand(text string) (cmd, arg string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, arg, _ = strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd, strings.TrimSpace(arg)
}
