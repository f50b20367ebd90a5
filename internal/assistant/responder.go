// Package assistant answers chat queries with replies personalized from the user's registration.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/domain"
)

// Prompts sent back when a turn cannot be personalized.
const (
	AskAccountIDText  = "I need your Teckzite ID to assist you. Please provide it."
	NotRegisteredText = "I couldn't find your details in the database. Please register."
)

// UserSource looks users up by external account ID; a nil user means not found.
type UserSource interface {
	FetchUser(ctx context.Context, accountID string) (*domain.User, error)
}

// Generator turns a prompt into reply text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Turn is one inbound chat message as the host framework sees it.
type Turn struct {
	Text      string
	Intent    string
	AccountID string
	// Templates maps response names like "utter_greet" to their default text.
	Templates map[string]string
}

// Outcome says how a turn ended.
type Outcome int

const (
	Answered Outcome = iota
	NeedAccountID
	NotRegistered
)

// SlotSet is a slot-update directive returned to the host framework.
type SlotSet struct {
	Name  string
	Value any
}

// Reply carries messages to emit and slot updates to apply.
type Reply struct {
	Outcome  Outcome
	Messages []string
	Slots    []SlotSet
}

// Responder builds personalized replies.
type Responder struct {
	users UserSource
	gen   Generator
	log   *zap.Logger
}

func NewResponder(users UserSource, gen Generator, log *zap.Logger) *Responder {
	return &Responder{users: users, gen: gen, log: log}
}

// Respond handles one turn. A missing account ID or unknown user ends the
// turn with a guided prompt; store and generation faults are returned as is.
func (r *Responder) Respond(ctx context.Context, turn Turn) (Reply, error) {
	u, err := r.lookup(ctx, turn.AccountID)
	switch {
	case errors.Is(err, domain.ErrMissingUserContext):
		return Reply{Outcome: NeedAccountID, Messages: []string{AskAccountIDText}}, nil
	case errors.Is(err, domain.ErrUserNotFound):
		r.log.Info("unknown account id", zap.String("account_id", turn.AccountID))
		return Reply{Outcome: NotRegistered, Messages: []string{NotRegisteredText}}, nil
	case err != nil:
		return Reply{}, err
	}

	prompt := BuildPrompt(*u, turn.Text, DefaultResponse(turn.Templates, turn.Intent))
	text, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return Reply{}, fmt.Errorf("generate reply: %w", err)
	}
	return Reply{Outcome: Answered, Messages: []string{text}}, nil
}

func (r *Responder) lookup(ctx context.Context, accountID string) (*domain.User, error) {
	if accountID == "" {
		return nil, domain.ErrMissingUserContext
	}
	u, err := r.users.FetchUser(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}
