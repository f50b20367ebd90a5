package actionserver

import (
	"context"

	"github.com/ykvlv/eventbot/internal/assistant"
)

const (
	PersonalizeActionName = "action_generate_personalized_response"
	// AccountSlot holds the user's Teckzite ID.
	AccountSlot = "user_details"
)

// Responder is the personalization logic behind the action.
type Responder interface {
	Respond(ctx context.Context, turn assistant.Turn) (assistant.Reply, error)
}

// PersonalizeAction answers the latest message with a personalized reply.
type PersonalizeAction struct {
	responder Responder
}

func NewPersonalizeAction(r Responder) *PersonalizeAction {
	return &PersonalizeAction{responder: r}
}

func (a *PersonalizeAction) Name() string { return PersonalizeActionName }

func (a *PersonalizeAction) Run(ctx context.Context, req Request) (Response, error) {
	reply, err := a.responder.Respond(ctx, assistant.Turn{
		Text:      req.Tracker.LatestMessage.Text,
		Intent:    req.Tracker.LatestMessage.Intent.Name,
		AccountID: req.Tracker.StringSlot(AccountSlot),
		Templates: req.Domain.Templates(),
	})
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		Events:    make([]Event, 0, len(reply.Slots)),
		Responses: make([]OutgoingMessage, 0, len(reply.Messages)),
	}
	for _, s := range reply.Slots {
		resp.Events = append(resp.Events, Event{Event: "slot", Name: s.Name, Value: s.Value})
	}
	for _, m := range reply.Messages {
		resp.Responses = append(resp.Responses, OutgoingMessage{Text: m})
	}
	return resp, nil
}
