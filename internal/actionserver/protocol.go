package actionserver

// Request is the body the chat framework posts to /webhook.
type Request struct {
	NextAction string  `json:"next_action"`
	SenderID   string  `json:"sender_id"`
	Tracker    Tracker `json:"tracker"`
	Domain     Domain  `json:"domain"`
	Version    string  `json:"version,omitempty"`
}

// Tracker is the conversation state for one sender.
type Tracker struct {
	SenderID      string         `json:"sender_id"`
	Slots         map[string]any `json:"slots"`
	LatestMessage Message        `json:"latest_message"`
}

// Message is the last user utterance with its classified intent.
type Message struct {
	Text   string `json:"text"`
	Intent Intent `json:"intent"`
}

type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Domain carries the assistant's configured responses.
type Domain struct {
	Responses map[string][]ResponseVariant `json:"responses"`
}

type ResponseVariant struct {
	Text string `json:"text"`
}

// Response is returned for a successfully executed action.
type Response struct {
	Events    []Event           `json:"events"`
	Responses []OutgoingMessage `json:"responses"`
}

// Event is a tracker event. Only slot events are produced here.
type Event struct {
	Event     string   `json:"event"`
	Name      string   `json:"name,omitempty"`
	Value     any      `json:"value"`
	Timestamp *float64 `json:"timestamp"`
}

type OutgoingMessage struct {
	Text string `json:"text"`
}

// ErrorResponse is returned when an action is unknown or fails.
type ErrorResponse struct {
	Error      string `json:"error"`
	ActionName string `json:"action_name"`
}

// StringSlot returns the slot value when it is a non-empty string.
func (t Tracker) StringSlot(name string) string {
	s, _ := t.Slots[name].(string)
	return s
}

// Templates flattens domain responses to their first text variant.
func (d Domain) Templates() map[string]string {
	out := make(map[string]string, len(d.Responses))
	for name, variants := range d.Responses {
		if len(variants) > 0 {
			out[name] = variants[0].Text
		}
	}
	return out
}
