package assistant

import (
	"fmt"
	"strings"

	"github.com/ykvlv/eventbot/internal/domain"
)

// Placeholders used when a profile field is empty.
const (
	NoEventsText = "No events registered"
	noNameText   = "User"
	noEmailText  = "No email available"
)

const promptFmt = `User details:
Name: %s
Email: %s
Registered Events: %s

Query: %s
Default Response: %s

Generate a response considering the user's details.`

// BuildPrompt embeds the user profile, the raw query and the default reply into one prompt.
func BuildPrompt(u domain.User, query, defaultResponse string) string {
	name := u.Name
	if name == "" {
		name = noNameText
	}
	email := u.Email
	if email == "" {
		email = noEmailText
	}
	events := NoEventsText
	if len(u.RegisteredEvents) > 0 {
		events = strings.Join(u.RegisteredEvents, ", ")
	}
	return fmt.Sprintf(promptFmt, name, email, events, query, defaultResponse)
}

// DefaultResponse returns the template for "utter_<intent>", or "" if there is none.
func DefaultResponse(templates map[string]string, intent string) string {
	return templates["utter_"+intent]
}
