package models

import (
	"fmt"
	"strings"
)

// Channel identifies the medium a batch is dispatched over.
type Channel string

// Supported channels.
const (
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelCall     Channel = "call"
)

// Destination field names used when selecting a contact attribute.
const (
	FieldPhone = "phone"
	FieldEmail = "email"
)

// Channels lists every supported channel in display order.
func Channels() []Channel {
	return []Channel{ChannelSMS, ChannelEmail, ChannelWhatsApp, ChannelCall}
}

// ParseChannel normalises user input into a Channel. Unknown values are
// returned as-is together with an error so callers can still report them.
func ParseChannel(value string) (Channel, error) {
	ch := Channel(strings.ToLower(strings.TrimSpace(value)))
	if !ch.Valid() {
		return ch, fmt.Errorf("unsupported channel %q", value)
	}
	return ch, nil
}

// Valid reports whether the channel is one of the supported values.
func (c Channel) Valid() bool {
	switch c {
	case ChannelSMS, ChannelEmail, ChannelWhatsApp, ChannelCall:
		return true
	default:
		return false
	}
}

// DestinationField returns the contact attribute a channel delivers to.
func (c Channel) DestinationField() string {
	if c == ChannelEmail {
		return FieldEmail
	}
	return FieldPhone
}

// Destination selects the contact value used by the channel.
func (c Channel) Destination(contact Contact) string {
	if c.DestinationField() == FieldEmail {
		return strings.TrimSpace(contact.Email)
	}
	return strings.TrimSpace(contact.Phone)
}

func (c Channel) String() string { return string(c) }

// Complexity selects the verbosity tier of generated content.
type Complexity string

// Complexity tiers.
const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ParseComplexity normalises user input. Empty input defaults to medium.
func ParseComplexity(value string) (Complexity, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return ComplexityMedium, nil
	}
	c := Complexity(trimmed)
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return c, nil
	default:
		return ComplexityMedium, fmt.Errorf("unsupported complexity %q", value)
	}
}

func (c Complexity) String() string { return string(c) }
