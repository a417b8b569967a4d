package content

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/example/outreach-dispatch/internal/models"
)

// UnsupportedModeText is returned for channels the table does not know.
const UnsupportedModeText = "Unsupported communication mode selected. Please choose SMS, Email, WhatsApp, or Call."

// Fallback names used when a contact has no display name.
const (
	FallbackName      = "User"
	FallbackEmailName = "Customer"
)

// Key addresses one template.
type Key struct {
	Channel    models.Channel
	Complexity models.Complexity
}

var defaultTemplates = map[Key]string{
	{models.ChannelSMS, models.ComplexityLow}:    "Hi {{.Name}}, just a reminder about your appointment.",
	{models.ChannelSMS, models.ComplexityMedium}: "Hi {{.Name}}, this is a quick reminder about your upcoming appointment. Let us know if you have any questions.",
	{models.ChannelSMS, models.ComplexityHigh}:   "Hello {{.Name}}, this is a gentle reminder regarding your upcoming appointment. Please don't hesitate to reach out if you need assistance.",

	{models.ChannelEmail, models.ComplexityLow}: "Hi {{.Name}},\n\nJust following up on your recent request. Let us know if you need help.\n\nThanks,\nSupport Team",
	{models.ChannelEmail, models.ComplexityMedium}: "Dear {{.Name}},\n\nWe hope you're doing well. This is a follow-up email regarding your recent request. " +
		"Please let us know how we can assist you further.\n\nBest regards,\nSupport Team",
	{models.ChannelEmail, models.ComplexityHigh}: "Dear {{.Name}},\n\nWe hope this message finds you well. We're writing to follow up on your recent inquiry. " +
		"If there's anything further we can assist you with, please feel free to reach out at your convenience.\n\nWarm regards,\nSupport Team",

	{models.ChannelWhatsApp, models.ComplexityLow}:    "Hey {{.Name}}, everything good? Let us know if you need anything.",
	{models.ChannelWhatsApp, models.ComplexityMedium}: "Hey {{.Name}}, just checking in! Let us know if you need any assistance or have any questions.",
	{models.ChannelWhatsApp, models.ComplexityHigh}:   "Hello {{.Name}}, just reaching out to ensure everything is going smoothly. We're here to assist with anything you may need.",

	{models.ChannelCall, models.ComplexityLow}: "Hi {{.Name}}, this is a follow-up call. Call us back if needed.",
	{models.ChannelCall, models.ComplexityMedium}: "Hello {{.Name}}, this is an automated call from our team. We wanted to follow up with you regarding your recent interaction. " +
		"If you have any questions, please stay on the line to be connected with a representative.",
	{models.ChannelCall, models.ComplexityHigh}: "Hello {{.Name}}, this is an automated call from our customer service team. We're following up regarding your recent interaction. " +
		"If you have any questions, please remain on the line to speak with a representative.",
}

// Table maps (channel, complexity) to a parsed template.
type Table struct {
	templates map[Key]*template.Template
}

// NewTable parses the given template sources.
func NewTable(sources map[Key]string) (*Table, error) {
	t := &Table{templates: make(map[Key]*template.Template, len(sources))}
	for key, src := range sources {
		tmpl, err := template.New(fmt.Sprintf("%s.%s", key.Channel, key.Complexity)).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("content: parse template %s/%s: %w", key.Channel, key.Complexity, err)
		}
		t.templates[key] = tmpl
	}
	return t, nil
}

// DefaultTable returns the built-in twelve templates.
func DefaultTable() *Table {
	t, err := NewTable(defaultTemplates)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of templates in the table.
func (t *Table) Len() int { return len(t.templates) }

// Render fills the template for (channel, complexity) with name, substituting
// the channel's fallback name when name is empty. Unknown complexity falls back
// to medium. ok is false when the channel has no templates.
func (t *Table) Render(channel models.Channel, complexity models.Complexity, name string) (string, bool) {
	tmpl, found := t.templates[Key{channel, complexity}]
	if !found {
		tmpl, found = t.templates[Key{channel, models.ComplexityMedium}]
	}
	if !found {
		return UnsupportedModeText, false
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = FallbackName
		if channel == models.ChannelEmail {
			name = FallbackEmailName
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Name string }{Name: name}); err != nil {
		return UnsupportedModeText, false
	}
	return buf.String(), true
}
