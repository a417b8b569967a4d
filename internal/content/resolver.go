package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/outreach-dispatch/internal/models"
)

// Mode selects where message content comes from.
type Mode string

// Content modes.
const (
	ModeCustom   Mode = "custom"
	ModeTemplate Mode = "template"
	ModeLLM      Mode = "llm"
)

// ParseMode normalises user input. Empty input selects ModeTemplate.
func ParseMode(value string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return ModeTemplate, nil
	case ModeCustom, ModeTemplate, ModeLLM:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported content mode %q", value)
	}
}

// MissingKeyReason is reported when LLM generation is requested without a key.
const MissingKeyReason = "Missing Perplexity API key in environment."

// Prompt carries everything an LLM generator needs for one contact.
type Prompt struct {
	Channel         models.Channel
	Need            string
	AudienceContext string
	RecipientName   string
	Complexity      models.Complexity
}

// Generator produces content for a prompt. Implementations fold every failure
// into the returned Result.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) Result
}

// Input describes one content resolution.
type Input struct {
	Mode            Mode
	Channel         models.Channel
	FixedText       string
	RecipientName   string
	Complexity      models.Complexity
	Need            string
	AudienceContext string
}

// Resolver picks fixed, templated or generated content.
type Resolver struct {
	table     *Table
	generator Generator
}

// NewResolver builds a resolver. A nil table uses DefaultTable; a nil
// generator makes ModeLLM fail with MissingKeyReason.
func NewResolver(table *Table, generator Generator) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{table: table, generator: generator}
}

// Resolve returns the content for one contact. Custom text is returned
// verbatim; blank custom text falls back to the template. Template resolution
// is deterministic for a given input.
func (r *Resolver) Resolve(ctx context.Context, in Input) Result {
	switch in.Mode {
	case ModeCustom:
		if strings.TrimSpace(in.FixedText) == "" {
			return r.template(in)
		}
		return Text(in.FixedText)
	case ModeTemplate, "":
		return r.template(in)
	case ModeLLM:
		if r.generator == nil {
			return GenerationFailed(MissingKeyReason)
		}
		return r.generator.Generate(ctx, Prompt{
			Channel:         in.Channel,
			Need:            in.Need,
			AudienceContext: in.AudienceContext,
			RecipientName:   in.RecipientName,
			Complexity:      in.Complexity,
		})
	default:
		return GenerationFailed(fmt.Sprintf("unsupported content mode %q", in.Mode))
	}
}

func (r *Resolver) template(in Input) Result {
	if !in.Channel.Valid() {
		return Text(UnsupportedModeText)
	}
	text, _ := r.table.Render(in.Channel, in.Complexity, in.RecipientName)
	return Text(text)
}
