// Package outreach drafts a first message to a captured candidate using an
// OpenAI-compatible chat model.
package outreach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/profilecapture/internal/cache"
	"github.com/hyperifyio/profilecapture/internal/llm"
	"github.com/hyperifyio/profilecapture/internal/profile"
)

// ErrEmptyDraft means the model answered without usable text.
var ErrEmptyDraft = errors.New("empty draft")

// DefaultTone is used when Input.Tone is empty.
const DefaultTone = "friendly and concise"

// Input carries what the model sees about the candidate and the role.
type Input struct {
	Snapshot      profile.Snapshot
	FlattenedText string
	JobTitle      string
	Tone          string
	Model         string
}

// Drafter produces outreach drafts.
type Drafter struct {
	Client llm.Client
	Cache  *cache.DraftCache
	// SystemPrompt overrides the default system message when non-empty.
	SystemPrompt string
	// RetryDelay is the pause before the single retry. Zero means 100ms.
	RetryDelay time.Duration
	Log        *zerolog.Logger
}

func (d *Drafter) logger() *zerolog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return &log.Logger
}

type cachedDraft struct {
	Draft string `json:"draft"`
}

// Draft returns the message text for in.
func (d *Drafter) Draft(ctx context.Context, in Input) (string, error) {
	if d.Client == nil || strings.TrimSpace(in.Model) == "" {
		return "", errors.New("drafter not configured")
	}
	system := d.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = defaultSystemPrompt
	}
	user := buildUserMessage(in)
	key := cache.KeyFrom(in.Model, system+"\n\n"+user)

	if d.Cache != nil {
		if raw, ok, _ := d.Cache.Get(ctx, key); ok {
			var c cachedDraft
			if err := json.Unmarshal(raw, &c); err == nil && strings.TrimSpace(c.Draft) != "" {
				d.logger().Debug().Str("key", key[:12]).Msg("draft cache hit")
				return c.Draft, nil
			}
		}
	}

	req := openai.ChatCompletionRequest{
		Model: in.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
		N:           1,
	}
	resp, err := d.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		d.logger().Debug().Err(err).Msg("draft call failed, retrying once")
		delay := d.RetryDelay
		if delay <= 0 {
			delay = 100 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		resp, err = d.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("draft call (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyDraft
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyDraft
	}
	if d.Cache != nil {
		payload, _ := json.Marshal(cachedDraft{Draft: out})
		if err := d.Cache.Save(ctx, key, payload); err != nil {
			d.logger().Warn().Err(err).Msg("draft cache save failed")
		}
	}
	return out, nil
}

const defaultSystemPrompt = "You write short, personal recruiting outreach messages. " +
	"Use only facts from the candidate profile provided. Do not invent employers, titles or skills. " +
	"Address the candidate by first name, mention one concrete detail from their background, " +
	"and end with a low-pressure question. Keep it under 120 words. Output only the message."

func buildUserMessage(in Input) string {
	var sb strings.Builder
	name := in.Snapshot.FirstName
	if name == "" && in.Snapshot.HasName() {
		name = in.Snapshot.FullName
	}
	if name != "" {
		sb.WriteString("Candidate first name: " + name + "\n")
	}
	if in.Snapshot.JobTitle != "" {
		sb.WriteString("Current role: " + in.Snapshot.JobTitle)
		if in.Snapshot.CompanyName != "" {
			sb.WriteString(" at " + in.Snapshot.CompanyName)
		}
		sb.WriteString("\n")
	}
	if in.JobTitle != "" {
		sb.WriteString("Role we are hiring for: " + in.JobTitle + "\n")
	}
	tone := in.Tone
	if strings.TrimSpace(tone) == "" {
		tone = DefaultTone
	}
	sb.WriteString("Tone: " + tone + "\n")
	sb.WriteString("\nCandidate profile:\n")
	sb.WriteString(in.FlattenedText)
	return sb.String()
}
