package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/offerdeskhq/offerdesk/internal/evaluate"
)

const systemPrompt = "You are an assistant that turns brand outreach messages into structured offer data for a content creator. You extract only what the text supports and never invent facts. Return strict JSON only."

const (
	// MinOfferTextChars is checked before any network call.
	MinOfferTextChars      = 40
	maxAttemptsPerProvider = 3
	backoffBase            = 500 * time.Millisecond
)

// ErrParsingUnavailable is terminal: both providers exhausted their retry
// budgets.
var ErrParsingUnavailable = errors.New("offer parsing unavailable")

// ErrTextTooShort is a validation failure surfaced before any provider call.
var ErrTextTooShort = fmt.Errorf("offer text shorter than %d characters", MinOfferTextChars)

const offerSchemaPrompt = `Required JSON schema:
{
  "brand": {"name": "string", "industry": "string", "product": "string"},
  "campaign": {"objective": "string", "target_audience": "string", "budget_range": "string"},
  "content": {
    "platform": "instagram | tiktok | youtube | twitter | twitch | other",
    "format": "post | story | reel | video | live | multiple",
    "quantity": "integer >= 1",
    "creative_direction": "string"
  },
  "usage": {
    "duration_days": "integer",
    "exclusivity": "none | category | full",
    "paid_amplification": "boolean"
  },
  "deadline": "string (verbatim from the text, empty if absent)"
}`

const giftOfferSchemaPrompt = `Required JSON schema:
{
  "product_description": "string",
  "product_value": "number > 0 (estimated retail value in USD)",
  "content_type": "organic_mention | dedicated_post | multiple_posts | video",
  "hours_required": "number (estimated hours to produce)",
  "brand_quality": "major_brand | established_indie | new_unknown | suspicious",
  "would_buy": "boolean",
  "has_website": "boolean",
  "prior_creator_collabs": "boolean",
  "brand_followers": "integer (0 if unknown)"
}`

// Parser turns free-form offer text into canonical structured shapes. It
// performs sequential retries with exponential backoff against the primary
// provider, then repeats the loop against the secondary. No request is ever
// in flight against both providers at once.
type Parser struct {
	primary   Provider
	secondary Provider
	sleep     func(time.Duration)
	tracer    trace.Tracer
}

func NewParser(primary, secondary Provider) *Parser {
	return &Parser{
		primary:   primary,
		secondary: secondary,
		sleep:     time.Sleep,
		tracer:    otel.Tracer("offerdesk/intake"),
	}
}

// ParseOffer extracts a canonical StructuredOffer from free text.
func (p *Parser) ParseOffer(ctx context.Context, text string) (StructuredOffer, error) {
	raw, err := p.complete(ctx, "parse_offer", offerSchemaPrompt, text)
	if err != nil {
		return StructuredOffer{}, err
	}
	return normalizeOffer(raw, text), nil
}

// ParseGiftOffer extracts the gift-offer variant used when the brand proposes
// product instead of cash.
func (p *Parser) ParseGiftOffer(ctx context.Context, text string) (evaluate.GiftOfferInput, error) {
	raw, err := p.complete(ctx, "parse_gift_offer", giftOfferSchemaPrompt, text)
	if err != nil {
		return evaluate.GiftOfferInput{}, err
	}
	return normalizeGiftOffer(raw), nil
}

func (p *Parser) complete(ctx context.Context, op, schemaPrompt, text string) (string, error) {
	if len(strings.TrimSpace(text)) < MinOfferTextChars {
		return "", ErrTextTooShort
	}

	ctx, span := p.tracer.Start(ctx, "intake."+op)
	defer span.End()

	prompt := fmt.Sprintf("Extract the offer described below.\n\n%s\n\nOffer text:\n%s", schemaPrompt, text)

	var lastErr error
	for _, prov := range []Provider{p.primary, p.secondary} {
		if prov == nil {
			continue
		}
		raw, err := p.tryProvider(ctx, op, prov, prompt)
		if err == nil {
			span.SetAttributes(attribute.String("intake.provider", prov.Name()))
			return raw, nil
		}
		lastErr = err
		log.Printf("intake provider_exhausted op=%s provider=%s err=%q", op, prov.Name(), err.Error())
	}
	if lastErr == nil {
		lastErr = errors.New("no provider configured")
	}
	return "", fmt.Errorf("%w: %v", ErrParsingUnavailable, lastErr)
}

func (p *Parser) tryProvider(ctx context.Context, op string, prov Provider, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttemptsPerProvider; attempt++ {
		started := time.Now()
		raw, err := prov.Complete(ctx, systemPrompt, prompt, CompleteOptions{Temperature: 0, JSONMode: true})
		if err == nil {
			clean := stripCodeFences(raw)
			if jsonParseable(clean) {
				log.Printf("intake attempt_success op=%s provider=%s attempt=%d elapsed_ms=%d", op, prov.Name(), attempt, time.Since(started).Milliseconds())
				return clean, nil
			}
			err = errors.New("response is not valid JSON")
		}
		lastErr = err
		log.Printf("intake attempt_failed op=%s provider=%s attempt=%d elapsed_ms=%d err=%q", op, prov.Name(), attempt, time.Since(started).Milliseconds(), err.Error())
		if attempt < maxAttemptsPerProvider {
			p.sleep(backoffDelay(attempt))
		}
	}
	return "", fmt.Errorf("exhausted %d attempts: %w", maxAttemptsPerProvider, lastErr)
}

// backoffDelay doubles per attempt: 500ms, 1s, 2s, ...
func backoffDelay(attempt int) time.Duration {
	return backoffBase << (attempt - 1)
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
