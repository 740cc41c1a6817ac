package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/offerdeskhq/offerdesk/internal/config"
	"github.com/offerdeskhq/offerdesk/internal/evaluate"
	"github.com/offerdeskhq/offerdesk/internal/extract"
	"github.com/offerdeskhq/offerdesk/internal/intake"
	"github.com/offerdeskhq/offerdesk/internal/respond"
)

// offer-eval runs the full pipeline once against a saved offer file:
// extract text, parse it with the configured providers, score it, and print
// the evaluation report plus a suggested reply.
func main() {
	fileFlag := flag.String("file", "", "path to the offer file (.txt or .md)")
	jsonFlag := flag.Bool("json", false, "emit the raw evaluation as JSON instead of a report")
	flag.Parse()

	if *fileFlag == "" {
		log.Fatal("usage: offer-eval -file offer.txt")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	parser := buildParser(cfg)
	if parser == nil {
		log.Fatal("no parsing provider configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")
	}

	text, err := extract.FromFile(ctx, *fileFlag, extract.PlainText{})
	if err != nil {
		log.Fatalf("extract %s: %v", *fileFlag, err)
	}

	offer, err := parser.ParseOffer(ctx, text)
	if err != nil {
		log.Fatalf("parse offer: %v", err)
	}
	gift, err := parser.ParseGiftOffer(ctx, text)
	if err != nil {
		log.Fatalf("parse gift terms: %v", err)
	}

	ev := evaluate.Evaluate(gift, cfg.Profile.HolderProfile())
	rc := respond.Context{BrandName: offer.Brand.Name, ProductName: gift.ProductDescription}

	if *jsonFlag {
		out, err := json.MarshalIndent(map[string]any{
			"offer":      offer,
			"evaluation": ev,
			"response":   respond.Generate(ev, rc),
		}, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println(respond.BuildReportMarkdown(ev, rc))
	resp := respond.Generate(ev, rc)
	fmt.Println("## Suggested Reply")
	fmt.Println()
	fmt.Println(resp.Message)
	if resp.FollowUpReminder != nil {
		fmt.Println()
		fmt.Println("## Follow-Up Reminder")
		fmt.Println()
		fmt.Println(*resp.FollowUpReminder)
	}
}

func buildParser(cfg config.Config) *intake.Parser {
	var primary, secondary intake.Provider

	if cfg.Anthropic.APIKey != "" {
		p, err := intake.NewAnthropicProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
		if err != nil {
			log.Printf("anthropic provider disabled: %v", err)
		} else {
			primary = p
		}
	}
	if cfg.OpenAI.APIKey != "" {
		p, err := intake.NewOpenAICompatProvider(cfg.OpenAI.Endpoint, cfg.OpenAI.Model, cfg.OpenAI.APIKey)
		if err != nil {
			log.Printf("openai provider disabled: %v", err)
		} else {
			secondary = p
		}
	}

	if primary == nil && secondary == nil {
		return nil
	}
	if primary == nil {
		primary, secondary = secondary, nil
	}
	return intake.NewParser(primary, secondary)
}
