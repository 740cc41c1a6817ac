package respond

import (
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/offerdeskhq/offerdesk/internal/evaluate"
)

const reportDisclaimer = "This is an automated evaluation of a gifted offer, not financial or legal advice. " +
	"The scores are calibrated heuristics; use your own judgment before replying."

// BuildReportMarkdown renders a human-readable evaluation report.
func BuildReportMarkdown(ev evaluate.OfferEvaluation, rc Context) string {
	brand := rc.BrandName
	if strings.TrimSpace(brand) == "" {
		brand = "Unnamed brand"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Offer Evaluation\n\n")
	fmt.Fprintf(&b, "- Brand: %s\n", brand)
	if strings.TrimSpace(rc.ProductName) != "" {
		fmt.Fprintf(&b, "- Product: %s\n", rc.ProductName)
	}
	fmt.Fprintf(&b, "- Date: %s\n\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "%s\n\n", reportDisclaimer)

	fmt.Fprintf(&b, "## Verdict\n\n")
	fmt.Fprintf(&b, "- Recommendation: `%s`\n", ev.Recommendation)
	fmt.Fprintf(&b, "- Worth score: **%d / 100**\n", ev.WorthScore)
	fmt.Fprintf(&b, "- Strategic score: **%d / 10**\n", ev.StrategicScore)
	fmt.Fprintf(&b, "- Conversion potential: `%s`\n\n", ev.ConversionPotential)

	fmt.Fprintf(&b, "## Value Breakdown\n\n")
	fmt.Fprintf(&b, "| Item | Amount |\n|------|--------|\n")
	fmt.Fprintf(&b, "| Product value | $%.0f |\n", ev.Breakdown.ProductValue)
	fmt.Fprintf(&b, "| Your time | $%.0f |\n", ev.Breakdown.TimeValue)
	fmt.Fprintf(&b, "| Your audience | $%.0f |\n", ev.Breakdown.AudienceValue)
	fmt.Fprintf(&b, "| Total you provide | $%.0f |\n", ev.Breakdown.TotalValueProviding)
	fmt.Fprintf(&b, "| Value gap | $%.0f |\n", ev.Breakdown.ValueGap)
	fmt.Fprintf(&b, "| Effective hourly rate | $%.0f/hr |\n\n", ev.Breakdown.EffectiveHourlyRate)

	if len(ev.StrategicReasons) > 0 {
		fmt.Fprintf(&b, "## Strategic Signals\n\n")
		for _, r := range ev.StrategicReasons {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "## Boundaries If You Accept\n\n")
	fmt.Fprintf(&b, "- Content: %s\n", ev.Boundaries.MaxContent)
	fmt.Fprintf(&b, "- Time: %s\n", ev.Boundaries.TimeLimit)
	fmt.Fprintf(&b, "- Rights: %s\n\n", ev.Boundaries.RightsLimit)

	if ev.MinimumAcceptableAddOn > 0 {
		fmt.Fprintf(&b, "## Counter\n\n")
		fmt.Fprintf(&b, "Minimum acceptable add-on: **$%.0f**\n\n", ev.MinimumAcceptableAddOn)
		fmt.Fprintf(&b, "> %s\n", ev.CounterOffer)
	}

	return b.String()
}

// RenderReportHTML converts the markdown report to HTML for in-app preview.
func RenderReportHTML(ev evaluate.OfferEvaluation, rc Context) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var out strings.Builder
	if err := md.Convert([]byte(BuildReportMarkdown(ev, rc)), &out); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return out.String(), nil
}
