package respond

import (
	"fmt"
	"strings"

	"github.com/offerdeskhq/offerdesk/internal/evaluate"
)

// Context carries the names substituted into response templates.
type Context struct {
	BrandName   string `json:"brand_name"`
	ProductName string `json:"product_name"`
}

// Response is ready-to-send language for the holder. FollowUpReminder and
// ConversionScript are only set for accept_with_hook and counter_hybrid;
// the other recommendations leave nothing to follow up on.
type Response struct {
	Message          string  `json:"message"`
	FollowUpReminder *string `json:"follow_up_reminder,omitempty"`
	ConversionScript *string `json:"conversion_script,omitempty"`
}

// Generate maps a recommendation to its template, parameterized by the
// evaluation numbers and the brand/product names from context.
func Generate(ev evaluate.OfferEvaluation, rc Context) Response {
	brand := rc.BrandName
	if strings.TrimSpace(brand) == "" {
		brand = "there"
	}
	product := rc.ProductName
	if strings.TrimSpace(product) == "" {
		product = "the product"
	}

	switch ev.Recommendation {
	case evaluate.RecommendAcceptWithHook:
		msg := fmt.Sprintf(
			"Hi %s! I'd love to try %s and share it with my audience. I'll post within two weeks of receiving it. One thing I always mention up front: if the content performs well, I'd be excited to talk about a paid partnership for a longer campaign.",
			brand, product,
		)
		reminder := fmt.Sprintf("Follow up with %s 14 days after your content goes live: share the performance numbers and pitch the paid campaign.", brand)
		script := conversionScript(brand, product)
		return Response{Message: msg, FollowUpReminder: &reminder, ConversionScript: &script}

	case evaluate.RecommendCounterHybrid:
		msg := fmt.Sprintf(
			"Hi %s, thanks for reaching out! I'm interested in %s. %s That keeps it fair on both sides and I can commit to a posting date.",
			brand, product, ev.CounterOffer,
		)
		reminder := fmt.Sprintf("If %s accepts the hybrid counter, schedule a conversion check-in 14 days after posting.", brand)
		script := conversionScript(brand, product)
		return Response{Message: msg, FollowUpReminder: &reminder, ConversionScript: &script}

	case evaluate.RecommendAskBudget:
		return Response{Message: fmt.Sprintf(
			"Hi %s, thanks for thinking of me! Before we go further: does this campaign have a budget for creator fees, or is it product-only? That helps me figure out what I can commit to for %s.",
			brand, product,
		)}

	case evaluate.RecommendDecline:
		return Response{Message: fmt.Sprintf(
			"Hi %s, I appreciate the offer! %s looks great, but gifted collaborations aren't a fit for my content schedule right now. If a paid campaign opens up later, I'd be happy to talk.",
			brand, product,
		)}

	default: // run_away
		return Response{Message: ev.WalkAway}
	}
}

func conversionScript(brand, product string) string {
	return fmt.Sprintf(
		"Hi %s! The post about %s is performing nicely: happy to share the numbers. My audience clearly responds to this kind of content, so I'd love to propose a paid package for the next push: three posts plus stories over a month. Want me to send a rate card?",
		brand, product,
	)
}
