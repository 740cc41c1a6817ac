package intake

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/offerdeskhq/offerdesk/internal/evaluate"
)

// Normalization treats every provider-returned field as untrusted input.
// Enum values go through allow-lists with fixed defaults, missing numerics
// become 0, missing strings become empty, and quantity is floored to 1. By
// construction the output is always a valid shape.

var allowedPlatforms = map[Platform]bool{
	PlatformInstagram: true,
	PlatformTikTok:    true,
	PlatformYouTube:   true,
	PlatformTwitter:   true,
	PlatformTwitch:    true,
	PlatformOther:     true,
}

var allowedFormats = map[ContentFormat]bool{
	FormatPost:     true,
	FormatStory:    true,
	FormatReel:     true,
	FormatVideo:    true,
	FormatLive:     true,
	FormatMultiple: true,
}

var allowedExclusivity = map[Exclusivity]bool{
	ExclusivityNone:     true,
	ExclusivityCategory: true,
	ExclusivityFull:     true,
}

var allowedContentTypes = map[evaluate.ContentType]bool{
	evaluate.ContentOrganicMention: true,
	evaluate.ContentDedicatedPost:  true,
	evaluate.ContentMultiplePosts:  true,
	evaluate.ContentVideo:          true,
}

var allowedBrandQualities = map[evaluate.BrandQuality]bool{
	evaluate.BrandMajor:            true,
	evaluate.BrandEstablishedIndie: true,
	evaluate.BrandNewUnknown:       true,
	evaluate.BrandSuspicious:       true,
}

func jsonParseable(raw string) bool {
	return gjson.Valid(raw) && gjson.Parse(raw).IsObject()
}

func normalizeOffer(raw, original string) StructuredOffer {
	doc := gjson.Parse(raw)

	quantity := int(doc.Get("content.quantity").Int())
	if quantity < 1 {
		quantity = 1
	}

	return StructuredOffer{
		Brand: BrandIdentity{
			Name:     cleanString(doc.Get("brand.name")),
			Industry: cleanString(doc.Get("brand.industry")),
			Product:  cleanString(doc.Get("brand.product")),
		},
		Campaign: CampaignIntent{
			Objective:      cleanString(doc.Get("campaign.objective")),
			TargetAudience: cleanString(doc.Get("campaign.target_audience")),
			BudgetRange:    cleanString(doc.Get("campaign.budget_range")),
		},
		Content: ContentSpec{
			Platform:          coercePlatform(doc.Get("content.platform").String()),
			Format:            coerceFormat(doc.Get("content.format").String()),
			Quantity:          quantity,
			CreativeDirection: cleanString(doc.Get("content.creative_direction")),
		},
		Usage: UsageTerms{
			DurationDays:      int(doc.Get("usage.duration_days").Int()),
			Exclusivity:       coerceExclusivity(doc.Get("usage.exclusivity").String()),
			PaidAmplification: doc.Get("usage.paid_amplification").Bool(),
		},
		Deadline: cleanString(doc.Get("deadline")),
		RawText:  original,
	}
}

func normalizeGiftOffer(raw string) evaluate.GiftOfferInput {
	doc := gjson.Parse(raw)
	return evaluate.GiftOfferInput{
		ProductDescription:  cleanString(doc.Get("product_description")),
		ProductValue:        doc.Get("product_value").Float(),
		ContentType:         coerceContentType(doc.Get("content_type").String()),
		HoursRequired:       doc.Get("hours_required").Float(),
		BrandQuality:        coerceBrandQuality(doc.Get("brand_quality").String()),
		WouldBuy:            doc.Get("would_buy").Bool(),
		HasWebsite:          doc.Get("has_website").Bool(),
		PriorCreatorCollabs: doc.Get("prior_creator_collabs").Bool(),
		BrandFollowers:      int(doc.Get("brand_followers").Int()),
	}
}

func cleanString(r gjson.Result) string {
	return strings.TrimSpace(r.String())
}

func coercePlatform(v string) Platform {
	p := Platform(strings.ToLower(strings.TrimSpace(v)))
	if allowedPlatforms[p] {
		return p
	}
	return DefaultPlatform
}

func coerceFormat(v string) ContentFormat {
	f := ContentFormat(strings.ToLower(strings.TrimSpace(v)))
	if allowedFormats[f] {
		return f
	}
	return DefaultFormat
}

func coerceExclusivity(v string) Exclusivity {
	e := Exclusivity(strings.ToLower(strings.TrimSpace(v)))
	if allowedExclusivity[e] {
		return e
	}
	return DefaultExclusivity
}

func coerceContentType(v string) evaluate.ContentType {
	ct := evaluate.ContentType(strings.ToLower(strings.TrimSpace(v)))
	if allowedContentTypes[ct] {
		return ct
	}
	return evaluate.ContentDedicatedPost
}

func coerceBrandQuality(v string) evaluate.BrandQuality {
	q := evaluate.BrandQuality(strings.ToLower(strings.TrimSpace(v)))
	if allowedBrandQualities[q] {
		return q
	}
	return evaluate.BrandNewUnknown
}
