package evaluate

import (
	"fmt"
	"math"
)

// Scoring calibration. These values are a product decision, not a derived
// model; keep them here rather than re-deriving them.
const (
	cpmUSD                 = 5.0
	impressionFactor       = 0.001
	worthBase              = 50.0
	gapTermCap             = 25.0
	suspiciousPenalty      = 30.0
	majorBrandBonus        = 10.0
	strategicWeight        = 2.0
	addOnShare             = 0.5
	addOnRounding          = 25.0
	largeBrandFollowers    = 100000
	midBrandFollowers      = 50000
)

var effortMultipliers = map[ContentType]float64{
	ContentOrganicMention: 0.5,
	ContentDedicatedPost:  1.0,
	ContentMultiplePosts:  2.0,
	ContentVideo:          1.5,
}

func effortMultiplier(ct ContentType) float64 {
	if m, ok := effortMultipliers[ct]; ok {
		return m
	}
	return effortMultipliers[ContentDedicatedPost]
}

// Evaluate scores a gift offer against a holder profile. Pure and
// synchronous: it never fails for any valid-shaped input, and callers are
// responsible for rejecting invalid shapes up front.
func Evaluate(in GiftOfferInput, profile HolderProfile) OfferEvaluation {
	breakdown := computeBreakdown(in, profile)
	strategic, reasons := computeStrategicScore(in)
	worth := computeWorthScore(in, profile, breakdown, strategic)
	rec := recommendationFor(worth, strategic)
	addOn := minimumAddOn(breakdown.ValueGap)

	return OfferEvaluation{
		WorthScore:             worth,
		StrategicScore:         strategic,
		StrategicReasons:       reasons,
		ConversionPotential:    conversionPotential(in),
		Breakdown:              breakdown,
		Recommendation:         rec,
		MinimumAcceptableAddOn: addOn,
		CounterOffer:           counterOfferText(breakdown, addOn),
		WalkAway:               walkAwayText(breakdown),
		Boundaries:             computeBoundaries(in, breakdown),
	}
}

func computeBreakdown(in GiftOfferInput, profile HolderProfile) ValueBreakdown {
	timeValue := in.HoursRequired * HourlyRate(profile.Tier)
	audienceValue := math.Round(float64(profile.TotalReach) * (profile.EngagementRate / 100) * impressionFactor * cpmUSD)
	scaledAudience := audienceValue * effortMultiplier(in.ContentType)
	total := timeValue + scaledAudience

	effectiveHourly := 0.0
	if in.HoursRequired > 0 {
		effectiveHourly = in.ProductValue / in.HoursRequired
	}

	return ValueBreakdown{
		ProductValue:        in.ProductValue,
		TimeValue:           timeValue,
		AudienceValue:       scaledAudience,
		TotalValueProviding: total,
		ValueGap:            in.ProductValue - total,
		EffectiveHourlyRate: effectiveHourly,
	}
}

func computeStrategicScore(in GiftOfferInput) (int, []string) {
	score := 0.0
	var reasons []string

	switch in.BrandQuality {
	case BrandMajor:
		score += 3
		reasons = append(reasons, "Major brand: strong portfolio and credibility value")
	case BrandEstablishedIndie:
		score += 2
		reasons = append(reasons, "Established indie brand: solid track record")
	case BrandSuspicious:
		score -= 5
		reasons = append(reasons, "Suspicious brand signals: reputational risk")
	}
	if in.WouldBuy {
		score += 2
		reasons = append(reasons, "You would buy this product yourself")
	}
	if in.PriorCreatorCollabs {
		score += 2
		reasons = append(reasons, "Brand has paid creators before")
	}
	if in.HasWebsite {
		score += 1
		reasons = append(reasons, "Brand has a real web presence")
	}
	if in.BrandFollowers >= largeBrandFollowers {
		score += 1
		reasons = append(reasons, fmt.Sprintf("Brand audience of %d+ followers", largeBrandFollowers))
	}

	return int(clamp(score, 0, 10)), reasons
}

func conversionPotential(in GiftOfferInput) ConversionPotential {
	switch {
	case in.BrandQuality == BrandMajor && in.HasWebsite && in.PriorCreatorCollabs:
		return ConversionHigh
	case in.BrandQuality == BrandEstablishedIndie && in.HasWebsite &&
		(in.PriorCreatorCollabs || in.BrandFollowers >= midBrandFollowers):
		return ConversionHigh
	case in.BrandQuality == BrandSuspicious,
		in.BrandQuality == BrandNewUnknown && !in.HasWebsite:
		return ConversionLow
	default:
		return ConversionMedium
	}
}

func computeWorthScore(in GiftOfferInput, profile HolderProfile, b ValueBreakdown, strategic int) int {
	score := worthBase

	if b.TotalValueProviding > 0 {
		score += clamp(b.ValueGap/b.TotalValueProviding*gapTermCap, -gapTermCap, gapTermCap)
	}

	score += float64(strategic) * strategicWeight

	switch in.BrandQuality {
	case BrandSuspicious:
		score -= suspiciousPenalty
	case BrandMajor:
		score += majorBrandBonus
	}

	baseRate := HourlyRate(profile.Tier)
	switch {
	case b.EffectiveHourlyRate >= baseRate:
		score += 10
	case b.EffectiveHourlyRate >= baseRate/2:
		score += 5
	}

	return int(math.Round(clamp(score, 0, 100)))
}

// recommendationFor is the decision matrix. It is total: every
// (worth, strategic) pair maps to exactly one recommendation.
func recommendationFor(worth, strategic int) Recommendation {
	switch {
	case worth < 30:
		return RecommendRunAway
	case worth < 50:
		return RecommendDecline
	case worth < 70:
		if strategic >= 5 {
			return RecommendCounterHybrid
		}
		return RecommendAskBudget
	case strategic >= 7:
		return RecommendAcceptWithHook
	case strategic >= 5:
		return RecommendCounterHybrid
	default:
		return RecommendAskBudget
	}
}

// minimumAddOn is the smallest cash top-up that makes an underwater offer
// acceptable: half the shortfall, rounded up to the nearest $25.
func minimumAddOn(valueGap float64) float64 {
	if valueGap >= 0 {
		return 0
	}
	return math.Ceil(math.Abs(valueGap)*addOnShare/addOnRounding) * addOnRounding
}

func computeBoundaries(in GiftOfferInput, b ValueBreakdown) Boundaries {
	bounds := Boundaries{
		TimeLimit:   "24-hour visibility",
		RightsLimit: "No usage rights beyond your own post",
	}

	gapPct := 0.0
	if b.TotalValueProviding > 0 {
		gapPct = (b.TotalValueProviding - b.ProductValue) / b.TotalValueProviding * 100
	}

	switch {
	case gapPct > 50:
		bounds.MaxContent = "One organic mention only"
	case gapPct >= 25:
		if in.ContentType == ContentVideo {
			bounds.MaxContent = "One short video under 30 seconds"
		} else {
			bounds.MaxContent = "One story or one post, not both"
		}
	default:
		bounds.MaxContent = "Deliver the requested content as scoped"
		bounds.TimeLimit = "Standard visibility"
	}
	return bounds
}

func counterOfferText(b ValueBreakdown, addOn float64) string {
	if addOn == 0 {
		return "No counter needed: the product value covers your time and audience."
	}
	return fmt.Sprintf(
		"The content you're asking for is worth about $%.0f of my time and audience, against a product value of $%.0f. I'd be glad to take this on with an added $%.0f to close part of that gap.",
		b.TotalValueProviding, b.ProductValue, addOn,
	)
}

func walkAwayText(b ValueBreakdown) string {
	return fmt.Sprintf(
		"Thanks for thinking of me, but producing this would cost me about $%.0f in time and audience value for a $%.0f product, so it isn't a fit right now. Happy to revisit if a budget opens up.",
		b.TotalValueProviding, b.ProductValue,
	)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
