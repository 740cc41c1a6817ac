package evaluate

import (
	"math"
	"testing"
)

func microProfile() HolderProfile {
	return HolderProfile{Tier: TierMicro, TotalReach: 20000, EngagementRate: 3.5}
}

func baseOffer() GiftOfferInput {
	return GiftOfferInput{
		ProductDescription:  "Wireless earbuds",
		ProductValue:        300,
		ContentType:         ContentDedicatedPost,
		HoursRequired:       1,
		BrandQuality:        BrandMajor,
		WouldBuy:            true,
		HasWebsite:          true,
		PriorCreatorCollabs: true,
	}
}

func TestHourlyRateFallsBackToDefaultTier(t *testing.T) {
	if got := HourlyRate("influencer-supreme"); got != HourlyRate(DefaultTier) {
		t.Fatalf("unknown tier rate = %v, want default %v", got, HourlyRate(DefaultTier))
	}
	if got := HourlyRate(TierMicro); got != 50 {
		t.Fatalf("micro rate = %v, want 50", got)
	}
}

func TestTimeValueIsExact(t *testing.T) {
	in := baseOffer()
	in.HoursRequired = 2
	ev := Evaluate(in, microProfile())
	if ev.Breakdown.TimeValue != 100 {
		t.Fatalf("timeValue = %v, want 100 (2h x $50)", ev.Breakdown.TimeValue)
	}
}

func TestEffectiveHourlyRateZeroHours(t *testing.T) {
	in := baseOffer()
	in.HoursRequired = 0
	ev := Evaluate(in, microProfile())
	if ev.Breakdown.EffectiveHourlyRate != 0 {
		t.Fatalf("effectiveHourlyRate = %v, want 0 when hours=0", ev.Breakdown.EffectiveHourlyRate)
	}
}

func TestAudienceValueScaledByContentEffort(t *testing.T) {
	profile := microProfile()
	// round(20000 * 0.035 * 0.001 * 5) = 4
	cases := []struct {
		ct   ContentType
		want float64
	}{
		{ContentOrganicMention, 2},
		{ContentDedicatedPost, 4},
		{ContentMultiplePosts, 8},
		{ContentVideo, 6},
	}
	for _, c := range cases {
		in := baseOffer()
		in.ContentType = c.ct
		ev := Evaluate(in, profile)
		if ev.Breakdown.AudienceValue != c.want {
			t.Fatalf("%s audienceValue = %v, want %v", c.ct, ev.Breakdown.AudienceValue, c.want)
		}
	}
}

func TestWorthScoreAlwaysInRange(t *testing.T) {
	extremes := []GiftOfferInput{
		{ProductValue: 100000, HoursRequired: 0.01, ContentType: ContentVideo, BrandQuality: BrandSuspicious},
		{ProductValue: 100000, HoursRequired: 0.01, ContentType: ContentVideo, BrandQuality: BrandMajor, WouldBuy: true, HasWebsite: true, PriorCreatorCollabs: true, BrandFollowers: 5000000},
		{ProductValue: 0, HoursRequired: 500, ContentType: ContentMultiplePosts, BrandQuality: BrandSuspicious},
		{},
	}
	profiles := []HolderProfile{
		{Tier: TierNano},
		{Tier: TierCelebrity, TotalReach: 50000000, EngagementRate: 12},
		microProfile(),
	}
	for _, in := range extremes {
		for _, p := range profiles {
			ev := Evaluate(in, p)
			if ev.WorthScore < 0 || ev.WorthScore > 100 {
				t.Fatalf("worthScore %d out of [0,100] for %+v / %+v", ev.WorthScore, in, p)
			}
			if ev.StrategicScore < 0 || ev.StrategicScore > 10 {
				t.Fatalf("strategicScore %d out of [0,10]", ev.StrategicScore)
			}
		}
	}
}

func TestDecisionMatrixTotalAndDeterministic(t *testing.T) {
	for worth := 0; worth <= 100; worth++ {
		for strategic := 0; strategic <= 10; strategic++ {
			got := recommendationFor(worth, strategic)
			var want Recommendation
			switch {
			case worth < 30:
				want = RecommendRunAway
			case worth < 50:
				want = RecommendDecline
			case worth < 70 && strategic >= 5:
				want = RecommendCounterHybrid
			case worth < 70:
				want = RecommendAskBudget
			case strategic >= 7:
				want = RecommendAcceptWithHook
			case strategic >= 5:
				want = RecommendCounterHybrid
			default:
				want = RecommendAskBudget
			}
			if got != want {
				t.Fatalf("recommendationFor(%d, %d) = %s, want %s", worth, strategic, got, want)
			}
		}
	}
}

func TestDecisionMatrixSpotChecks(t *testing.T) {
	if got := recommendationFor(85, 8); got != RecommendAcceptWithHook {
		t.Fatalf("(85,8) = %s, want accept_with_hook", got)
	}
	if got := recommendationFor(20, 10); got != RecommendRunAway {
		t.Fatalf("(20,10) = %s, want run_away", got)
	}
	if got := recommendationFor(75, 6); got != RecommendCounterHybrid {
		t.Fatalf("(75,6) = %s, want counter_hybrid", got)
	}
	if got := recommendationFor(75, 4); got != RecommendAskBudget {
		t.Fatalf("(75,4) = %s, want ask_budget_first", got)
	}
}

func TestMinimumAddOnIsMultipleOf25(t *testing.T) {
	gaps := []float64{-1, -12.5, -49, -50, -51, -300, -1234.56, 0, 10, 500}
	for _, gap := range gaps {
		addOn := minimumAddOn(gap)
		if addOn < 0 {
			t.Fatalf("addOn for gap %v is negative: %v", gap, addOn)
		}
		if rem := math.Mod(addOn, 25); rem != 0 {
			t.Fatalf("addOn for gap %v = %v, not a multiple of 25", gap, addOn)
		}
		if gap >= 0 && addOn != 0 {
			t.Fatalf("addOn for favorable gap %v = %v, want 0", gap, addOn)
		}
		if gap < 0 && addOn < math.Abs(gap)/2 {
			t.Fatalf("addOn for gap %v = %v, below half the shortfall", gap, addOn)
		}
	}
}

func TestCounterOfferTextWhenNoGap(t *testing.T) {
	in := baseOffer() // value gap strongly positive
	ev := Evaluate(in, microProfile())
	if ev.MinimumAcceptableAddOn != 0 {
		t.Fatalf("addOn = %v, want 0", ev.MinimumAcceptableAddOn)
	}
	if ev.CounterOffer != "No counter needed: the product value covers your time and audience." {
		t.Fatalf("unexpected counter text: %q", ev.CounterOffer)
	}
}

func TestConversionPotentialPrecedence(t *testing.T) {
	cases := []struct {
		name string
		in   GiftOfferInput
		want ConversionPotential
	}{
		{"major full signals", GiftOfferInput{BrandQuality: BrandMajor, HasWebsite: true, PriorCreatorCollabs: true}, ConversionHigh},
		{"indie with followers", GiftOfferInput{BrandQuality: BrandEstablishedIndie, HasWebsite: true, BrandFollowers: 60000}, ConversionHigh},
		{"indie with collabs", GiftOfferInput{BrandQuality: BrandEstablishedIndie, HasWebsite: true, PriorCreatorCollabs: true}, ConversionHigh},
		{"suspicious", GiftOfferInput{BrandQuality: BrandSuspicious, HasWebsite: true, PriorCreatorCollabs: true}, ConversionLow},
		{"unknown no website", GiftOfferInput{BrandQuality: BrandNewUnknown}, ConversionLow},
		{"unknown with website", GiftOfferInput{BrandQuality: BrandNewUnknown, HasWebsite: true}, ConversionMedium},
		{"major missing collabs", GiftOfferInput{BrandQuality: BrandMajor, HasWebsite: true}, ConversionMedium},
	}
	for _, c := range cases {
		if got := conversionPotential(c.in); got != c.want {
			t.Fatalf("%s: conversion = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestBoundariesByValueGapPercentage(t *testing.T) {
	profile := HolderProfile{Tier: TierMicro, TotalReach: 20000, EngagementRate: 3.5}

	// total = 50 + 4 = 54; product 10 -> gapPct ~81% -> organic mention only.
	deep := baseOffer()
	deep.ProductValue = 10
	ev := Evaluate(deep, profile)
	if ev.Boundaries.MaxContent != "One organic mention only" || ev.Boundaries.TimeLimit != "24-hour visibility" {
		t.Fatalf("deep gap boundaries = %+v", ev.Boundaries)
	}

	// product 35 -> gapPct ~35% -> lighter single deliverable.
	mid := baseOffer()
	mid.ProductValue = 35
	ev = Evaluate(mid, profile)
	if ev.Boundaries.MaxContent != "One story or one post, not both" {
		t.Fatalf("mid gap boundaries = %+v", ev.Boundaries)
	}
	mid.ContentType = ContentVideo
	ev = Evaluate(mid, profile)
	// total = 50 + 6 = 56; product 35 -> gapPct ~37.5%
	if ev.Boundaries.MaxContent != "One short video under 30 seconds" {
		t.Fatalf("mid gap video boundaries = %+v", ev.Boundaries)
	}

	// product 300 -> gap strongly favorable -> deliver as scoped.
	ev = Evaluate(baseOffer(), profile)
	if ev.Boundaries.MaxContent != "Deliver the requested content as scoped" || ev.Boundaries.TimeLimit != "Standard visibility" {
		t.Fatalf("favorable boundaries = %+v", ev.Boundaries)
	}

	// Rights limit never varies.
	for _, b := range []Boundaries{ev.Boundaries} {
		if b.RightsLimit != "No usage rights beyond your own post" {
			t.Fatalf("rights limit = %q", b.RightsLimit)
		}
	}
}

func TestEndToEndFavorableScenario(t *testing.T) {
	ev := Evaluate(baseOffer(), microProfile())
	if ev.WorthScore < 70 {
		t.Fatalf("worthScore = %d, want >= 70", ev.WorthScore)
	}
	if ev.StrategicScore != 8 {
		t.Fatalf("strategicScore = %d, want 8 (3+2+2+1)", ev.StrategicScore)
	}
	if ev.Recommendation != RecommendAcceptWithHook {
		t.Fatalf("recommendation = %s, want accept_with_hook", ev.Recommendation)
	}
	if ev.ConversionPotential != ConversionHigh {
		t.Fatalf("conversion = %s, want high", ev.ConversionPotential)
	}
	if len(ev.StrategicReasons) != 4 {
		t.Fatalf("expected 4 strategic reasons, got %d: %v", len(ev.StrategicReasons), ev.StrategicReasons)
	}
}

func TestSuspiciousBrandDrivesRunAway(t *testing.T) {
	in := GiftOfferInput{
		ProductValue:  20,
		ContentType:   ContentMultiplePosts,
		HoursRequired: 6,
		BrandQuality:  BrandSuspicious,
	}
	ev := Evaluate(in, microProfile())
	if ev.Recommendation != RecommendRunAway {
		t.Fatalf("recommendation = %s (worth=%d strategic=%d), want run_away", ev.Recommendation, ev.WorthScore, ev.StrategicScore)
	}
}
