package evaluate

// CreatorTier is the holder's audience-size classification. Each tier maps to
// an hourly rate used to price the holder's production time.
type CreatorTier string

const (
	TierNano      CreatorTier = "nano"
	TierMicro     CreatorTier = "micro"
	TierMid       CreatorTier = "mid"
	TierMacro     CreatorTier = "macro"
	TierMega      CreatorTier = "mega"
	TierCelebrity CreatorTier = "celebrity"
)

// DefaultTier is the fallback for unrecognized tier values.
const DefaultTier = TierNano

var hourlyRates = map[CreatorTier]float64{
	TierNano:      25,
	TierMicro:     50,
	TierMid:       75,
	TierMacro:     150,
	TierMega:      300,
	TierCelebrity: 500,
}

// HourlyRate returns the rate for a tier, falling back to DefaultTier for
// unknown values.
func HourlyRate(tier CreatorTier) float64 {
	if rate, ok := hourlyRates[tier]; ok {
		return rate
	}
	return hourlyRates[DefaultTier]
}

// HolderProfile is the offer recipient's economic baseline.
type HolderProfile struct {
	Tier           CreatorTier `json:"tier" yaml:"tier"`
	TotalReach     int         `json:"total_reach" yaml:"totalReach"`
	EngagementRate float64     `json:"engagement_rate" yaml:"engagementRate"` // percent
	Niches         []string    `json:"niches,omitempty" yaml:"niches"`
}

type ContentType string

const (
	ContentOrganicMention ContentType = "organic_mention"
	ContentDedicatedPost  ContentType = "dedicated_post"
	ContentMultiplePosts  ContentType = "multiple_posts"
	ContentVideo          ContentType = "video"
)

type BrandQuality string

const (
	BrandMajor            BrandQuality = "major_brand"
	BrandEstablishedIndie BrandQuality = "established_indie"
	BrandNewUnknown       BrandQuality = "new_unknown"
	BrandSuspicious       BrandQuality = "suspicious"
)

// GiftOfferInput describes a non-monetary offer: the brand proposes product
// instead of cash.
type GiftOfferInput struct {
	ProductDescription  string       `json:"product_description"`
	ProductValue        float64      `json:"product_value"`
	ContentType         ContentType  `json:"content_type"`
	HoursRequired       float64      `json:"hours_required"`
	BrandQuality        BrandQuality `json:"brand_quality"`
	WouldBuy            bool         `json:"would_buy"`
	HasWebsite          bool         `json:"has_website"`
	PriorCreatorCollabs bool         `json:"prior_creator_collabs"`
	BrandFollowers      int          `json:"brand_followers,omitempty"`
}

type Recommendation string

const (
	RecommendRunAway        Recommendation = "run_away"
	RecommendDecline        Recommendation = "decline_politely"
	RecommendAskBudget      Recommendation = "ask_budget_first"
	RecommendCounterHybrid  Recommendation = "counter_hybrid"
	RecommendAcceptWithHook Recommendation = "accept_with_hook"
)

type ConversionPotential string

const (
	ConversionHigh   ConversionPotential = "high"
	ConversionMedium ConversionPotential = "medium"
	ConversionLow    ConversionPotential = "low"
)

// ValueBreakdown itemizes what the offer is worth against what fulfilling it
// costs the holder. ValueGap > 0 favors the holder.
type ValueBreakdown struct {
	ProductValue        float64 `json:"product_value"`
	TimeValue           float64 `json:"time_value"`
	AudienceValue       float64 `json:"audience_value"`
	TotalValueProviding float64 `json:"total_value_providing"`
	ValueGap            float64 `json:"value_gap"`
	EffectiveHourlyRate float64 `json:"effective_hourly_rate"`
}

// Boundaries are the acceptance limits the holder should hold to if they take
// the deal as gifted.
type Boundaries struct {
	MaxContent  string `json:"max_content"`
	TimeLimit   string `json:"time_limit"`
	RightsLimit string `json:"rights_limit"`
}

// OfferEvaluation is the engine output. Recommendation is always derived from
// WorthScore and StrategicScore via the decision matrix; no other path
// produces one.
type OfferEvaluation struct {
	WorthScore             int                 `json:"worth_score"`
	StrategicScore         int                 `json:"strategic_score"`
	StrategicReasons       []string            `json:"strategic_reasons"`
	ConversionPotential    ConversionPotential `json:"conversion_potential"`
	Breakdown              ValueBreakdown      `json:"value_breakdown"`
	Recommendation         Recommendation      `json:"recommendation"`
	MinimumAcceptableAddOn float64             `json:"minimum_acceptable_addon"`
	CounterOffer           string              `json:"counter_offer"`
	WalkAway               string              `json:"walk_away"`
	Boundaries             Boundaries          `json:"boundaries"`
}
