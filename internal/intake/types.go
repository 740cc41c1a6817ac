package intake

// Platform is the delivery platform a brand is asking for. Provider output is
// coerced onto this set during normalization; arbitrary strings never survive.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
	PlatformTwitch    Platform = "twitch"
	PlatformOther     Platform = "other"
)

type ContentFormat string

const (
	FormatPost     ContentFormat = "post"
	FormatStory    ContentFormat = "story"
	FormatReel     ContentFormat = "reel"
	FormatVideo    ContentFormat = "video"
	FormatLive     ContentFormat = "live"
	FormatMultiple ContentFormat = "multiple"
)

type Exclusivity string

const (
	ExclusivityNone     Exclusivity = "none"
	ExclusivityCategory Exclusivity = "category"
	ExclusivityFull     Exclusivity = "full"
)

const (
	DefaultPlatform    = PlatformInstagram
	DefaultFormat      = FormatPost
	DefaultExclusivity = ExclusivityNone
)

type BrandIdentity struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Product  string `json:"product"`
}

type CampaignIntent struct {
	Objective      string `json:"objective"`
	TargetAudience string `json:"target_audience"`
	BudgetRange    string `json:"budget_range"`
}

type ContentSpec struct {
	Platform          Platform      `json:"platform"`
	Format            ContentFormat `json:"format"`
	Quantity          int           `json:"quantity"`
	CreativeDirection string        `json:"creative_direction"`
}

type UsageTerms struct {
	DurationDays      int         `json:"duration_days"`
	Exclusivity       Exclusivity `json:"exclusivity"`
	PaidAmplification bool        `json:"paid_amplification"`
}

// StructuredOffer is the canonical extraction result for a commercial offer.
type StructuredOffer struct {
	Brand    BrandIdentity  `json:"brand"`
	Campaign CampaignIntent `json:"campaign"`
	Content  ContentSpec    `json:"content"`
	Usage    UsageTerms     `json:"usage"`
	Deadline string         `json:"deadline"`
	RawText  string         `json:"raw_text"`
}
