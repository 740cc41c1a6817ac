package tracker

import "time"

// Status is the finite lifecycle state of an offer record:
// received -> content_created -> followed_up -> {converted | declined}.
// Archived is a holder-initiated reclassification reachable from any state.
type Status string

const (
	StatusReceived       Status = "received"
	StatusContentCreated Status = "content_created"
	StatusFollowedUp     Status = "followed_up"
	StatusConverted      Status = "converted"
	StatusDeclined       Status = "declined"
	StatusArchived       Status = "archived"
)

// FollowUpDelay is how long after content goes live the holder should
// re-engage the brand.
const FollowUpDelay = 14 * 24 * time.Hour

// ReadyToConvertThreshold is the minimum engagement score before pitching a
// paid conversion.
const ReadyToConvertThreshold = 100.0

type ContentInfo struct {
	ContentType string    `json:"content_type"`
	PostedAt    time.Time `json:"posted_at"`
	PostURL     string    `json:"post_url,omitempty"`
}

type EngagementMetrics struct {
	Views    int `json:"views"`
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Saves    int `json:"saves"`
	Shares   int `json:"shares"`
}

// Score weights raw engagement counts into a single comparable number.
func (m EngagementMetrics) Score() float64 {
	return float64(m.Views)*0.001 +
		float64(m.Likes)*0.1 +
		float64(m.Comments)*0.5 +
		float64(m.Saves)*0.3 +
		float64(m.Shares)*0.2
}

type Note struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// OfferRecord is the persisted, holder-owned lifecycle entity. Notes are an
// append-only log; records are never deleted except by explicit holder
// action.
type OfferRecord struct {
	ID      string `json:"id" db:"id"`
	OwnerID string `json:"owner_id" db:"owner_id"`

	BrandName    string  `json:"brand_name" db:"brand_name"`
	BrandContact string  `json:"brand_contact,omitempty" db:"brand_contact"`
	ProductName  string  `json:"product_name" db:"product_name"`
	ProductValue float64 `json:"product_value" db:"product_value"`

	Status     Status    `json:"status" db:"status"`
	ReceivedAt time.Time `json:"received_at" db:"received_at"`

	Content *ContentInfo       `json:"content,omitempty"`
	Metrics *EngagementMetrics `json:"metrics,omitempty"`

	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
	FollowUpSent bool       `json:"follow_up_sent" db:"follow_up_sent"`

	ConvertedAmount float64    `json:"converted_amount,omitempty" db:"converted_amount"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`

	Notes []Note `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateInput struct {
	OwnerID      string  `json:"-"`
	BrandName    string  `json:"brand_name"`
	BrandContact string  `json:"brand_contact"`
	ProductName  string  `json:"product_name"`
	ProductValue float64 `json:"product_value"`
	Note         string  `json:"note"`
}

// Analytics is a pure aggregation over a holder's record set. Archived
// records are excluded from totals.
type Analytics struct {
	TotalOffers         int     `json:"total_offers"`
	TotalProductValue   float64 `json:"total_product_value"`
	ConvertedCount      int     `json:"converted_count"`
	ConversionRate      float64 `json:"conversion_rate"`
	ConvertedRevenue    float64 `json:"converted_revenue"`
	ROI                 float64 `json:"roi"`
	AvgDaysToConversion float64 `json:"avg_days_to_conversion"`
	FollowUpsDue        int     `json:"follow_ups_due"`
	ReadyToConvert      int     `json:"ready_to_convert"`
}
