package tracker

import "time"

// computeAnalytics aggregates a holder's records. Archived records are
// invisible to every total; rates guard against empty sets.
func computeAnalytics(recs []*OfferRecord, now time.Time) Analytics {
	var a Analytics
	var conversionDays float64

	for _, rec := range recs {
		if rec.Status == StatusArchived {
			continue
		}
		a.TotalOffers++
		a.TotalProductValue += rec.ProductValue

		if rec.Status == StatusConverted {
			a.ConvertedCount++
			a.ConvertedRevenue += rec.ConvertedAmount
			if rec.ResolvedAt != nil {
				conversionDays += rec.ResolvedAt.Sub(rec.ReceivedAt).Hours() / 24
			}
		}

		if rec.Status == StatusContentCreated &&
			!rec.FollowUpSent &&
			rec.FollowUpDate != nil && !rec.FollowUpDate.After(now) {
			a.FollowUpsDue++
		}

		if rec.Status == StatusContentCreated && !rec.FollowUpSent &&
			rec.Metrics != nil && rec.Metrics.Score() >= ReadyToConvertThreshold {
			a.ReadyToConvert++
		}
	}

	if a.TotalOffers > 0 {
		a.ConversionRate = float64(a.ConvertedCount) / float64(a.TotalOffers)
	}
	if a.TotalProductValue > 0 {
		a.ROI = a.ConvertedRevenue / a.TotalProductValue
	}
	if a.ConvertedCount > 0 {
		a.AvgDaysToConversion = conversionDays / float64(a.ConvertedCount)
	}
	return a
}
