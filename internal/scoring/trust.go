package scoring

import (
	"math"

	"dinoco-api/internal/models"
)

const (
	consistencyPenalty = 25.0 // puntos por unidad de desviación estándar
	activityBase       = 30.0
	activityPerReview  = 7.0
	proximityPenalty   = 40.0

	weightActivity    = 0.6
	weightProximity   = 0.4
	weightConsistency = 0.4
	weightCredibility = 0.6
)

// ScoreTrust mide qué tan confiable es el rating de una película: consistencia
// entre ratings y credibilidad de quienes la reseñaron.
func ScoreTrust(ratings []models.ReviewerRating) models.TrustReport {
	n := len(ratings)
	if n == 0 {
		return models.TrustReport{}
	}

	sum := 0.0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range ratings {
		v := float64(r.Rating)
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean := sum / float64(n)

	stdDev := 0.0
	consistency := 100.0
	if n > 1 {
		sq := 0.0
		for _, r := range ratings {
			d := float64(r.Rating) - mean
			sq += d * d
		}
		stdDev = math.Sqrt(sq / float64(n-1))
		consistency = math.Max(0, 100-stdDev*consistencyPenalty)
	}

	credSum := 0.0
	for _, r := range ratings {
		activity := math.Min(100, activityBase+float64(r.ReviewerReviewCount)*activityPerReview)
		proximity := math.Max(0, 100-math.Abs(float64(r.Rating)-mean)*proximityPenalty)
		credSum += activity*weightActivity + proximity*weightProximity
	}
	credibility := credSum / float64(n)

	trust := consistency*weightConsistency + credibility*weightCredibility

	return models.TrustReport{
		RatingConsistency:   round1(clamp(consistency, 0, 100)),
		ReviewerCredibility: round1(clamp(credibility, 0, 100)),
		TrustScore:          round1(clamp(trust, 0, 100)),
		ReviewCount:         n,
		AverageRating:       round2(mean),
		RatingDistribution: &models.RatingDistribution{
			Min:    lo,
			Max:    hi,
			StdDev: round2(stdDev),
		},
	}
}
