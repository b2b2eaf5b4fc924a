package models

// ====== Trust heatmap ======

// ReviewerRating es un rating sobre la película junto con la actividad total de su autor.
type ReviewerRating struct {
	UserID              int `json:"user_id" bson:"userId"`
	Rating              int `json:"rating" bson:"rating"`
	ReviewerReviewCount int `json:"reviewer_review_count" bson:"reviewerReviewCount"`
}

type RatingDistribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

type TrustReport struct {
	RatingConsistency   float64             `json:"rating_consistency"`
	ReviewerCredibility float64             `json:"reviewer_credibility"`
	TrustScore          float64             `json:"trust_score"`
	ReviewCount         int                 `json:"review_count"`
	AverageRating       float64             `json:"average_rating"`
	RatingDistribution  *RatingDistribution `json:"rating_distribution,omitempty"`
}

// ====== Explain algorithm ======

type ExplainedMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

type PersonalizationFactor struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
	Weight      string `json:"weight"`
	Emoji       string `json:"emoji"`
}

type FilterFactor struct {
	Filter   string `json:"filter"`
	Criteria string `json:"criteria"`
	Met      bool   `json:"met"`
	Value    string `json:"value"`
	Emoji    string `json:"emoji"`
}

type PopularityFactor struct {
	Metric      string `json:"metric"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

type TrendingFactor struct {
	Indicator string `json:"indicator"`
	Value     string `json:"value"`
	Emoji     string `json:"emoji"`
}

type ExplanationFactors struct {
	Personalization []PersonalizationFactor `json:"personalization"`
	Filters         []FilterFactor          `json:"filters"`
	Popularity      []PopularityFactor      `json:"popularity"`
	Trending        []TrendingFactor        `json:"trending"`
}

type ExplanationScores struct {
	PersonalizationScore float64 `json:"personalization_score"`
	FilterMatchScore     float64 `json:"filter_match_score"`
	PopularityScore      float64 `json:"popularity_score"`
	OverallScore         float64 `json:"overall_score"`
}

type ExplanationReport struct {
	Movie   ExplainedMovie     `json:"movie"`
	Factors ExplanationFactors `json:"factors"`
	Scores  ExplanationScores  `json:"scores"`
	Summary string             `json:"summary"`
}

// CatalogStats son los conteos del catálogo que necesita el explicador.
type CatalogStats struct {
	AtOrBelow     int // películas con avg <= avg de la película
	Total         int
	RecentReviews int // reviews de los últimos 7 días
}
