package services

import (
	"math"
	"os"
	"strconv"
	"strings"

	"conference-review-api/models"

	"gorm.io/gorm"
)

// DecisionPolicy holds the thresholds the aggregator uses to derive its
// advisory decision. The values are policy, not structure: chairs tune them
// per conference via REVIEW_ACCEPT_SCORE / REVIEW_CONDITIONAL_SCORE.
type DecisionPolicy struct {
	AcceptScore      float64
	ConditionalScore float64
}

// DefaultPolicy returns the standard thresholds, with env overrides applied.
func DefaultPolicy() DecisionPolicy {
	policy := DecisionPolicy{AcceptScore: 7, ConditionalScore: 6}
	if v, err := strconv.ParseFloat(os.Getenv("REVIEW_ACCEPT_SCORE"), 64); err == nil && v > 0 {
		policy.AcceptScore = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("REVIEW_CONDITIONAL_SCORE"), 64); err == nil && v > 0 {
		policy.ConditionalScore = v
	}
	return policy
}

// Consensus levels derived from the spread of overall scores.
const (
	ConsensusNone     = "none"
	ConsensusWeak     = "weak"
	ConsensusModerate = "moderate"
	ConsensusStrong   = "strong"
)

// ReviewAggregate is the statistical summary of a paper's completed reviews.
type ReviewAggregate struct {
	PaperID               int            `json:"paper_id"`
	TotalReviews          int            `json:"total_reviews"`
	AvgOverallScore       float64        `json:"avg_overall_score"`
	AvgConfidence         float64        `json:"avg_confidence"`
	AvgOriginality        float64        `json:"avg_originality"`
	AvgSignificance       float64        `json:"avg_significance"`
	AvgTechnicalQuality   float64        `json:"avg_technical_quality"`
	AvgClarity            float64        `json:"avg_clarity"`
	AvgRelevance          float64        `json:"avg_relevance"`
	MinScore              int            `json:"min_score"`
	MaxScore              int            `json:"max_score"`
	RecommendationSummary map[string]int `json:"recommendation_summary"`
	ConsensusLevel        string         `json:"consensus_level"`
	RecommendedDecision   string         `json:"recommended_decision"`
}

// AggregationService turns a paper's completed reviews into a consensus
// signal for the decision workflow. Read-only; it is advisory input, never
// a binding action.
type AggregationService struct {
	db     *gorm.DB
	policy DecisionPolicy
}

func NewAggregationService(db *gorm.DB, policy DecisionPolicy) *AggregationService {
	return &AggregationService{db: db, policy: policy}
}

// Aggregate summarizes the paper's completed reviews. Zero completed
// reviews yields a neutral result with consensus "none", never an error.
func (s *AggregationService) Aggregate(paperID int) (*ReviewAggregate, error) {
	var reviews []models.Review
	err := s.db.
		Where("paper_id = ? AND overall_score IS NOT NULL", paperID).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	agg := &ReviewAggregate{
		PaperID:               paperID,
		RecommendationSummary: map[string]int{},
		ConsensusLevel:        ConsensusNone,
	}
	if len(reviews) == 0 {
		return agg, nil
	}

	var overall []float64
	var recommendations []string
	for _, review := range reviews {
		overall = append(overall, float64(*review.OverallScore))
		if review.Recommendation != nil && *review.Recommendation != "" {
			recommendations = append(recommendations, *review.Recommendation)
			agg.RecommendationSummary[*review.Recommendation]++
		}
	}

	agg.TotalReviews = len(reviews)
	agg.AvgOverallScore = round2(mean(overall))
	agg.AvgConfidence = round2(meanOf(reviews, func(r models.Review) *int { return r.Confidence }))
	agg.AvgOriginality = round2(meanOf(reviews, func(r models.Review) *int { return r.OriginalityScore }))
	agg.AvgSignificance = round2(meanOf(reviews, func(r models.Review) *int { return r.SignificanceScore }))
	agg.AvgTechnicalQuality = round2(meanOf(reviews, func(r models.Review) *int { return r.TechnicalQualityScore }))
	agg.AvgClarity = round2(meanOf(reviews, func(r models.Review) *int { return r.ClarityScore }))
	agg.AvgRelevance = round2(meanOf(reviews, func(r models.Review) *int { return r.RelevanceScore }))
	agg.MinScore = int(minFloat(overall))
	agg.MaxScore = int(maxFloat(overall))
	agg.ConsensusLevel = consensusLevel(overall)
	agg.RecommendedDecision = s.recommendDecision(overall, recommendations)
	return agg, nil
}

// PaperReviewStatus counts one paper's completed and pending reviews.
type PaperReviewStatus struct {
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Total     int `json:"total"`
}

// ConferenceReviewStatus is the per-paper review progress view chairs use
// to time their decision runs.
type ConferenceReviewStatus struct {
	ConferenceID int                       `json:"conference_id"`
	PaperCount   int                       `json:"paper_count"`
	PapersStatus map[int]PaperReviewStatus `json:"papers_status"`
}

// ReviewStatus reports completed versus pending review counts per paper
// across the conference. Papers without any review do not appear.
func (s *AggregationService) ReviewStatus(conferenceID int) (*ConferenceReviewStatus, error) {
	var reviews []models.Review
	err := s.db.
		Joins("JOIN papers ON papers.paper_id = reviews.paper_id").
		Where("papers.conference_id = ?", conferenceID).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	status := &ConferenceReviewStatus{
		ConferenceID: conferenceID,
		PapersStatus: map[int]PaperReviewStatus{},
	}
	for _, review := range reviews {
		entry := status.PapersStatus[review.PaperID]
		entry.Total++
		if review.IsCompleted() {
			entry.Completed++
		} else {
			entry.Pending++
		}
		status.PapersStatus[review.PaperID] = entry
	}
	status.PaperCount = len(status.PapersStatus)
	return status, nil
}

// consensusLevel classifies agreement by the standard deviation of overall
// scores. Deviation is undefined below two scores, which counts as weak by
// definition.
func consensusLevel(scores []float64) string {
	if len(scores) < 2 {
		return ConsensusWeak
	}
	sd := stddev(scores)
	switch {
	case sd < 0.5:
		return ConsensusStrong
	case sd < 1.5:
		return ConsensusModerate
	default:
		return ConsensusWeak
	}
}

// recommendDecision derives the advisory outcome: an accept-leaning
// majority with a high enough mean accepts outright or conditionally,
// anything else rejects.
func (s *AggregationService) recommendDecision(scores []float64, recommendations []string) string {
	if len(scores) == 0 {
		return models.DecisionReject
	}

	avg := mean(scores)
	acceptCount, rejectCount := 0, 0
	for _, rec := range recommendations {
		lower := strings.ToLower(rec)
		if strings.Contains(lower, "accept") {
			acceptCount++
		}
		if strings.Contains(lower, "reject") {
			rejectCount++
		}
	}

	switch {
	case acceptCount > rejectCount && avg >= s.policy.AcceptScore:
		return models.DecisionAccept
	case acceptCount > rejectCount && avg >= s.policy.ConditionalScore:
		return models.DecisionConditionalAccept
	default:
		return models.DecisionReject
	}
}

func meanOf(reviews []models.Review, pick func(models.Review) *int) float64 {
	var values []float64
	for _, review := range reviews {
		if v := pick(review); v != nil {
			values = append(values, float64(*v))
		}
	}
	return mean(values)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func minFloat(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxFloat(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
