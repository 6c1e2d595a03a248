package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"conference-review-api/models"

	"gorm.io/gorm"
)

// BidService is the ledger of reviewer bidding preferences. Submission is
// gated by the conflict registry and by remaining review capacity.
type BidService struct {
	db        *gorm.DB
	conflicts *ConflictService
}

func NewBidService(db *gorm.DB, conflicts *ConflictService) *BidService {
	return &BidService{db: db, conflicts: conflicts}
}

// Submit records or replaces the member's bid on a paper. One bid per pair;
// re-submitting updates the value in place.
func (s *BidService) Submit(pcMemberID, paperID, bidValue int) (*models.Bid, error) {
	if !models.ValidBidValue(bidValue) {
		return nil, &ValidationError{Message: fmt.Sprintf("bid value must be between %d and %d", models.BidConflict, models.BidEager)}
	}

	hasConflict, err := s.conflicts.Check(pcMemberID, paperID, time.Now())
	if err != nil {
		return nil, err
	}
	if hasConflict {
		return nil, &ConflictError{Message: "cannot bid on paper due to conflict of interest"}
	}

	var member models.PCMember
	if err := s.db.First(&member, "pc_member_id = ?", pcMemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "pc member", ID: pcMemberID}
		}
		return nil, err
	}
	if member.AvailableCapacity() <= 0 {
		return nil, &QuotaExceededError{PCMemberID: pcMemberID}
	}

	now := time.Now()

	var bid models.Bid
	err = s.db.Where("pc_member_id = ? AND paper_id = ?", pcMemberID, paperID).First(&bid).Error
	switch {
	case err == nil:
		bid.BidValue = bidValue
		bid.UpdateAt = &now
		if err := s.db.Save(&bid).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		bid = models.Bid{
			PCMemberID: pcMemberID,
			PaperID:    paperID,
			BidValue:   bidValue,
			CreateAt:   &now,
			UpdateAt:   &now,
		}
		if err := s.db.Create(&bid).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return &bid, nil
}

// Update changes an existing bid's value. Conflict and quota were checked
// at submission time and are not re-enforced here.
func (s *BidService) Update(bidID, bidValue int) (*models.Bid, error) {
	if !models.ValidBidValue(bidValue) {
		return nil, &ValidationError{Message: fmt.Sprintf("bid value must be between %d and %d", models.BidConflict, models.BidEager)}
	}

	var bid models.Bid
	if err := s.db.First(&bid, "bid_id = ?", bidID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "bid", ID: bidID}
		}
		return nil, err
	}

	now := time.Now()
	bid.BidValue = bidValue
	bid.UpdateAt = &now
	if err := s.db.Save(&bid).Error; err != nil {
		return nil, err
	}
	return &bid, nil
}

// Get returns a bid by id.
func (s *BidService) Get(bidID int) (*models.Bid, error) {
	var bid models.Bid
	if err := s.db.First(&bid, "bid_id = ?", bidID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "bid", ID: bidID}
		}
		return nil, err
	}
	return &bid, nil
}

// Remove deletes a bid.
func (s *BidService) Remove(bidID int) error {
	result := s.db.Delete(&models.Bid{}, "bid_id = ?", bidID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "bid", ID: bidID}
	}
	return nil
}

// ListByPaper returns all bids on a paper.
func (s *BidService) ListByPaper(paperID int) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.db.Where("paper_id = ?", paperID).Order("bid_id").Find(&bids).Error
	return bids, err
}

// ListByMember returns all bids a member has placed.
func (s *BidService) ListByMember(pcMemberID int) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.db.Where("pc_member_id = ?", pcMemberID).Order("bid_id").Find(&bids).Error
	return bids, err
}

// ListByConference returns every bid placed on the conference's papers.
func (s *BidService) ListByConference(conferenceID int) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.db.
		Joins("JOIN papers ON papers.paper_id = bids.paper_id").
		Where("papers.conference_id = ?", conferenceID).
		Order("bids.bid_id").
		Find(&bids).Error
	return bids, err
}

// PaperBidScore summarizes the bids on one paper.
type PaperBidScore struct {
	PaperID        int     `json:"paper_id"`
	TotalBids      int     `json:"total_bids"`
	AverageScore   float64 `json:"average_score"`
	MedianScore    float64 `json:"median_score"`
	PositiveCount  int     `json:"positive_count"`
	NeutralCount   int     `json:"neutral_count"`
	NegativeCount  int     `json:"negative_count"`
	StrongPositive int     `json:"strong_positive"`
	StrongNegative int     `json:"strong_negative"`
}

// PaperScore aggregates a paper's bids. An empty bid set yields a zeroed
// result, not an error.
func (s *BidService) PaperScore(paperID int) (*PaperBidScore, error) {
	bids, err := s.ListByPaper(paperID)
	if err != nil {
		return nil, err
	}

	score := &PaperBidScore{PaperID: paperID}
	if len(bids) == 0 {
		return score, nil
	}

	values := make([]float64, 0, len(bids))
	sum := 0
	for _, bid := range bids {
		values = append(values, float64(bid.BidValue))
		sum += bid.BidValue
		switch {
		case bid.BidValue > 0:
			score.PositiveCount++
		case bid.BidValue < 0:
			score.NegativeCount++
		default:
			score.NeutralCount++
		}
		if bid.BidValue == models.BidEager {
			score.StrongPositive++
		}
		if bid.BidValue == models.BidConflict {
			score.StrongNegative++
		}
	}

	score.TotalBids = len(bids)
	score.AverageScore = round2(float64(sum) / float64(len(bids)))
	score.MedianScore = median(values)
	return score, nil
}

// RankedPaperScore is a paper's bid score with its title attached, for the
// chair's pre-assignment ranking view.
type RankedPaperScore struct {
	PaperBidScore
	PaperTitle string `json:"paper_title"`
}

// PapersByBidScore ranks a conference's papers by average bid score,
// keeping only papers whose average falls within [minScore, maxScore].
// Papers nobody bid on are excluded rather than ranked as neutral.
func (s *BidService) PapersByBidScore(conferenceID int, minScore, maxScore float64) ([]RankedPaperScore, error) {
	var papers []models.Paper
	err := s.db.
		Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		Find(&papers).Error
	if err != nil {
		return nil, err
	}

	results := make([]RankedPaperScore, 0, len(papers))
	for _, paper := range papers {
		score, err := s.PaperScore(paper.PaperID)
		if err != nil {
			return nil, err
		}
		if score.TotalBids == 0 {
			continue
		}
		if score.AverageScore < minScore || score.AverageScore > maxScore {
			continue
		}
		results = append(results, RankedPaperScore{PaperBidScore: *score, PaperTitle: paper.Title})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AverageScore > results[j].AverageScore
	})
	return results, nil
}

// BiddingSummary reports conference-wide bidding participation, used to
// detect under-participation before assignment runs.
type BiddingSummary struct {
	ConferenceID         int         `json:"conference_id"`
	TotalMembers         int         `json:"total_members"`
	TotalBids            int         `json:"total_bids"`
	MembersWhoBid        int         `json:"members_who_bid"`
	AverageBidsPerMember float64     `json:"average_bids_per_member"`
	BidDistribution      map[int]int `json:"bid_distribution"`
}

// Summary computes the conference's bidding participation figures.
func (s *BidService) Summary(conferenceID int) (*BiddingSummary, error) {
	var totalMembers int64
	err := s.db.Model(&models.PCMember{}).
		Where("conference_id = ?", conferenceID).
		Count(&totalMembers).Error
	if err != nil {
		return nil, err
	}

	bids, err := s.ListByConference(conferenceID)
	if err != nil {
		return nil, err
	}

	summary := &BiddingSummary{
		ConferenceID:    conferenceID,
		TotalMembers:    int(totalMembers),
		TotalBids:       len(bids),
		BidDistribution: map[int]int{},
	}
	if len(bids) == 0 {
		return summary, nil
	}

	for _, bid := range bids {
		summary.BidDistribution[bid.PCMemberID]++
	}
	summary.MembersWhoBid = len(summary.BidDistribution)
	summary.AverageBidsPerMember = round2(float64(len(bids)) / float64(summary.MembersWhoBid))
	return summary, nil
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
