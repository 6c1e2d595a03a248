package services

import (
	"errors"
	"testing"

	"conference-review-api/models"
)

func newBidFixture(t *testing.T) (*BidService, *ConflictService, models.Paper, models.PCMember) {
	t.Helper()
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)
	conflicts := NewConflictService(db)
	return NewBidService(db, conflicts), conflicts, paper, member
}

func TestSubmitBidRejectsOutOfRange(t *testing.T) {
	bids, _, paper, member := newBidFixture(t)

	for _, value := range []int{-3, 3, 100} {
		_, err := bids.Submit(member.PCMemberID, paper.PaperID, value)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("value %d: expected ValidationError, got %v", value, err)
		}
	}
}

func TestSubmitBidBlockedByConflict(t *testing.T) {
	bids, conflicts, paper, member := newBidFixture(t)

	_, err := conflicts.Declare(DeclareConflictInput{
		PCMemberID:   member.PCMemberID,
		PaperID:      &paper.PaperID,
		ConflictType: models.ConflictCoAuthor,
	})
	if err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	_, err = bids.Submit(member.PCMemberID, paper.PaperID, models.BidEager)
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	// No bid row may exist after the rejection.
	list, err := bids.ListByPaper(paper.PaperID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no bids, got %d", len(list))
	}
}

func TestSubmitBidBlockedByQuota(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 0)

	bids := NewBidService(db, NewConflictService(db))
	_, err := bids.Submit(member.PCMemberID, paper.PaperID, models.BidWilling)

	var quotaErr *QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
}

func TestSubmitBidUpsertsPerPair(t *testing.T) {
	bids, _, paper, member := newBidFixture(t)

	first, err := bids.Submit(member.PCMemberID, paper.PaperID, models.BidWilling)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	second, err := bids.Submit(member.PCMemberID, paper.PaperID, models.BidEager)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}

	if first.BidID != second.BidID {
		t.Fatalf("expected upsert to reuse bid %d, got %d", first.BidID, second.BidID)
	}
	if second.BidValue != models.BidEager {
		t.Fatalf("expected updated value %d, got %d", models.BidEager, second.BidValue)
	}

	list, err := bids.ListByPaper(paper.PaperID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one bid per pair, got %d", len(list))
	}
}

func TestUpdateBidValidatesRangeOnly(t *testing.T) {
	bids, _, paper, member := newBidFixture(t)

	bid, err := bids.Submit(member.PCMemberID, paper.PaperID, models.BidNeutral)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err = bids.Update(bid.BidID, 5)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	updated, err := bids.Update(bid.BidID, models.BidNotWilling)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.BidValue != models.BidNotWilling {
		t.Fatalf("expected value %d, got %d", models.BidNotWilling, updated.BidValue)
	}
}

func TestPaperScoreEmpty(t *testing.T) {
	bids, _, paper, _ := newBidFixture(t)

	score, err := bids.PaperScore(paper.PaperID)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if score.TotalBids != 0 || score.AverageScore != 0 || score.MedianScore != 0 {
		t.Fatalf("expected zeroed score, got %+v", score)
	}
}

func TestPaperScoreCounts(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	bids := NewBidService(db, NewConflictService(db))

	values := []int{2, 1, 0, -1, -2}
	for _, value := range values {
		member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)
		if _, err := bids.Submit(member.PCMemberID, paper.PaperID, value); err != nil {
			t.Fatalf("submit %d failed: %v", value, err)
		}
	}

	score, err := bids.PaperScore(paper.PaperID)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if score.TotalBids != 5 {
		t.Fatalf("expected 5 bids, got %d", score.TotalBids)
	}
	if score.AverageScore != 0 {
		t.Fatalf("expected average 0, got %v", score.AverageScore)
	}
	if score.MedianScore != 0 {
		t.Fatalf("expected median 0, got %v", score.MedianScore)
	}
	if score.PositiveCount != 2 || score.NegativeCount != 2 || score.NeutralCount != 1 {
		t.Fatalf("unexpected sign counts: %+v", score)
	}
	if score.StrongPositive != 1 || score.StrongNegative != 1 {
		t.Fatalf("unexpected extreme counts: %+v", score)
	}
}

func TestBiddingSummary(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paperA := createPaper(t, db, conference.ConferenceID)
	paperB := createPaper(t, db, conference.ConferenceID)
	bids := NewBidService(db, NewConflictService(db))

	active := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)
	idle := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)
	_ = idle

	if _, err := bids.Submit(active.PCMemberID, paperA.PaperID, models.BidEager); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := bids.Submit(active.PCMemberID, paperB.PaperID, models.BidWilling); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	summary, err := bids.Summary(conference.ConferenceID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if summary.TotalMembers != 2 {
		t.Fatalf("expected 2 members, got %d", summary.TotalMembers)
	}
	if summary.TotalBids != 2 {
		t.Fatalf("expected 2 bids, got %d", summary.TotalBids)
	}
	if summary.MembersWhoBid != 1 {
		t.Fatalf("expected 1 member who bid, got %d", summary.MembersWhoBid)
	}
	if summary.AverageBidsPerMember != 2 {
		t.Fatalf("expected 2 bids per bidding member, got %v", summary.AverageBidsPerMember)
	}
	if summary.BidDistribution[active.PCMemberID] != 2 {
		t.Fatalf("unexpected distribution: %+v", summary.BidDistribution)
	}
}

func TestPapersByBidScoreRanksDescending(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	low := createPaper(t, db, conference.ConferenceID)
	high := createPaper(t, db, conference.ConferenceID)
	bids := NewBidService(db, NewConflictService(db))

	memberA := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)
	memberB := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)

	if _, err := bids.Submit(memberA.PCMemberID, high.PaperID, models.BidEager); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := bids.Submit(memberB.PCMemberID, high.PaperID, models.BidWilling); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := bids.Submit(memberA.PCMemberID, low.PaperID, models.BidNotWilling); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	ranked, err := bids.PapersByBidScore(conference.ConferenceID, -2, 2)
	if err != nil {
		t.Fatalf("ranking failed: %v", err)
	}

	if len(ranked) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(ranked))
	}
	if ranked[0].PaperID != high.PaperID {
		t.Fatalf("expected paper %d first, got %d", high.PaperID, ranked[0].PaperID)
	}

	// Narrowing the window filters out the low scorer.
	ranked, err = bids.PapersByBidScore(conference.ConferenceID, 0, 2)
	if err != nil {
		t.Fatalf("ranking failed: %v", err)
	}
	if len(ranked) != 1 || ranked[0].PaperID != high.PaperID {
		t.Fatalf("expected only the high scorer, got %+v", ranked)
	}
}

func TestPapersByBidScoreExcludesUnbidPapers(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	bid := createPaper(t, db, conference.ConferenceID)
	createPaper(t, db, conference.ConferenceID) // nobody bids on this one
	bids := NewBidService(db, NewConflictService(db))

	member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)
	if _, err := bids.Submit(member.PCMemberID, bid.PaperID, models.BidNeutral); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	ranked, err := bids.PapersByBidScore(conference.ConferenceID, -2, 2)
	if err != nil {
		t.Fatalf("ranking failed: %v", err)
	}
	if len(ranked) != 1 || ranked[0].PaperID != bid.PaperID {
		t.Fatalf("expected only the bid-on paper, got %+v", ranked)
	}
}
