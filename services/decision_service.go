package services

import (
	"errors"
	"time"

	"conference-review-api/models"

	"gorm.io/gorm"
)

// DecisionService drives the paper decision state machine:
//
//	{no decision} -> accept | conditional_accept | reject | desk_reject
//	conditional_accept -> conditions verified
//
// At most one decision exists per paper; creation against an existing
// decision is rejected and the unique index backstops the race.
type DecisionService struct {
	db          *gorm.DB
	aggregation *AggregationService
}

func NewDecisionService(db *gorm.DB, aggregation *AggregationService) *DecisionService {
	return &DecisionService{db: db, aggregation: aggregation}
}

// CreateDecisionInput carries a manual decision.
type CreateDecisionInput struct {
	PaperID           int
	Decision          string
	DecidedBy         int
	AvgScore          *float64
	ReviewCount       *int
	InternalNotes     *string
	MetaReview        *string
	FeedbackToAuthors *string
	Conditions        *string
}

// Create records a decision for a paper. Fails with ConflictError if the
// paper already has one.
func (s *DecisionService) Create(input CreateDecisionInput) (*models.Decision, error) {
	if !models.ValidDecisionKind(input.Decision) {
		return nil, &ValidationError{Message: "invalid decision kind: " + input.Decision}
	}

	var decision *models.Decision
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Decision{}).
			Where("paper_id = ?", input.PaperID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Message: "decision already exists for this paper"}
		}

		now := time.Now()
		created := models.Decision{
			PaperID:           input.PaperID,
			Decision:          input.Decision,
			DecidedBy:         input.DecidedBy,
			DecidedAt:         now,
			AvgScore:          input.AvgScore,
			ReviewCount:       input.ReviewCount,
			InternalNotes:     input.InternalNotes,
			MetaReview:        input.MetaReview,
			FeedbackToAuthors: input.FeedbackToAuthors,
			Conditions:        input.Conditions,
			CreateAt:          &now,
			UpdateAt:          &now,
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Message: "decision already exists for this paper"}
			}
			return err
		}
		decision = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decision, nil
}

// AutoDecide aggregates the paper's reviews and records the recommended
// decision, freezing the average score and review count at decision time.
func (s *DecisionService) AutoDecide(paperID, decidedBy int) (*models.Decision, error) {
	agg, err := s.aggregation.Aggregate(paperID)
	if err != nil {
		return nil, err
	}
	if agg.TotalReviews == 0 {
		return nil, &ValidationError{Message: "no completed reviews to aggregate"}
	}

	avg := agg.AvgOverallScore
	count := agg.TotalReviews
	return s.Create(CreateDecisionInput{
		PaperID:     paperID,
		Decision:    agg.RecommendedDecision,
		DecidedBy:   decidedBy,
		AvgScore:    &avg,
		ReviewCount: &count,
	})
}

// BulkDecisionError ties a failed paper to its reason.
type BulkDecisionError struct {
	PaperID int    `json:"paper_id"`
	Error   string `json:"error"`
}

// BulkAutoDecideResult reports the outcome of a batch auto-decision run.
type BulkAutoDecideResult struct {
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
	Decisions  []models.Decision   `json:"decisions"`
	Errors     []BulkDecisionError `json:"errors,omitempty"`
}

// BulkAutoDecide runs AutoDecide over the papers, collecting per-paper
// failures instead of aborting the batch.
func (s *DecisionService) BulkAutoDecide(paperIDs []int, decidedBy int) (*BulkAutoDecideResult, error) {
	if len(paperIDs) == 0 {
		return nil, &ValidationError{Message: "paper_ids is required"}
	}

	result := &BulkAutoDecideResult{}
	for _, paperID := range paperIDs {
		decision, err := s.AutoDecide(paperID, decidedBy)
		if err != nil {
			result.Errors = append(result.Errors, BulkDecisionError{PaperID: paperID, Error: err.Error()})
			continue
		}
		result.Decisions = append(result.Decisions, *decision)
	}
	result.Successful = len(result.Decisions)
	result.Failed = len(result.Errors)
	return result, nil
}

// DeskReject short-circuits the workflow: it needs only a reason and is
// valid regardless of review state.
func (s *DecisionService) DeskReject(paperID int, reason string, decidedBy int) (*models.Decision, error) {
	if reason == "" {
		return nil, &ValidationError{Message: "desk reject requires a reason"}
	}
	return s.Create(CreateDecisionInput{
		PaperID:       paperID,
		Decision:      models.DecisionDeskReject,
		DecidedBy:     decidedBy,
		InternalNotes: &reason,
	})
}

// Get returns a decision by id.
func (s *DecisionService) Get(decisionID int) (*models.Decision, error) {
	var decision models.Decision
	if err := s.db.First(&decision, "decision_id = ?", decisionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "decision", ID: decisionID}
		}
		return nil, err
	}
	return &decision, nil
}

// GetByPaper returns the paper's decision.
func (s *DecisionService) GetByPaper(paperID int) (*models.Decision, error) {
	var decision models.Decision
	if err := s.db.First(&decision, "paper_id = ?", paperID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "decision for paper", ID: paperID}
		}
		return nil, err
	}
	return &decision, nil
}

// ListByConference returns all decisions for a conference's papers, newest
// first.
func (s *DecisionService) ListByConference(conferenceID int) ([]models.Decision, error) {
	var decisions []models.Decision
	err := s.db.
		Joins("JOIN papers ON papers.paper_id = decisions.paper_id").
		Where("papers.conference_id = ?", conferenceID).
		Order("decisions.decided_at DESC").
		Find(&decisions).Error
	return decisions, err
}

// ListByKind returns a conference's decisions of one kind.
func (s *DecisionService) ListByKind(conferenceID int, kind string) ([]models.Decision, error) {
	if !models.ValidDecisionKind(kind) {
		return nil, &ValidationError{Message: "invalid decision kind: " + kind}
	}
	var decisions []models.Decision
	err := s.db.
		Joins("JOIN papers ON papers.paper_id = decisions.paper_id").
		Where("papers.conference_id = ? AND decisions.decision = ?", conferenceID, kind).
		Order("decisions.decided_at DESC").
		Find(&decisions).Error
	return decisions, err
}

// SetConditional stores the requirement text on a conditional accept.
func (s *DecisionService) SetConditional(decisionID int, conditions string) (*models.Decision, error) {
	decision, err := s.Get(decisionID)
	if err != nil {
		return nil, err
	}
	if decision.Decision != models.DecisionConditionalAccept {
		return nil, &ValidationError{Message: "conditions apply only to conditional accept decisions"}
	}

	now := time.Now()
	decision.Conditions = &conditions
	decision.UpdateAt = &now
	if err := s.db.Save(decision).Error; err != nil {
		return nil, err
	}
	return decision, nil
}

// VerifyConditions marks a conditional accept's conditions as met.
// Idempotent: re-verifying refreshes the verifier and timestamp.
func (s *DecisionService) VerifyConditions(decisionID, verifiedBy int) (*models.Decision, error) {
	decision, err := s.Get(decisionID)
	if err != nil {
		return nil, err
	}
	if decision.Decision != models.DecisionConditionalAccept {
		return nil, &ValidationError{Message: "only conditional accept decisions have conditions to verify"}
	}

	now := time.Now()
	decision.ConditionsMet = true
	decision.ConditionsVerifiedBy = &verifiedBy
	decision.ConditionsVerifiedAt = &now
	decision.UpdateAt = &now
	if err := s.db.Save(decision).Error; err != nil {
		return nil, err
	}
	return decision, nil
}

// MarkNotificationSent records that the external notifier dispatched the
// decision, with a dispatch id for tracing.
func (s *DecisionService) MarkNotificationSent(decisionID int, dispatchID string) (*models.Decision, error) {
	decision, err := s.Get(decisionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	decision.NotificationSent = true
	decision.NotificationSentAt = &now
	decision.NotificationID = &dispatchID
	decision.UpdateAt = &now
	if err := s.db.Save(decision).Error; err != nil {
		return nil, err
	}
	return decision, nil
}

// PendingCount counts the conference's papers that have no decision yet.
func (s *DecisionService) PendingCount(conferenceID int) (int, error) {
	var count int64
	err := s.db.Model(&models.Paper{}).
		Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		Where("NOT EXISTS (SELECT 1 FROM decisions WHERE decisions.paper_id = papers.paper_id)").
		Count(&count).Error
	return int(count), err
}

// DecisionReport is the conference-level outcome summary.
type DecisionReport struct {
	ConferenceID       int               `json:"conference_id"`
	TotalPapers        int               `json:"total_papers"`
	TotalDecisions     int               `json:"total_decisions"`
	PendingDecisions   int               `json:"pending_decisions"`
	Accepted           int               `json:"accepted"`
	ConditionalAccepts int               `json:"conditional_accepts"`
	Rejected           int               `json:"rejected"`
	DeskRejected       int               `json:"desk_rejected"`
	AcceptanceRate     float64           `json:"acceptance_rate"`
	Distribution       map[string]int    `json:"distribution"`
	Recent             []models.Decision `json:"recent"`
}

// Report aggregates decision counts, acceptance rate (accept plus
// conditional accept over all decisions) and a recent-decision timeline.
// Pure read over existing rows.
func (s *DecisionService) Report(conferenceID int) (*DecisionReport, error) {
	decisions, err := s.ListByConference(conferenceID)
	if err != nil {
		return nil, err
	}

	var totalPapers int64
	err = s.db.Model(&models.Paper{}).
		Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		Count(&totalPapers).Error
	if err != nil {
		return nil, err
	}

	report := &DecisionReport{
		ConferenceID:   conferenceID,
		TotalPapers:    int(totalPapers),
		TotalDecisions: len(decisions),
		Distribution:   map[string]int{},
	}
	report.PendingDecisions, err = s.PendingCount(conferenceID)
	if err != nil {
		return nil, err
	}

	for _, decision := range decisions {
		report.Distribution[decision.Decision]++
	}
	report.Accepted = report.Distribution[models.DecisionAccept]
	report.ConditionalAccepts = report.Distribution[models.DecisionConditionalAccept]
	report.Rejected = report.Distribution[models.DecisionReject]
	report.DeskRejected = report.Distribution[models.DecisionDeskReject]

	if len(decisions) > 0 {
		report.AcceptanceRate = round2(float64(report.Accepted+report.ConditionalAccepts) / float64(len(decisions)) * 100)
		limit := 10
		if len(decisions) < limit {
			limit = len(decisions)
		}
		report.Recent = decisions[:limit]
	}
	return report, nil
}
