package models

import "time"

// Decision kinds.
const (
	DecisionAccept            = "accept"
	DecisionConditionalAccept = "conditional_accept"
	DecisionReject            = "reject"
	DecisionDeskReject        = "desk_reject"
)

// Decision is the final outcome for a paper, at most one per paper. The
// avg_score/review_count pair is a snapshot taken at decision time; later
// review edits do not change it.
type Decision struct {
	DecisionID int `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	PaperID    int `gorm:"column:paper_id;uniqueIndex:uq_decision_paper" json:"paper_id"`

	Decision  string    `gorm:"column:decision" json:"decision"`
	DecidedBy int       `gorm:"column:decided_by" json:"decided_by"`
	DecidedAt time.Time `gorm:"column:decided_at" json:"decided_at"`

	// Review statistics frozen at decision time.
	AvgScore    *float64 `gorm:"column:avg_score" json:"avg_score,omitempty"`
	ReviewCount *int     `gorm:"column:review_count" json:"review_count,omitempty"`

	InternalNotes     *string `gorm:"column:internal_notes" json:"-"`
	MetaReview        *string `gorm:"column:meta_review" json:"meta_review,omitempty"`
	FeedbackToAuthors *string `gorm:"column:feedback_to_authors" json:"feedback_to_authors,omitempty"`

	// Conditional accept bookkeeping.
	Conditions           *string    `gorm:"column:conditions" json:"conditions,omitempty"`
	ConditionsMet        bool       `gorm:"column:conditions_met;default:false" json:"conditions_met"`
	ConditionsVerifiedBy *int       `gorm:"column:conditions_verified_by" json:"conditions_verified_by,omitempty"`
	ConditionsVerifiedAt *time.Time `gorm:"column:conditions_verified_at" json:"conditions_verified_at,omitempty"`

	// Notification bookkeeping; dispatch itself is external.
	NotificationSent   bool       `gorm:"column:notification_sent;default:false" json:"notification_sent"`
	NotificationSentAt *time.Time `gorm:"column:notification_sent_at" json:"notification_sent_at,omitempty"`
	NotificationID     *string    `gorm:"column:notification_id" json:"notification_id,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Paper Paper `gorm:"foreignKey:PaperID" json:"paper,omitempty"`
}

// ValidDecisionKind reports whether kind is one of the four decision states.
func ValidDecisionKind(kind string) bool {
	switch kind {
	case DecisionAccept, DecisionConditionalAccept, DecisionReject, DecisionDeskReject:
		return true
	}
	return false
}

func (Decision) TableName() string {
	return "decisions"
}
