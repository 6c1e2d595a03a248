package models

import "time"

// Review recommendation labels. Aggregation classifies a label as
// accept-leaning or reject-leaning by substring, so the exact set is open.
const (
	RecStrongAccept = "strong_accept"
	RecAccept       = "accept"
	RecWeakAccept   = "weak_accept"
	RecBorderline   = "borderline"
	RecWeakReject   = "weak_reject"
	RecReject       = "reject"
	RecStrongReject = "strong_reject"
)

// Review holds one reviewer's evaluation of a paper. Scores are 1-10,
// confidence 1-5. A review counts as completed once overall_score is set;
// only completed reviews feed aggregation.
type Review struct {
	ReviewID     int `gorm:"primaryKey;column:review_id" json:"review_id"`
	AssignmentID int `gorm:"column:assignment_id;index" json:"assignment_id"`
	PaperID      int `gorm:"column:paper_id;index" json:"paper_id"`
	PCMemberID   int `gorm:"column:pc_member_id;index" json:"pc_member_id"`

	OverallScore          *int `gorm:"column:overall_score" json:"overall_score,omitempty"`
	Confidence            *int `gorm:"column:confidence" json:"confidence,omitempty"`
	OriginalityScore      *int `gorm:"column:originality_score" json:"originality_score,omitempty"`
	SignificanceScore     *int `gorm:"column:significance_score" json:"significance_score,omitempty"`
	TechnicalQualityScore *int `gorm:"column:technical_quality_score" json:"technical_quality_score,omitempty"`
	ClarityScore          *int `gorm:"column:clarity_score" json:"clarity_score,omitempty"`
	RelevanceScore        *int `gorm:"column:relevance_score" json:"relevance_score,omitempty"`

	Recommendation *string `gorm:"column:recommendation" json:"recommendation,omitempty"`

	Summary           *string `gorm:"column:summary" json:"summary,omitempty"`
	Strengths         *string `gorm:"column:strengths" json:"strengths,omitempty"`
	Weaknesses        *string `gorm:"column:weaknesses" json:"weaknesses,omitempty"`
	CommentsToAuthors *string `gorm:"column:comments_to_authors" json:"comments_to_authors,omitempty"`
	ConfidentialNotes *string `gorm:"column:confidential_notes" json:"-"`

	IsSubmitted bool       `gorm:"column:is_submitted;default:false" json:"is_submitted"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Assignment Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}

// IsCompleted reports whether the review participates in aggregation.
func (r *Review) IsCompleted() bool {
	return r.OverallScore != nil
}

func (Review) TableName() string {
	return "reviews"
}
