package models

import "time"

// How an assignment was created.
const (
	AssignManual    = "manual"
	AssignAutomatic = "automatic"
	AssignBidding   = "bidding"
)

// Reviewer response to an assignment.
const (
	AssignmentPending   = "pending"
	AssignmentAccepted  = "accepted"
	AssignmentDeclined  = "declined"
	AssignmentCompleted = "completed"
)

// Assignment pairs a reviewer with a paper. Creating one increments the
// member's assigned_count in the same transaction; removing one decrements
// it. A member can hold at most one assignment per paper.
type Assignment struct {
	AssignmentID int `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	PaperID      int `gorm:"column:paper_id;uniqueIndex:uq_assignment_paper_member" json:"paper_id"`
	PCMemberID   int `gorm:"column:pc_member_id;uniqueIndex:uq_assignment_paper_member" json:"pc_member_id"`

	AssignedBy int    `gorm:"column:assigned_by" json:"assigned_by"`
	Method     string `gorm:"column:method;default:manual" json:"method"`
	Status     string `gorm:"column:status;default:pending" json:"status"`

	AssignedAt  time.Time  `gorm:"column:assigned_at" json:"assigned_at"`
	RespondedAt *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Paper    Paper    `gorm:"foreignKey:PaperID" json:"paper,omitempty"`
	PCMember PCMember `gorm:"foreignKey:PCMemberID" json:"pc_member,omitempty"`
}

func (Assignment) TableName() string {
	return "paper_assignments"
}
