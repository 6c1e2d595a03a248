package models

import "time"

// Conflict kinds.
const (
	ConflictCoAuthor        = "co_author"
	ConflictSameInstitution = "same_institution"
	ConflictAdvisorAdvisee  = "advisor_advisee"
	ConflictCollaborator    = "collaborator"
	ConflictPersonal        = "personal"
	ConflictFinancial       = "financial"
	ConflictOther           = "other"
)

// Who recorded the conflict.
const (
	DeclaredBySelf   = "self"
	DeclaredByChair  = "chair"
	DeclaredBySystem = "system"
)

// Conflict is a declared conflict of interest between a PC member and a
// paper and/or author. Rows are never hard-deleted; deactivation clears
// is_active and keeps the row for audit.
type Conflict struct {
	ConflictID int `gorm:"primaryKey;column:conflict_id" json:"conflict_id"`
	PCMemberID int `gorm:"column:pc_member_id;index" json:"pc_member_id"`

	// At least one target is required.
	PaperID      *int `gorm:"column:paper_id;index" json:"paper_id,omitempty"`
	AuthorUserID *int `gorm:"column:author_user_id;index" json:"author_user_id,omitempty"`

	ConflictType string  `gorm:"column:conflict_type" json:"conflict_type"`
	Description  *string `gorm:"column:description" json:"description,omitempty"`
	DeclaredBy   string  `gorm:"column:declared_by;default:self" json:"declared_by"`

	// Optional validity window [start, end). Collaborator conflicts expire.
	ConflictStartDate *time.Time `gorm:"column:conflict_start_date" json:"conflict_start_date,omitempty"`
	ConflictEndDate   *time.Time `gorm:"column:conflict_end_date" json:"conflict_end_date,omitempty"`

	IsActive   bool       `gorm:"column:is_active;default:true" json:"is_active"`
	VerifiedBy *int       `gorm:"column:verified_by" json:"verified_by,omitempty"`
	VerifiedAt *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	PCMember PCMember `gorm:"foreignKey:PCMemberID" json:"pc_member,omitempty"`
}

// InEffect reports whether the conflict blocks the pair at the given time:
// it must be active and, when a validity window is set, now must fall
// inside [start, end).
func (c *Conflict) InEffect(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ConflictStartDate != nil && now.Before(*c.ConflictStartDate) {
		return false
	}
	if c.ConflictEndDate != nil && !now.Before(*c.ConflictEndDate) {
		return false
	}
	return true
}

func (Conflict) TableName() string {
	return "conflicts_of_interest"
}
