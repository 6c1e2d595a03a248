package models

import "time"

// PC member roles, most senior first in assignment ordering.
const (
	PCRoleSeniorPC     = "senior_pc"
	PCRoleTrackChair   = "track_chair"
	PCRoleProgramChair = "program_chair"
	PCRoleGeneralChair = "general_chair"
	PCRoleReviewer     = "reviewer"
)

// PCMember is a program committee membership for one conference. It carries
// the review quota state the assignment engine guards: assigned_count must
// never exceed max_papers.
type PCMember struct {
	PCMemberID   int  `gorm:"primaryKey;column:pc_member_id" json:"pc_member_id"`
	ConferenceID int  `gorm:"column:conference_id;index" json:"conference_id"`
	UserID       int  `gorm:"column:user_id;index" json:"user_id"`
	TrackID      *int `gorm:"column:track_id" json:"track_id,omitempty"` // nil = all tracks

	Role string `gorm:"column:role;default:reviewer" json:"role"`

	ExpertiseKeywords *string `gorm:"column:expertise_keywords" json:"expertise_keywords,omitempty"`

	MaxPapers     int `gorm:"column:max_papers;default:10" json:"max_papers"`
	AssignedCount int `gorm:"column:assigned_count;default:0" json:"assigned_count"`

	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Conference Conference `gorm:"foreignKey:ConferenceID" json:"conference,omitempty"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// AvailableCapacity returns how many more papers the member may take.
func (m *PCMember) AvailableCapacity() int {
	capacity := m.MaxPapers - m.AssignedCount
	if capacity < 0 {
		return 0
	}
	return capacity
}

// SeniorityRank orders roles for auto-assignment when senior reviewers are
// preferred. Lower rank is picked first; unknown roles sort last.
func SeniorityRank(role string) int {
	switch role {
	case PCRoleSeniorPC:
		return 0
	case PCRoleTrackChair:
		return 1
	case PCRoleProgramChair:
		return 2
	case PCRoleGeneralChair:
		return 3
	case PCRoleReviewer:
		return 4
	default:
		return 5
	}
}

func (PCMember) TableName() string {
	return "pc_members"
}
