package models

import "time"

// Bid preference values.
const (
	BidConflict   = -2
	BidNotWilling = -1
	BidNeutral    = 0
	BidWilling    = 1
	BidEager      = 2
)

// Bid is a PC member's stated willingness to review a paper, one per
// (member, paper) pair, collected during the bidding phase.
type Bid struct {
	BidID      int `gorm:"primaryKey;column:bid_id" json:"bid_id"`
	PCMemberID int `gorm:"column:pc_member_id;uniqueIndex:uq_bid_member_paper" json:"pc_member_id"`
	PaperID    int `gorm:"column:paper_id;uniqueIndex:uq_bid_member_paper" json:"paper_id"`

	BidValue int `gorm:"column:bid_value;default:0" json:"bid_value"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	PCMember PCMember `gorm:"foreignKey:PCMemberID" json:"pc_member,omitempty"`
	Paper    Paper    `gorm:"foreignKey:PaperID" json:"paper,omitempty"`
}

// ValidBidValue reports whether v is on the five-point bidding scale.
func ValidBidValue(v int) bool {
	return v >= BidConflict && v <= BidEager
}

func (Bid) TableName() string {
	return "bids"
}
