package models

import "time"

// Conference is the tenant unit the engine operates within. Full conference
// administration lives outside this service; only the fields the assignment
// and decision engine reads are mapped here.
type Conference struct {
	ConferenceID int        `gorm:"primaryKey;column:conference_id" json:"conference_id"`
	Name         string     `gorm:"column:name" json:"name"`
	Acronym      string     `gorm:"column:acronym" json:"acronym"`
	IsActive     bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Paper is the submission under review. Submission CRUD and file handling
// are external; the engine needs the id, owning conference and title.
type Paper struct {
	PaperID      int        `gorm:"primaryKey;column:paper_id" json:"paper_id"`
	ConferenceID int        `gorm:"column:conference_id" json:"conference_id"`
	TrackID      *int       `gorm:"column:track_id" json:"track_id,omitempty"`
	Title        string     `gorm:"column:title" json:"title"`
	Status       string     `gorm:"column:status" json:"status"`
	SubmittedAt  *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Conference Conference    `gorm:"foreignKey:ConferenceID" json:"conference,omitempty"`
	Authors    []PaperAuthor `gorm:"foreignKey:PaperID" json:"authors,omitempty"`
}

// PaperAuthor links a paper to its author users. Author-targeted conflicts
// are resolved through this table.
type PaperAuthor struct {
	PaperAuthorID int    `gorm:"primaryKey;column:paper_author_id" json:"paper_author_id"`
	PaperID       int    `gorm:"column:paper_id" json:"paper_id"`
	UserID        int    `gorm:"column:user_id" json:"user_id"`
	AuthorOrder   int    `gorm:"column:author_order" json:"author_order"`
	IsCorrespond  bool   `gorm:"column:is_corresponding" json:"is_corresponding"`
	Affiliation   string `gorm:"column:affiliation" json:"affiliation"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName overrides
func (Conference) TableName() string {
	return "conferences"
}

func (Paper) TableName() string {
	return "papers"
}

func (PaperAuthor) TableName() string {
	return "paper_authors"
}
