package services

import (
	"errors"
	"time"

	"conference-review-api/models"

	"gorm.io/gorm"
)

// ConflictService is the registry of declared conflicts of interest. Both
// bidding and assignment call Check per candidate, so lookups stay narrow
// (indexed pair queries) and never mutate state.
type ConflictService struct {
	db *gorm.DB
}

func NewConflictService(db *gorm.DB) *ConflictService {
	return &ConflictService{db: db}
}

// DeclareConflictInput carries a new conflict declaration.
type DeclareConflictInput struct {
	PCMemberID   int
	PaperID      *int
	AuthorUserID *int
	ConflictType string
	Description  *string
	DeclaredBy   string
	StartDate    *time.Time
	EndDate      *time.Time
}

// Declare records a conflict. A declaration must target a paper, an author,
// or both.
func (s *ConflictService) Declare(input DeclareConflictInput) (*models.Conflict, error) {
	if input.PaperID == nil && input.AuthorUserID == nil {
		return nil, &ValidationError{Message: "conflict must target a paper or an author"}
	}
	if input.ConflictType == "" {
		return nil, &ValidationError{Message: "conflict type is required"}
	}

	var member models.PCMember
	if err := s.db.First(&member, "pc_member_id = ?", input.PCMemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "pc member", ID: input.PCMemberID}
		}
		return nil, err
	}

	declaredBy := input.DeclaredBy
	if declaredBy == "" {
		declaredBy = models.DeclaredBySelf
	}

	now := time.Now()
	conflict := models.Conflict{
		PCMemberID:        input.PCMemberID,
		PaperID:           input.PaperID,
		AuthorUserID:      input.AuthorUserID,
		ConflictType:      input.ConflictType,
		Description:       input.Description,
		DeclaredBy:        declaredBy,
		ConflictStartDate: input.StartDate,
		ConflictEndDate:   input.EndDate,
		IsActive:          true,
		CreateAt:          &now,
		UpdateAt:          &now,
	}
	if err := s.db.Create(&conflict).Error; err != nil {
		return nil, err
	}
	return &conflict, nil
}

// Check reports whether the member has a conflict in effect against the
// paper at the given time. Conflicts targeting the paper directly and
// conflicts targeting any of its authors both count.
func (s *ConflictService) Check(pcMemberID, paperID int, now time.Time) (bool, error) {
	conflict, err := s.findEffective(pcMemberID, paperID, now)
	if err != nil {
		return false, err
	}
	return conflict != nil, nil
}

// ConflictDetail explains a pair check, for chair-facing conflict screens.
type ConflictDetail struct {
	PCMemberID   int     `json:"pc_member_id"`
	PaperID      int     `json:"paper_id"`
	HasConflict  bool    `json:"has_conflict"`
	ConflictType *string `json:"conflict_type,omitempty"`
	Reason       *string `json:"reason,omitempty"`
}

// Detail returns the pair check together with the matched conflict's type
// and description.
func (s *ConflictService) Detail(pcMemberID, paperID int) (*ConflictDetail, error) {
	conflict, err := s.findEffective(pcMemberID, paperID, time.Now())
	if err != nil {
		return nil, err
	}

	detail := &ConflictDetail{PCMemberID: pcMemberID, PaperID: paperID}
	if conflict != nil {
		detail.HasConflict = true
		detail.ConflictType = &conflict.ConflictType
		detail.Reason = conflict.Description
	}
	return detail, nil
}

func (s *ConflictService) findEffective(pcMemberID, paperID int, now time.Time) (*models.Conflict, error) {
	var conflicts []models.Conflict
	err := s.db.
		Where("pc_member_id = ? AND is_active = ?", pcMemberID, true).
		Where("paper_id = ? OR author_user_id IN (?)",
			paperID,
			s.db.Model(&models.PaperAuthor{}).Select("user_id").Where("paper_id = ?", paperID),
		).
		Find(&conflicts).Error
	if err != nil {
		return nil, err
	}

	for i := range conflicts {
		if conflicts[i].InEffect(now) {
			return &conflicts[i], nil
		}
	}
	return nil, nil
}

// ListByMember returns the member's active conflicts.
func (s *ConflictService) ListByMember(pcMemberID int) ([]models.Conflict, error) {
	var conflicts []models.Conflict
	err := s.db.
		Where("pc_member_id = ? AND is_active = ?", pcMemberID, true).
		Order("create_at DESC").
		Find(&conflicts).Error
	return conflicts, err
}

// ListByPaper returns the active conflicts targeting a paper.
func (s *ConflictService) ListByPaper(paperID int) ([]models.Conflict, error) {
	var conflicts []models.Conflict
	err := s.db.
		Where("paper_id = ? AND is_active = ?", paperID, true).
		Order("create_at DESC").
		Find(&conflicts).Error
	return conflicts, err
}

// Deactivate soft-deletes a conflict. The row stays for audit.
func (s *ConflictService) Deactivate(conflictID int) error {
	result := s.db.Model(&models.Conflict{}).
		Where("conflict_id = ?", conflictID).
		Updates(map[string]interface{}{
			"is_active": false,
			"update_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "conflict", ID: conflictID}
	}
	return nil
}

// Verify stamps verification metadata on a declaration without touching
// its active flag.
func (s *ConflictService) Verify(conflictID, verifiedBy int) (*models.Conflict, error) {
	var conflict models.Conflict
	if err := s.db.First(&conflict, "conflict_id = ?", conflictID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "conflict", ID: conflictID}
		}
		return nil, err
	}

	now := time.Now()
	conflict.VerifiedBy = &verifiedBy
	conflict.VerifiedAt = &now
	conflict.UpdateAt = &now
	if err := s.db.Save(&conflict).Error; err != nil {
		return nil, err
	}
	return &conflict, nil
}
