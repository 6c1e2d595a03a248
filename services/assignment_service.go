package services

import (
	"errors"
	"sort"
	"time"

	"conference-review-api/models"

	"gorm.io/gorm"
)

// AssignmentService allocates reviewers to papers while holding the quota
// invariant: a member's assigned_count never exceeds max_papers, and only
// moves inside the same transaction as its assignment row.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// Assign pairs a reviewer with a paper. The capacity check, the counter
// increment and the assignment insert run in one transaction so concurrent
// calls cannot over-commit a reviewer.
func (s *AssignmentService) Assign(paperID, pcMemberID, assignedBy int, method string) (*models.Assignment, error) {
	if method == "" {
		method = models.AssignManual
	}

	var assignment *models.Assignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		created, err := assignInTx(tx, paperID, pcMemberID, assignedBy, method)
		if err != nil {
			return err
		}
		assignment = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func assignInTx(tx *gorm.DB, paperID, pcMemberID, assignedBy int, method string) (*models.Assignment, error) {
	var member models.PCMember
	if err := tx.First(&member, "pc_member_id = ?", pcMemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "pc member", ID: pcMemberID}
		}
		return nil, err
	}

	hasConflict, err := NewConflictService(tx).Check(pcMemberID, paperID, time.Now())
	if err != nil {
		return nil, err
	}
	if hasConflict {
		return nil, &ConflictError{Message: "cannot assign reviewer due to conflict of interest"}
	}

	var count int64
	err = tx.Model(&models.Assignment{}).
		Where("paper_id = ? AND pc_member_id = ?", paperID, pcMemberID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: "member is already assigned to review this paper"}
	}

	// Guarded increment: zero rows means the member is at quota (or was
	// pushed there by a concurrent assign).
	result := tx.Model(&models.PCMember{}).
		Where("pc_member_id = ? AND assigned_count < max_papers", pcMemberID).
		UpdateColumns(map[string]interface{}{
			"assigned_count": gorm.Expr("assigned_count + 1"),
			"update_at":      time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, &QuotaExceededError{PCMemberID: pcMemberID}
	}

	now := time.Now()
	assignment := models.Assignment{
		PaperID:    paperID,
		PCMemberID: pcMemberID,
		AssignedBy: assignedBy,
		Method:     method,
		Status:     models.AssignmentPending,
		AssignedAt: now,
		CreateAt:   &now,
		UpdateAt:   &now,
	}
	if err := tx.Create(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "member is already assigned to review this paper"}
		}
		return nil, err
	}
	return &assignment, nil
}

// Unassign removes an assignment and returns the member's counter to its
// prior value, floored at zero, in one transaction.
func (s *AssignmentService) Unassign(assignmentID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var assignment models.Assignment
		if err := tx.First(&assignment, "assignment_id = ?", assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "assignment", ID: assignmentID}
			}
			return err
		}

		if err := tx.Delete(&models.Assignment{}, "assignment_id = ?", assignmentID).Error; err != nil {
			return err
		}

		return tx.Model(&models.PCMember{}).
			Where("pc_member_id = ? AND assigned_count > 0", assignment.PCMemberID).
			UpdateColumns(map[string]interface{}{
				"assigned_count": gorm.Expr("assigned_count - 1"),
				"update_at":      time.Now(),
			}).Error
	})
}

// Get returns an assignment by id.
func (s *AssignmentService) Get(assignmentID int) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := s.db.First(&assignment, "assignment_id = ?", assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "assignment", ID: assignmentID}
		}
		return nil, err
	}
	return &assignment, nil
}

// ListByPaper returns a paper's assignments.
func (s *AssignmentService) ListByPaper(paperID int) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := s.db.Where("paper_id = ?", paperID).Order("assignment_id").Find(&assignments).Error
	return assignments, err
}

// ListByMember returns a member's assignments.
func (s *AssignmentService) ListByMember(pcMemberID int) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := s.db.Where("pc_member_id = ?", pcMemberID).Order("assignment_id").Find(&assignments).Error
	return assignments, err
}

// PaperReviewerCount returns the number of reviewers assigned to a paper.
func (s *AssignmentService) PaperReviewerCount(paperID int) (int, error) {
	var count int64
	err := s.db.Model(&models.Assignment{}).Where("paper_id = ?", paperID).Count(&count).Error
	return int(count), err
}

// AutoAssign selects eligible reviewers for a paper and assigns the first
// `count` of them, all inside one transaction. Eligible means active in the
// paper's conference, no conflict in effect, and capacity remaining. With
// preferSenior, senior roles come first; workload ascending breaks ties so
// the least busy of equally senior reviewers is picked.
//
// The call is all-or-nothing: if fewer than count candidates survive
// filtering, or any individual assign fails its own re-validation, nothing
// is committed.
func (s *AssignmentService) AutoAssign(paperID, count int, preferSenior bool, assignedBy int) ([]models.Assignment, error) {
	if count < 1 || count > 10 {
		return nil, &ValidationError{Message: "number of reviewers must be between 1 and 10"}
	}

	var assignments []models.Assignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var paper models.Paper
		if err := tx.First(&paper, "paper_id = ?", paperID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "paper", ID: paperID}
			}
			return err
		}

		var members []models.PCMember
		err := tx.Where("conference_id = ? AND is_active = ?", paper.ConferenceID, true).
			Find(&members).Error
		if err != nil {
			return err
		}

		conflicts := NewConflictService(tx)
		now := time.Now()
		available := make([]models.PCMember, 0, len(members))
		for _, member := range members {
			if member.AvailableCapacity() <= 0 {
				continue
			}
			hasConflict, err := conflicts.Check(member.PCMemberID, paperID, now)
			if err != nil {
				return err
			}
			if !hasConflict {
				available = append(available, member)
			}
		}

		sort.SliceStable(available, func(i, j int) bool {
			if preferSenior {
				ri, rj := models.SeniorityRank(available[i].Role), models.SeniorityRank(available[j].Role)
				if ri != rj {
					return ri < rj
				}
			}
			return available[i].AssignedCount < available[j].AssignedCount
		})

		if len(available) < count {
			return &InsufficientReviewersError{Needed: count, Found: len(available)}
		}

		for _, member := range available[:count] {
			created, err := assignInTx(tx, paperID, member.PCMemberID, assignedBy, models.AssignAutomatic)
			if err != nil {
				return err
			}
			assignments = append(assignments, *created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// MemberLoad reports a member's review workload.
type MemberLoad struct {
	PCMemberID        int     `json:"pc_member_id"`
	MaxPapers         int     `json:"max_papers"`
	AssignedCount     int     `json:"assigned_count"`
	AvailableCapacity int     `json:"available_capacity"`
	CompletedReviews  int     `json:"completed_reviews"`
	PendingReviews    int     `json:"pending_reviews"`
	ReviewPercentage  float64 `json:"review_percentage"`
}

// Load computes the member's current workload. Pure read, no side effects.
func (s *AssignmentService) Load(pcMemberID int) (*MemberLoad, error) {
	var member models.PCMember
	if err := s.db.First(&member, "pc_member_id = ?", pcMemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "pc member", ID: pcMemberID}
		}
		return nil, err
	}

	assignments, err := s.ListByMember(pcMemberID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, assignment := range assignments {
		if assignment.Status == models.AssignmentCompleted {
			completed++
		}
	}

	load := &MemberLoad{
		PCMemberID:        pcMemberID,
		MaxPapers:         member.MaxPapers,
		AssignedCount:     member.AssignedCount,
		AvailableCapacity: member.AvailableCapacity(),
		CompletedReviews:  completed,
		PendingReviews:    len(assignments) - completed,
	}
	if len(assignments) > 0 {
		load.ReviewPercentage = round2(float64(completed) / float64(len(assignments)) * 100)
	}
	return load, nil
}

// AssignmentStatistics is the conference-wide workload picture.
type AssignmentStatistics struct {
	ConferenceID             int         `json:"conference_id"`
	TotalAssignments         int         `json:"total_assignments"`
	TotalReviewers           int         `json:"total_reviewers"`
	ReviewersWithAssignments int         `json:"reviewers_with_assignments"`
	AverageWorkload          float64     `json:"average_workload"`
	MaxWorkload              int         `json:"max_workload"`
	MinWorkload              int         `json:"min_workload"`
	WorkloadDistribution     map[int]int `json:"workload_distribution"`
}

// Statistics computes assignment distribution for a conference. Pure read.
func (s *AssignmentService) Statistics(conferenceID int) (*AssignmentStatistics, error) {
	var totalReviewers int64
	err := s.db.Model(&models.PCMember{}).
		Where("conference_id = ?", conferenceID).
		Count(&totalReviewers).Error
	if err != nil {
		return nil, err
	}

	var assignments []models.Assignment
	err = s.db.
		Joins("JOIN papers ON papers.paper_id = paper_assignments.paper_id").
		Where("papers.conference_id = ?", conferenceID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	stats := &AssignmentStatistics{
		ConferenceID:         conferenceID,
		TotalAssignments:     len(assignments),
		TotalReviewers:       int(totalReviewers),
		WorkloadDistribution: map[int]int{},
	}
	if len(assignments) == 0 {
		return stats, nil
	}

	for _, assignment := range assignments {
		stats.WorkloadDistribution[assignment.PCMemberID]++
	}
	stats.ReviewersWithAssignments = len(stats.WorkloadDistribution)

	total := 0
	first := true
	for _, workload := range stats.WorkloadDistribution {
		total += workload
		if first || workload > stats.MaxWorkload {
			stats.MaxWorkload = workload
		}
		if first || workload < stats.MinWorkload {
			stats.MinWorkload = workload
		}
		first = false
	}
	stats.AverageWorkload = round2(float64(total) / float64(len(stats.WorkloadDistribution)))
	return stats, nil
}
