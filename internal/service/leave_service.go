package service

import (
	"context"
	"strings"

	"github.com/attenda/attenda-backend/internal/model"
)

// LeaveService manages student leave requests.
type LeaveService struct {
	leaves   LeaveStore
	users    UserStore
	activity *ActivityService
}

// NewLeaveService creates a new LeaveService.
func NewLeaveService(leaves LeaveStore, users UserStore, activity *ActivityService) *LeaveService {
	return &LeaveService{leaves: leaves, users: users, activity: activity}
}

func (s *LeaveService) requireStudent(ctx context.Context, id int) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.HasRole(model.RoleStudent) {
		return ErrWrongRole
	}
	return nil
}

// Create files a pending request for a student.
func (s *LeaveService) Create(ctx context.Context, studentID int, req *model.CreateLeaveRequest) (*model.LeaveRequest, error) {
	from, err := ParseDate(req.FromDate)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(req.ToDate)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}

	l := &model.LeaveRequest{
		StudentID: studentID,
		FromDate:  from,
		ToDate:    to,
		Reason:    strings.TrimSpace(req.Reason),
	}
	if err := s.leaves.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListForStudent returns one student's requests.
func (s *LeaveService) ListForStudent(ctx context.Context, studentID int) ([]model.LeaveRequest, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.leaves.ListByStudent(ctx, studentID)
}

// List returns all requests, optionally filtered by status.
func (s *LeaveService) List(ctx context.Context, status model.LeaveStatus) ([]model.LeaveRequest, error) {
	return s.leaves.List(ctx, status)
}

// Review approves or rejects a request.
func (s *LeaveService) Review(ctx context.Context, id int, req *model.ReviewLeaveRequest) (*model.LeaveRequest, error) {
	l, err := s.leaves.Review(ctx, id, req.Status, req.ReviewedByID)
	if err != nil {
		return nil, err
	}
	reviewer := req.ReviewedByID
	s.activity.Record(ctx, &reviewer, model.ActionLeaveReviewed, map[string]any{
		"leaveRequestId": id,
		"status":         string(req.Status),
	})
	return l, nil
}
