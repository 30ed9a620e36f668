package service

import (
	"context"
	"strings"

	"github.com/attenda/attenda-backend/internal/model"
)

// SubjectService handles subject business logic.
type SubjectService struct {
	subjects SubjectStore
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjects SubjectStore) *SubjectService {
	return &SubjectService{subjects: subjects}
}

func (s *SubjectService) List(ctx context.Context, classID *int) ([]model.Subject, error) {
	return s.subjects.List(ctx, classID)
}

func (s *SubjectService) Create(ctx context.Context, req *model.CreateSubjectRequest) (*model.Subject, error) {
	subject := &model.Subject{Name: strings.TrimSpace(req.Name), ClassID: req.ClassID}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Update(ctx context.Context, id int, req *model.UpdateSubjectRequest) (*model.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		subject.Name = strings.TrimSpace(*req.Name)
	}
	if req.ClassID != nil {
		subject.ClassID = *req.ClassID
	}
	if err := s.subjects.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Delete(ctx context.Context, id int) error {
	return s.subjects.Delete(ctx, id)
}
