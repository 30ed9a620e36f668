package service

import (
	"context"
	"strings"

	"github.com/attenda/attenda-backend/internal/model"
)

// ClassService handles class business logic.
type ClassService struct {
	classes  ClassStore
	activity *ActivityService
}

// NewClassService creates a new ClassService.
func NewClassService(classes ClassStore, activity *ActivityService) *ClassService {
	return &ClassService{classes: classes, activity: activity}
}

// List retrieves all classes with teacher names.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	return s.classes.List(ctx)
}

// Create creates a class and its optional first subject atomically.
func (s *ClassService) Create(ctx context.Context, req *model.CreateClassRequest) (*model.CreateClassResponse, error) {
	class := &model.Class{Name: strings.TrimSpace(req.Name), TeacherID: req.TeacherID}
	subject, err := s.classes.Create(ctx, class, strings.TrimSpace(req.Subject))
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, nil, model.ActionClassCreated, map[string]any{"classId": class.ID, "name": class.Name})
	return &model.CreateClassResponse{Class: *class, Subject: subject}, nil
}

// Update applies a partial update. A present-but-null teacherId clears the teacher.
func (s *ClassService) Update(ctx context.Context, id int, req *model.UpdateClassRequest) (*model.Class, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		class.Name = strings.TrimSpace(*req.Name)
	}
	if req.TeacherID.Set {
		class.TeacherID = req.TeacherID.Value
	}

	if err := s.classes.Update(ctx, class); err != nil {
		return nil, err
	}
	return s.classes.GetByID(ctx, id)
}

// Delete removes a class. Unknown ids surface as pgx.ErrNoRows.
func (s *ClassService) Delete(ctx context.Context, id int) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, nil, model.ActionClassDeleted, map[string]any{"classId": id})
	return nil
}
