package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attenda/attenda-backend/internal/config"
	"github.com/attenda/attenda-backend/internal/database"
	"github.com/attenda/attenda-backend/internal/logger"
	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const seedClassName = "Class A"

type seedUser struct {
	name     string
	email    string
	password string
	role     model.RoleName
}

type seeder struct {
	users    *repository.UserRepository
	classes  *repository.ClassRepository
	subjects *repository.SubjectRepository
	auth     *service.AuthService
	roles    map[model.RoleName]model.Role
	log      zerolog.Logger
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat).With().Str("component", "seed").Logger()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	roles, err := repository.NewRoleRepository(pool).Ensure(ctx, model.RoleAdmin, model.RoleTeacher, model.RoleStudent)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed roles")
	}

	s := &seeder{
		users:    userRepo,
		classes:  repository.NewClassRepository(pool),
		subjects: repository.NewSubjectRepository(pool),
		auth:     service.NewAuthService(cfg, userRepo),
		roles:    roles,
		log:      log,
	}

	fmt.Println("=== Seeding Attenda ===")

	teacher := s.user(ctx, seedUser{"Teacher User", "teacher@example.com", "teacher123", model.RoleTeacher}, nil)
	class := s.class(ctx, teacher.ID)
	s.subject(ctx, class.ID, "Math")
	s.user(ctx, seedUser{"Admin User", "admin@example.com", "admin123", model.RoleAdmin}, nil)
	s.user(ctx, seedUser{"Student User", "student@example.com", "student123", model.RoleStudent}, &class.ID)

	fmt.Println("\nSeeded roles, class, admin, teacher, and student users!")
}

// user returns the existing account for su.email or creates it.
func (s *seeder) user(ctx context.Context, su seedUser, classID *int) *model.User {
	existing, err := s.users.GetByEmail(ctx, su.email)
	if err == nil {
		fmt.Printf("Found %s %s (ID %d)\n", su.role, su.email, existing.ID)
		return existing
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		s.log.Fatal().Err(err).Str("email", su.email).Msg("Failed to look up user")
	}

	hash, err := s.auth.HashPassword(su.password)
	if err != nil {
		s.log.Fatal().Err(err).Msg("Failed to hash password")
	}
	u := &model.User{
		Name:         su.name,
		Email:        su.email,
		PasswordHash: hash,
		RoleID:       s.roles[su.role].ID,
		Role:         su.role,
		ClassID:      classID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		s.log.Fatal().Err(err).Str("email", su.email).Msg("Failed to create user")
	}
	fmt.Printf("Created %s %s (ID %d)\n", su.role, su.email, u.ID)
	return u
}

func (s *seeder) class(ctx context.Context, teacherID int) *model.Class {
	all, err := s.classes.List(ctx)
	if err != nil {
		s.log.Fatal().Err(err).Msg("Failed to list classes")
	}
	for i := range all {
		if all[i].Name == seedClassName {
			fmt.Printf("Found class %q (ID %d)\n", seedClassName, all[i].ID)
			return &all[i]
		}
	}

	c := &model.Class{Name: seedClassName, TeacherID: &teacherID}
	if _, err := s.classes.Create(ctx, c, ""); err != nil {
		s.log.Fatal().Err(err).Msg("Failed to create class")
	}
	fmt.Printf("Created class %q (ID %d)\n", seedClassName, c.ID)
	return c
}

func (s *seeder) subject(ctx context.Context, classID int, name string) {
	existing, err := s.subjects.List(ctx, &classID)
	if err != nil {
		s.log.Fatal().Err(err).Msg("Failed to list subjects")
	}
	for _, sub := range existing {
		if sub.Name == name {
			fmt.Printf("Found subject %q (ID %d)\n", name, sub.ID)
			return
		}
	}

	sub := &model.Subject{Name: name, ClassID: classID}
	if err := s.subjects.Create(ctx, sub); err != nil {
		s.log.Fatal().Err(err).Msg("Failed to create subject")
	}
	fmt.Printf("Created subject %q (ID %d)\n", name, sub.ID)
}
