package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"gorm.io/gorm"

	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/db"
	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

const sampleTaskCount = 4

// seedConfig describes the demo account.
type seedConfig struct {
	Name     string `env:"SEED_NAME" envDefault:"Demo User"`
	Username string `env:"SEED_USERNAME" envDefault:"demo"`
	Email    string `env:"SEED_EMAIL" envDefault:"demo@example.com"`
	Password string `env:"SEED_PASSWORD" envDefault:"demo-password"`
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	var seed seedConfig
	if err := env.Parse(&seed); err != nil {
		log.Fatalf("seed config: %v", err)
	}

	// Connect to database
	gormDB, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	jwtService, err := auth.NewJWTService(cfg.SecretKey, cfg.Algorithm, cfg.TokenTTL())
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}
	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, jwtService)
	taskService := service.NewTaskService(repository.NewTaskRepository(gormDB))

	created, err := seedDemo(context.Background(), seed, userRepo, authService, taskService)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - User: %s", seed.Username)
	log.Printf("  - New tasks created: %d", created)
}

// seedDemo makes sure the demo user exists and owns the sample tasks "Task 1".."Task 4".
// Running it again creates nothing new.
func seedDemo(
	ctx context.Context,
	seed seedConfig,
	userRepo repository.UserRepository,
	authService service.AuthService,
	taskService service.TaskService,
) (int, error) {
	user, err := authService.Register(ctx, service.RegisterInput{
		Name:     seed.Name,
		Username: seed.Username,
		Email:    seed.Email,
		Password: seed.Password,
	})
	if errors.Is(err, apperrors.ErrAlreadyRegistered) {
		user, err = userRepo.FindByUsername(ctx, seed.Username)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("email %s belongs to another user", seed.Email)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("demo user: %w", err)
	}

	existing, err := taskService.ListTasks(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("list tasks: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, task := range existing {
		have[task.Name] = true
	}

	created := 0
	for i := 1; i <= sampleTaskCount; i++ {
		name := fmt.Sprintf("Task %d", i)
		if have[name] {
			continue
		}
		description := fmt.Sprintf("Description %d", i)
		if _, err := taskService.CreateTask(ctx, user.ID, service.CreateTaskInput{
			Name:        name,
			Description: &description,
		}); err != nil {
			return created, fmt.Errorf("create %s: %w", name, err)
		}
		created++
	}
	return created, nil
}
