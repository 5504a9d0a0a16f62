package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/auth"
	"taskmanager/internal/db/dbtest"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

func TestSeedDemo_Idempotent(t *testing.T) {
	gormDB := dbtest.New(t)
	jwtService, err := auth.NewJWTService("seed-secret", "HS256", time.Minute)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, jwtService)
	taskService := service.NewTaskService(repository.NewTaskRepository(gormDB))
	seed := seedConfig{Name: "Demo", Username: "demo", Email: "demo@example.com", Password: "pw"}
	ctx := context.Background()

	created, err := seedDemo(ctx, seed, userRepo, authService, taskService)
	require.NoError(t, err)
	assert.Equal(t, sampleTaskCount, created)

	created, err = seedDemo(ctx, seed, userRepo, authService, taskService)
	require.NoError(t, err)
	assert.Zero(t, created)

	user, err := userRepo.FindByUsername(ctx, "demo")
	require.NoError(t, err)
	tasks, err := taskService.ListTasks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tasks, sampleTaskCount)
	assert.Equal(t, "Task 1", tasks[0].Name)
	assert.Equal(t, "Description 4", *tasks[3].Description)

	_, err = authService.Login(ctx, "demo", "pw")
	assert.NoError(t, err)
}

func TestSeedDemo_EmailTakenByAnotherUser(t *testing.T) {
	gormDB := dbtest.New(t)
	jwtService, err := auth.NewJWTService("seed-secret", "HS256", time.Minute)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, jwtService)
	taskService := service.NewTaskService(repository.NewTaskRepository(gormDB))
	ctx := context.Background()

	_, err = authService.Register(ctx, service.RegisterInput{Name: "X", Username: "someone", Email: "demo@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = seedDemo(ctx, seedConfig{Username: "demo", Email: "demo@example.com", Password: "pw"}, userRepo, authService, taskService)
	assert.Error(t, err)
}
