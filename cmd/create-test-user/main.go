package main

import (
	"context"
	"fmt"
	"os"

	"pcosguard-backend/logger"
	"pcosguard-backend/models"
	"pcosguard-backend/repository"
	"pcosguard-backend/storage"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	store, err := storage.NewStorageFromEnv(ctx)
	if err != nil {
		log.Fatal("failed to initialize storage", "error", err)
	}
	defer store.Close()

	records := repository.NewRecordRepository(store, log)

	email := "test@example.com"
	name := "Test User"

	// Check if user already exists
	for _, u := range records.ListUsers(ctx) {
		if u.Email == email {
			log.Info("user already exists", "user_id", u.ID, "email", email)
			return
		}
	}

	user := models.User{
		ID:     "u_" + uuid.NewString(),
		Name:   name,
		Email:  email,
		Avatar: models.AvatarURL(name),
	}
	if err := records.SaveUser(ctx, user); err != nil {
		log.Fatal("failed to create user", "error", err)
	}

	// Sign the user in unless someone already is
	if records.GetCurrentUser(ctx) == nil {
		if err := records.SetCurrentUser(ctx, &user); err != nil {
			log.Fatal("failed to start session", "error", err)
		}
	}

	fmt.Printf("Test user created\n")
	fmt.Printf("   ID: %s\n", user.ID)
	fmt.Printf("   Email: %s\n", user.Email)
	fmt.Printf("   Name: %s\n", user.Name)
}
