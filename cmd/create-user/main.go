package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/insightflow/insightflow-backend/internal/config"
	"github.com/insightflow/insightflow-backend/internal/database"
	"github.com/insightflow/insightflow-backend/internal/logger"
	"github.com/insightflow/insightflow-backend/internal/model"
	"github.com/insightflow/insightflow-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	profileRepo := repository.NewProfileRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Account ===")

	// Display name
	fmt.Print("Enter Display Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	// Role
	fmt.Print("Enter Role (user/admin, default user): ")
	roleStr, _ := reader.ReadString('\n')
	roleStr = strings.TrimSpace(roleStr)
	role := model.RoleUser
	if roleStr != "" {
		switch model.ProfileRole(roleStr) {
		case model.RoleUser, model.RoleAdmin:
			role = model.ProfileRole(roleStr)
		default:
			fmt.Println("Error: Role must be user or admin")
			return
		}
	}

	// ─── Logic ─────────────────────────────────────────────────────────

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	profile := &model.Profile{
		Email:            email,
		DisplayName:      name,
		SubscriptionPlan: model.PlanFree,
		Role:             role,
		PasswordHash:     string(hashedPassword),
	}

	if err := profileRepo.Create(ctx, profile); err != nil {
		log.Fatal().Err(err).Msg("Failed to create account")
	}

	fmt.Printf("\nSuccess! Account '%s' (%s) created with ID: %s\n", profile.DisplayName, profile.Email, profile.ID)
}
