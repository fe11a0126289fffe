package model

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionPlan enumerates account tiers.
type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "free"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

// ProfileRole distinguishes regular accounts from platform admins.
type ProfileRole string

const (
	RoleUser  ProfileRole = "user"
	RoleAdmin ProfileRole = "admin"
)

// Profile is an authenticated account.
type Profile struct {
	ID               uuid.UUID        `json:"id"`
	Email            string           `json:"email"`
	DisplayName      string           `json:"display_name,omitempty"`
	SubscriptionPlan SubscriptionPlan `json:"subscription_plan"`
	Role             ProfileRole      `json:"role"`
	PasswordHash     string           `json:"-"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"omitempty,max=255"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the admin payload for changing plan or role.
type UpdateProfileRequest struct {
	DisplayName      *string           `json:"display_name" binding:"omitempty,max=255"`
	SubscriptionPlan *SubscriptionPlan `json:"subscription_plan" binding:"omitempty,oneof=free pro enterprise"`
	Role             *ProfileRole      `json:"role" binding:"omitempty,oneof=user admin"`
}
