package model

import (
	"time"

	"github.com/google/uuid"
)

// Project groups questionnaires under one owner.
type Project struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FreePlanProjectLimit caps how many projects a free-plan account may own.
const FreePlanProjectLimit = 3

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateProjectRequest is the payload for renaming/redescribing a project.
type UpdateProjectRequest struct {
	Name        string  `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}
