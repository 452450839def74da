package model

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinInstructionsLength = 50
	MaxTitleLength        = 255
	MaxMinutes            = math.MaxInt32
)

// Recipe represents a recipe in the database. Owner is populated by queries that
// join the users table.
type Recipe struct {
	ID                int64
	UserID            int64
	Title             string
	Instructions      string
	MinutesToComplete int
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Owner *User
}

// NewRecipe validates the fields and builds a recipe owned by userID.
// Title is checked before instructions, then minutes.
func NewRecipe(userID int64, title, instructions string, minutes *int) (*Recipe, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateInstructions(instructions); err != nil {
		return nil, err
	}
	if err := ValidateMinutes(minutes); err != nil {
		return nil, err
	}

	return &Recipe{
		UserID:            userID,
		Title:             title,
		Instructions:      instructions,
		MinutesToComplete: *minutes,
	}, nil
}

func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("title", "title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return invalid("title", fmt.Sprintf("title must be at most %d characters long", MaxTitleLength))
	}
	return nil
}

// ValidateInstructions counts characters, not bytes.
func ValidateInstructions(instructions string) error {
	if utf8.RuneCountInString(instructions) < MinInstructionsLength {
		return invalid("instructions", "instructions must be at least 50 characters long")
	}
	return nil
}

func ValidateMinutes(minutes *int) error {
	if minutes == nil {
		return invalid("minutes_to_complete", "minutes_to_complete is required")
	}
	if *minutes < 0 {
		return invalid("minutes_to_complete", "minutes_to_complete must not be negative")
	}
	if *minutes > MaxMinutes {
		return invalid("minutes_to_complete", fmt.Sprintf("minutes_to_complete must be at most %d", MaxMinutes))
	}
	return nil
}

// Response returns the full recipe projection with the owner nested.
func (r *Recipe) Response() RecipeResponse {
	resp := RecipeResponse{
		ID:                r.ID,
		Title:             r.Title,
		Instructions:      r.Instructions,
		MinutesToComplete: r.MinutesToComplete,
	}
	if r.Owner != nil {
		resp.User = r.Owner.Public()
	} else {
		resp.User = UserResponse{ID: r.UserID}
	}
	return resp
}

// CreateRecipeRequest represents a recipe creation request.
type CreateRecipeRequest struct {
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete *int   `json:"minutes_to_complete"`
}

// RecipeResponse represents a recipe with its owner's public projection.
type RecipeResponse struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Instructions      string       `json:"instructions"`
	MinutesToComplete int          `json:"minutes_to_complete"`
	User              UserResponse `json:"user"`
}
