package service

import (
	"context"
	"errors"

	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/repository"
)

// RecipeStore persists recipes. Create fills in the ID and Owner of the recipe it is
// given and reports a missing owner as repository.ErrUserNotFound.
type RecipeStore interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	ListByUser(ctx context.Context, userID int64) ([]model.Recipe, error)
}

// RecipeService handles recipe business logic.
type RecipeService struct {
	recipes RecipeStore
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(recipes RecipeStore) *RecipeService {
	return &RecipeService{recipes: recipes}
}

// Create validates the request and stores a recipe owned by userID. Invalid input
// is returned as *model.ValidationError before anything is written.
func (s *RecipeService) Create(ctx context.Context, userID int64, req model.CreateRecipeRequest) (model.RecipeResponse, error) {
	recipe, err := model.NewRecipe(userID, req.Title, req.Instructions, req.MinutesToComplete)
	if err != nil {
		return model.RecipeResponse{}, err
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.RecipeResponse{}, ErrUserNotFound
		}
		return model.RecipeResponse{}, err
	}

	return recipe.Response(), nil
}

// List returns every recipe owned by userID.
func (s *RecipeService) List(ctx context.Context, userID int64) ([]model.RecipeResponse, error) {
	recipes, err := s.recipes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return recipesToResponse(recipes), nil
}

// recipesToResponse converts recipes to their projections; the result is never nil.
func recipesToResponse(recipes []model.Recipe) []model.RecipeResponse {
	result := make([]model.RecipeResponse, len(recipes))
	for i := range recipes {
		result[i] = recipes[i].Response()
	}
	return result
}
