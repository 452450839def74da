package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/recipebox/recipebox-go/internal/model"
)

const recipeSelect = `
	SELECT r.id, r.user_id, r.title, r.instructions, r.minutes_to_complete, r.created_at, r.updated_at,
		u.id, u.username, u.image_url, u.bio
	FROM recipes r
	JOIN users u ON u.id = r.user_id`

// RecipeRepository handles recipe persistence operations.
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new RecipeRepository.
func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create inserts the recipe and reads it back joined with its owner inside one
// transaction. On any error the transaction is rolled back and recipe is untouched.
// A user_id that no longer exists is reported as ErrUserNotFound.
func (r *RecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO recipes (user_id, title, instructions, minutes_to_complete) VALUES (?, ?, ?, ?)`,
		recipe.UserID, recipe.Title, recipe.Instructions, recipe.MinutesToComplete,
	)
	if err != nil {
		if isMissingReferenceError(err) {
			return ErrUserNotFound
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	stored, err := scanRecipe(tx.QueryRowContext(ctx, recipeSelect+` WHERE r.id = ?`, id))
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	*recipe = stored
	return nil
}

// ListByUser retrieves all recipes owned by a user, oldest first.
func (r *RecipeRepository) ListByUser(ctx context.Context, userID int64) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, recipeSelect+` WHERE r.user_id = ? ORDER BY r.id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}

	return recipes, rows.Err()
}

func scanRecipe(row rowScanner) (model.Recipe, error) {
	var rec model.Recipe
	owner := &model.User{}
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Title, &rec.Instructions, &rec.MinutesToComplete,
		&rec.CreatedAt, &rec.UpdatedAt,
		&owner.ID, &owner.Username, &owner.ImageURL, &owner.Bio,
	)
	if err != nil {
		return model.Recipe{}, err
	}
	rec.Owner = owner
	return rec, nil
}
