package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/recipebox/recipebox-go/internal/model"
)

// MemoryDB is a process-local stand-in for the MySQL schema, used when STORAGE=memory
// and by tests. It enforces the same constraints the schema does: unique usernames
// and recipes referencing an existing user.
type MemoryDB struct {
	mu           sync.RWMutex
	nextUserID   int64
	nextRecipeID int64
	users        map[int64]model.User
	usernames    map[string]int64
	recipes      map[int64]model.Recipe
}

// NewMemoryDB returns an empty MemoryDB.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:     make(map[int64]model.User),
		usernames: make(map[string]int64),
		recipes:   make(map[int64]model.Recipe),
	}
}

// MemoryUserRepository stores users in a MemoryDB.
type MemoryUserRepository struct {
	db *MemoryDB
}

// NewMemoryUserRepository creates a user repository over db.
func NewMemoryUserRepository(db *MemoryDB) *MemoryUserRepository {
	return &MemoryUserRepository{db: db}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, taken := r.db.usernames[user.Username]; taken {
		return ErrDuplicateUsername
	}

	r.db.nextUserID++
	now := time.Now().UTC()
	user.ID = r.db.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now

	r.db.users[user.ID] = *user
	r.db.usernames[user.Username] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.usernames[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.db.users[id]
	return &u, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// MemoryRecipeRepository stores recipes in a MemoryDB.
type MemoryRecipeRepository struct {
	db *MemoryDB
}

// NewMemoryRecipeRepository creates a recipe repository over db.
func NewMemoryRecipeRepository(db *MemoryDB) *MemoryRecipeRepository {
	return &MemoryRecipeRepository{db: db}
}

func (r *MemoryRecipeRepository) Create(_ context.Context, recipe *model.Recipe) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	owner, ok := r.db.users[recipe.UserID]
	if !ok {
		return ErrUserNotFound
	}

	r.db.nextRecipeID++
	now := time.Now().UTC()
	stored := *recipe
	stored.ID = r.db.nextRecipeID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Owner = nil
	r.db.recipes[stored.ID] = stored

	stored.Owner = &owner
	*recipe = stored
	return nil
}

func (r *MemoryRecipeRepository) ListByUser(_ context.Context, userID int64) ([]model.Recipe, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	owner, ok := r.db.users[userID]
	if !ok {
		return nil, nil
	}

	var recipes []model.Recipe
	for _, rec := range r.db.recipes {
		if rec.UserID != userID {
			continue
		}
		o := owner
		rec.Owner = &o
		recipes = append(recipes, rec)
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })

	return recipes, nil
}
