package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// RecipeEdgeKind selects which (user, recipe) edge table a toggle operates
// on; favorite and shopping cart share the exact same semantics.
type RecipeEdgeKind string

const (
	EdgeFavorite     RecipeEdgeKind = "favorite"
	EdgeShoppingCart RecipeEdgeKind = "shopping_cart"
)

func (k RecipeEdgeKind) table() string {
	if k == EdgeShoppingCart {
		return models.ShoppingCart{}.TableName()
	}
	return models.Favorite{}.TableName()
}

func (k RecipeEdgeKind) field() string {
	if k == EdgeShoppingCart {
		return "shopping_cart"
	}
	return "favorite"
}

// EdgeService implements the idempotence-adjacent toggle contract: POST
// rejects duplicates with a validation error, DELETE of an absent edge is a
// bare status signal.
type EdgeService struct {
	db *gorm.DB
}

func NewEdgeService(db *gorm.DB) *EdgeService {
	return &EdgeService{db: db}
}

// AddRecipeEdge creates the edge and returns the target recipe. A concurrent
// duplicate insert trips the unique constraint and is reported as the same
// duplicate validation error.
func (s *EdgeService) AddRecipeEdge(ctx context.Context, userID, recipeID uint, kind RecipeEdgeKind) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Table(kind.table()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, newValidationError(kind.field(), "recipe is already in %s", kind.field())
	}

	if err := s.createRecipeEdge(ctx, userID, recipeID, kind); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError(kind.field(), "recipe is already in %s", kind.field())
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *EdgeService) createRecipeEdge(ctx context.Context, userID, recipeID uint, kind RecipeEdgeKind) error {
	if kind == EdgeShoppingCart {
		return s.db.WithContext(ctx).Create(&models.ShoppingCart{UserID: userID, RecipeID: recipeID}).Error
	}
	return s.db.WithContext(ctx).Create(&models.Favorite{UserID: userID, RecipeID: recipeID}).Error
}

// RemoveRecipeEdge deletes the edge; ErrEdgeMissing signals the bodyless 400
// when it was not there.
func (s *EdgeService) RemoveRecipeEdge(ctx context.Context, userID, recipeID uint, kind RecipeEdgeKind) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var res *gorm.DB
	if kind == EdgeShoppingCart {
		res = s.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Delete(&models.ShoppingCart{})
	} else {
		res = s.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Delete(&models.Favorite{})
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEdgeMissing
	}
	return nil
}

// HasRecipeEdge reports whether the viewer has the given edge to the recipe.
// Always false for the anonymous viewer (id 0).
func (s *EdgeService) HasRecipeEdge(ctx context.Context, userID, recipeID uint, kind RecipeEdgeKind) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Table(kind.table()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// Subscribe makes user follow owner. Self-follow and duplicates are
// validation errors.
func (s *EdgeService) Subscribe(ctx context.Context, userID, ownerID uint) (*models.User, error) {
	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if userID == ownerID {
		return nil, newValidationError("subscribe", "subscribing to your own account is not allowed")
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscribe{}).
		Where("user_id = ? AND owner_id = ?", userID, ownerID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, newValidationError("subscribe", "already subscribed")
	}

	if err := s.db.WithContext(ctx).Create(&models.Subscribe{UserID: userID, OwnerID: ownerID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError("subscribe", "already subscribed")
		}
		return nil, err
	}
	return &owner, nil
}

func (s *EdgeService) Unsubscribe(ctx context.Context, userID, ownerID uint) error {
	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND owner_id = ?", userID, ownerID).
		Delete(&models.Subscribe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEdgeMissing
	}
	return nil
}

// IsSubscribed reports whether user follows owner; false for anonymous.
func (s *EdgeService) IsSubscribed(ctx context.Context, userID, ownerID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscribe{}).
		Where("user_id = ? AND owner_id = ?", userID, ownerID).
		Count(&count).Error
	return count > 0, err
}

// Subscriptions lists the users that user follows, in follow order.
func (s *EdgeService) Subscriptions(ctx context.Context, userID uint) ([]models.User, error) {
	var owners []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscribes ON subscribes.owner_id = users.id").
		Where("subscribes.user_id = ?", userID).
		Order("subscribes.id").
		Find(&owners).Error
	if err != nil {
		return nil, err
	}
	return owners, nil
}
