package sandbox

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-client/internal/cart"
	"github.com/angelmondragon/storefront-client/pkg/db/models"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"gorm.io/gorm"
)

// CartService keeps one product id per unit for each user.
type CartService struct {
	repo *Repository
}

func NewCartService(repo *Repository) *CartService {
	return &CartService{repo: repo}
}

// ActiveByUser returns the active cart of userID, or a cart with a nil id and
// no items when there is none.
func (s *CartService) ActiveByUser(ctx context.Context, userID int64) (cart.Response, error) {
	found, err := s.repo.FindActiveCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.Response{Items: []int64{}}, nil
		}
		return cart.Response{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	return toCartResponse(found), nil
}

// Add creates a cart when req.ID is nil and appends to it otherwise.
func (s *CartService) Add(ctx context.Context, req cart.AddRequest) (cart.Response, error) {
	if req.UserID <= 0 {
		return cart.Response{}, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be positive")
	}
	if err := validateItems(req.Items); err != nil {
		return cart.Response{}, err
	}

	if req.ID == nil {
		status, err := enums.ParseCartStatus(string(req.Status))
		if err != nil {
			return cart.Response{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart status")
		}
		created := &models.Cart{UserID: req.UserID, Status: status, Items: append([]int64{}, req.Items...)}
		if err := s.repo.SaveCart(ctx, created); err != nil {
			return cart.Response{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
		}
		return toCartResponse(created), nil
	}

	existing, err := s.load(ctx, *req.ID)
	if err != nil {
		return cart.Response{}, err
	}
	existing.Items = append(existing.Items, req.Items...)
	if err := s.repo.SaveCart(ctx, existing); err != nil {
		return cart.Response{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart")
	}
	return toCartResponse(existing), nil
}

// ReplaceItems overwrites the items of a cart.
func (s *CartService) ReplaceItems(ctx context.Context, cartID int64, items []int64) (cart.Response, error) {
	if err := validateItems(items); err != nil {
		return cart.Response{}, err
	}
	existing, err := s.load(ctx, cartID)
	if err != nil {
		return cart.Response{}, err
	}
	existing.Items = append([]int64{}, items...)
	if err := s.repo.SaveCart(ctx, existing); err != nil {
		return cart.Response{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace cart items")
	}
	return toCartResponse(existing), nil
}

func (s *CartService) load(ctx context.Context, cartID int64) (*models.Cart, error) {
	found, err := s.repo.FindCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return found, nil
}

func validateItems(items []int64) error {
	for _, id := range items {
		if id <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart_items must hold positive product ids")
		}
	}
	return nil
}

func toCartResponse(c *models.Cart) cart.Response {
	id := c.ID
	items := append([]int64{}, c.Items...)
	return cart.Response{ID: &id, Items: items}
}
