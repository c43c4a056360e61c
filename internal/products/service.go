// Package products manages the product catalogue. Product writes are not
// gated by a session.
package products

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"dashboard/internal/apperr"
	"dashboard/internal/logging"
	"dashboard/internal/models"
	"dashboard/internal/revalidate"
	"dashboard/internal/validate"
)

const ListingPath = "/dashboard/products"

type Input struct {
	Name        string  `json:"name" validate:"min=1,max=100"`
	Description *string `json:"description"`
	Price       string  `json:"price" validate:"price"`
	Stock       int     `json:"stock" validate:"min=0"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	Published   bool    `json:"published"`
}

type UpdateInput struct {
	ID string `json:"id" validate:"required,uuid"`
	Input
}

type Service struct {
	db          *sql.DB
	revalidator revalidate.Revalidator
	log         *logging.Logger
}

func NewService(db *sql.DB, rv revalidate.Revalidator, log *logging.Logger) *Service {
	if rv == nil {
		rv = revalidate.Nop{}
	}
	return &Service{db: db, revalidator: rv, log: log}
}

// normalize turns an empty image URL into NULL. It runs before validation
// because omitempty skips only a nil pointer.
func (in *Input) normalize() {
	if in.ImageURL != nil && *in.ImageURL == "" {
		in.ImageURL = nil
	}
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return apperr.NotFound("product")
	}
	s.log.Error(ctx, "product operation failed", "op", op, "error", err)
	return apperr.Internal(err)
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Product, error) {
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &models.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		Published:   in.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := models.InsertProduct(ctx, s.db, p); err != nil {
		return nil, s.fail(ctx, "insert product", err)
	}
	s.revalidator.Revalidate(ctx, ListingPath)
	return p, nil
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*models.Product, error) {
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}
	p, err := models.GetProduct(ctx, s.db, in.ID)
	if err != nil {
		return nil, s.fail(ctx, "find product", err)
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.ImageURL = in.ImageURL
	p.Published = in.Published
	p.UpdatedAt = time.Now().UTC()
	if err := models.UpdateProduct(ctx, s.db, p); err != nil {
		return nil, s.fail(ctx, "update product", err)
	}
	s.revalidator.Revalidate(ctx, ListingPath)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	if err := validate.Struct(&struct {
		ID string `json:"id" validate:"required,uuid"`
	}{id}); err != nil {
		return "", err
	}
	if err := models.DeleteProduct(ctx, s.db, id); err != nil {
		return "", s.fail(ctx, "delete product", err)
	}
	s.revalidator.Revalidate(ctx, ListingPath)
	return id, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound("product")
	}
	p, err := models.GetProduct(ctx, s.db, id)
	if err != nil {
		return nil, s.fail(ctx, "get product", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	ps, err := models.ListProducts(ctx, s.db)
	if err != nil {
		return nil, s.fail(ctx, "list products", err)
	}
	return ps, nil
}
