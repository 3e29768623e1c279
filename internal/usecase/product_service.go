package usecase

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

// maxPrice is the first value NUMERIC(12,2) cannot hold.
var maxPrice = decimal.New(1, 10)

type ProductService struct {
	repo repository.ProductRepository
	log  *slog.Logger
}

var _ ProductUsecase = (*ProductService)(nil)

func NewProductService(repo repository.ProductRepository, log *slog.Logger) *ProductService {
	if log == nil {
		log = slog.Default()
	}
	return &ProductService{repo: repo, log: log}
}

func (s *ProductService) List(ctx context.Context) ([]entity.Product, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storeErr("list products", err)
	}
	return out, nil
}

func (s *ProductService) Get(ctx context.Context, productID int64) (entity.Product, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return entity.Product{}, s.storeErr("get product", err)
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, id entity.Identity, input ProductInput) (entity.Product, error) {
	if err := requireAdmin(id); err != nil {
		return entity.Product{}, err
	}
	p, err := input.product()
	if err != nil {
		return entity.Product{}, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return entity.Product{}, s.storeErr("create product", err)
	}
	s.log.Info("product created", "product_id", created.ID, "by", id.UserID)
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id entity.Identity, productID int64, input ProductInput) (entity.Product, error) {
	if err := requireAdmin(id); err != nil {
		return entity.Product{}, err
	}
	if productID <= 0 {
		return entity.Product{}, entity.ErrProductNotFound
	}
	p, err := input.product()
	if err != nil {
		return entity.Product{}, err
	}
	p.ID = productID
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return entity.Product{}, s.storeErr("update product", err)
	}
	s.log.Info("product updated", "product_id", productID, "stock", updated.Stock, "by", id.UserID)
	return updated, nil
}

func (s *ProductService) storeErr(op string, err error) error {
	if entity.IsUserFacing(err) {
		return err
	}
	s.log.Error(op+" failed", "err", err)
	return &entity.PersistenceError{Op: op, Err: err}
}

func (in ProductInput) product() (entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.Product{}, &entity.ValidationError{Field: "name", Message: "is required"}
	}
	if in.Price.IsNegative() {
		return entity.Product{}, &entity.ValidationError{Field: "price", Message: "must not be negative"}
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return entity.Product{}, &entity.ValidationError{Field: "price", Message: "must have at most two decimal places"}
	}
	if in.Price.GreaterThanOrEqual(maxPrice) {
		return entity.Product{}, &entity.ValidationError{Field: "price", Message: "is too large"}
	}
	if in.Stock < 0 {
		return entity.Product{}, &entity.ValidationError{Field: "stock", Message: "must not be negative"}
	}
	if in.Stock > math.MaxInt32 {
		return entity.Product{}, &entity.ValidationError{Field: "stock", Message: "is too large"}
	}
	return entity.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}, nil
}

// SeedCatalog creates products through repo and returns them with ids.
func SeedCatalog(ctx context.Context, repo repository.ProductRepository, products []entity.Product) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		created, err := repo.Create(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}
