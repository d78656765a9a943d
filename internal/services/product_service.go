package services

import (
	"context"
	"log"
	"time"

	"padoca/internal/caching"
	"padoca/internal/common"
	"padoca/internal/models"
	"padoca/internal/repositories"
)

// ProductService manages the bakery catalog. Reads go through the cache;
// writes invalidate it.
type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	Get(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, page, limit int) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Remove(ctx context.Context, id int64) error
}

const productCacheTTL = 10 * time.Minute

type productService struct {
	productRepo repositories.ProductRepository
	cache       caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, cache caching.CacheService) ProductService {
	return &productService{productRepo: productRepo, cache: cache}
}

func validateProduct(product *models.Product) error {
	if err := common.ValidateRequiredString(product.Name, "name"); err != nil {
		return common.NewBadRequest("%s", err.Error())
	}
	if err := common.ValidateRequiredString(product.MeasureUnit, "measure_unit"); err != nil {
		return common.NewBadRequest("%s", err.Error())
	}
	if product.UnitPrice <= 0 {
		return common.NewBadRequest("unit_price must be positive")
	}
	return nil
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	product.UnitPrice = common.RoundCents(product.UnitPrice)
	return s.productRepo.Create(ctx, product)
}

func (s *productService) Get(ctx context.Context, id int64) (*models.Product, error) {
	if cached, err := s.cache.GetProduct(ctx, id); err != nil {
		log.Printf("product cache read failed for %d: %v", id, err)
	} else if cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, common.NewNotFound("product", id)
	}

	if err := s.cache.SetProduct(ctx, product, productCacheTTL); err != nil {
		log.Printf("product cache write failed for %d: %v", id, err)
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, page, limit int) ([]*models.Product, error) {
	page, limit = common.ValidatePaginationParams(page, limit)
	return s.productRepo.List(ctx, page, limit)
}

func (s *productService) Update(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	existing, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return common.NewNotFound("product", product.ID)
	}

	product.UnitPrice = common.RoundCents(product.UnitPrice)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	if err := s.cache.DeleteProduct(ctx, product.ID); err != nil {
		log.Printf("product cache invalidation failed for %d: %v", product.ID, err)
	}
	return nil
}

func (s *productService) Remove(ctx context.Context, id int64) error {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return common.NewNotFound("product", id)
	}
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		log.Printf("product cache invalidation failed for %d: %v", id, err)
	}
	return nil
}
