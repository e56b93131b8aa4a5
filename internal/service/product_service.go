package service

import (
	"context"

	"eshop/internal/model"
	"eshop/internal/repository"

	"gorm.io/gorm"
)

type ProductService struct {
	productRepo *repository.ProductRepository
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{
		productRepo: repository.NewProductRepository(db),
	}
}

func (s *ProductService) List(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *ProductService) Create(ctx context.Context, name string, price float64) (*model.Product, error) {
	product := &model.Product{
		Name:  name,
		Price: price,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, name string, price float64) (*model.Product, error) {
	product := &model.Product{
		ID:    id,
		Name:  name,
		Price: price,
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	return s.productRepo.Delete(ctx, id)
}
