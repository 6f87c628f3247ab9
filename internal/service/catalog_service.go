package service

import (
	"context"

	"summitgear/internal/apierror"
	"summitgear/internal/dto"
	"summitgear/internal/model"
	"summitgear/internal/repository"

	"github.com/google/uuid"
)

// CatalogService serves read-only product and customer lookups. Catalog
// writes happen through back-office tooling, not this API.
type CatalogService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

func NewCatalogService(productRepo repository.ProductRepository, customerRepo repository.CustomerRepository) CatalogService {
	return &catalogService{productRepo: productRepo, customerRepo: customerRepo}
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("product %s not found", id)
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, productToResponse(&p))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *catalogService) GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("customer %s not found", id)
	}
	resp := &dto.CustomerResponse{
		ID:          customer.ID.String(),
		Email:       customer.Email,
		FullName:    customer.FullName,
		TotalPoints: customer.TotalPoints,
		TotalSpent:  customer.TotalSpent,
		Active:      customer.Active,
	}
	if customer.Tier != nil {
		resp.Tier = customer.Tier.Name
	}
	return resp, nil
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Brand:       p.Brand,
		RetailPrice: p.RetailPrice,
		Status:      p.Status,
	}
}
