package services

import (
	"shopmate/internal/domain"
	"shopmate/internal/repos"
)

// ResultLimit caps every product listing the assistant returns.
const ResultLimit = 6

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) GetProduct(id int64) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) Browse() ([]domain.Product, error) {
	return s.Prods.List(ResultLimit)
}

func (s *CatalogService) ListProductsByCategory(category string) ([]domain.Product, error) {
	return s.Prods.ListByCategory(category, ResultLimit)
}

// Search matches titles against any of terms; with no terms it browses.
func (s *CatalogService) Search(terms []string) ([]domain.Product, error) {
	if len(terms) == 0 {
		return s.Browse()
	}
	return s.Prods.SearchTitles(terms, ResultLimit)
}

func (s *CatalogService) UnderPrice(max float64) ([]domain.Product, error) {
	return s.Prods.AtMostPrice(max, ResultLimit)
}
