package services

import (
	"database/sql"
	"errors"
	"fmt"

	"shopmate/internal/domain"
	"shopmate/internal/repos"
)

var ErrProductNotFound = errors.New("product not found")

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

type AddResult struct {
	Product domain.Product
	Count   int
}

func (r AddResult) Message() string { return fmt.Sprintf("%s added to cart!", r.Product.Title) }

func (s *CartService) Add(userID, productID int64, qty int) (AddResult, error) {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Prods.Get(productID)
	if errors.Is(err, sql.ErrNoRows) {
		return AddResult{}, ErrProductNotFound
	}
	if err != nil {
		return AddResult{}, err
	}
	if err := s.Carts.UpsertItem(userID, productID, qty); err != nil {
		return AddResult{}, err
	}
	n, err := s.Carts.Count(userID)
	if err != nil {
		return AddResult{}, err
	}
	return AddResult{Product: p, Count: n}, nil
}

func (s *CartService) Count(userID int64) (int, error) {
	return s.Carts.Count(userID)
}

type CartView struct {
	Items []domain.CartLine
	Total float64
}

func (s *CartService) View(userID int64) (CartView, error) {
	items, total, err := s.Carts.Lines(userID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: total}, nil
}
