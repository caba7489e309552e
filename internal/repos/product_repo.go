package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"shopmate/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, title, COALESCE(description,'') AS description, price, category, rating,
    COALESCE(image_url,'') AS image_url, stock, COALESCE(created_at,'') AS created_at`

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) List(limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY id LIMIT ?`, limit)
	return out, err
}

func (r *ProductRepo) ListByCategory(category string, limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE category = ?
	  ORDER BY id
	  LIMIT ?
	`, category, limit)
	return out, err
}

// SearchTitles matches products whose title contains any of the terms (case-insensitive).
func (r *ProductRepo) SearchTitles(terms []string, limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	if len(terms) == 0 {
		return out, nil
	}
	conds := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms)+1)
	for _, t := range terms {
		conds = append(conds, `LOWER(title) LIKE ?`)
		args = append(args, "%"+strings.ToLower(t)+"%")
	}
	args = append(args, limit)
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+strings.Join(conds, " OR ")+`
	  ORDER BY id
	  LIMIT ?`, args...)
	return out, err
}

func (r *ProductRepo) AtMostPrice(max float64, limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE price <= ?
	  ORDER BY id
	  LIMIT ?
	`, max, limit)
	return out, err
}
