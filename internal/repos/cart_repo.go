package repos

import (
	"github.com/jmoiron/sqlx"

	"shopmate/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// UpsertItem adds qty to the user's line for productID, creating it if needed.
func (r *CartRepo) UpsertItem(userID, productID int64, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(user_id,product_id,quantity,added_at)
		VALUES(?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(user_id,product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity
	`, userID, productID, qty)
	return err
}

// Count returns the number of distinct lines in the cart.
func (r *CartRepo) Count(userID int64) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM cart_items WHERE user_id = ?`, userID)
	return n, err
}

func (r *CartRepo) Lines(userID int64) ([]domain.CartLine, float64, error) {
	rows := []domain.CartLine{}
	if err := r.db.Select(&rows, `
	  SELECT ci.product_id, p.title, p.price, ci.quantity
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY ci.id
	`, userID); err != nil {
		return nil, 0, err
	}
	total := 0.0
	for _, it := range rows {
		total += it.Subtotal()
	}
	return rows, total, nil
}

func (r *CartRepo) Clear(userID int64) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
