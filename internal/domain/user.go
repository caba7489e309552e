package domain

type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Email    string `db:"email"`
	Hash     string `db:"password_hash"`
}
