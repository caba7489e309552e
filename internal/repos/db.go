package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: sqlite has a single writer and ":memory:" is per-connection.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the catalog if it is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure the demo account exists (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Accounts
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Browser sessions ('sid' cookie / X-Session-ID header)
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Catalog
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  category TEXT NOT NULL,
  rating NUMERIC NOT NULL DEFAULT 4.0,
  image_url TEXT,
  stock INTEGER NOT NULL DEFAULT 10,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_title    ON products(LOWER(title));

-- Carts
CREATE TABLE IF NOT EXISTS cart_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
  added_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, product_id)
);

-- Chat history
CREATE TABLE IF NOT EXISTS chat_sessions(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  session_token TEXT NOT NULL UNIQUE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chat_messages(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id INTEGER NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
  message TEXT NOT NULL,
  sender TEXT NOT NULL CHECK (sender IN ('user','bot')),
  timestamp TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id);

-- Per-browser preferences (theme, draft)
CREATE TABLE IF NOT EXISTS prefs(
  owner TEXT NOT NULL,
  key TEXT NOT NULL,
  value TEXT NOT NULL,
  updated_at TEXT,
  PRIMARY KEY(owner, key)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(title,description,price,category,rating) VALUES
	  ('Wireless Bluetooth Headphones','High-quality wireless headphones with noise cancellation and long battery life.',79.99,'Electronics',4.5),
	  ('Smart Watch Pro','Advanced smartwatch with fitness tracking, heart rate monitor, and GPS.',299.99,'Electronics',4.7),
	  ('USB-C Fast Charger','Quick charge adapter with multiple ports for all your devices.',24.99,'Electronics',4.3),
	  ('Laptop Stand Adjustable','Ergonomic laptop stand for better posture and cooling.',34.99,'Electronics',4.4),
	  ('Wireless Gaming Mouse','High-precision gaming mouse with customizable RGB lighting.',59.99,'Electronics',4.6),
	  ('4K Webcam HD','Ultra HD webcam perfect for streaming and video calls.',89.99,'Electronics',4.5),
	  ('The Art of Programming','Comprehensive guide to modern programming techniques and best practices.',45.99,'Books',4.8),
	  ('Machine Learning Fundamentals','Learn the basics of machine learning and artificial intelligence.',52.99,'Books',4.7),
	  ('Web Development Complete','Full-stack web development from frontend to backend.',39.99,'Books',4.6),
	  ('Data Science Handbook','Essential guide to data analysis and visualization.',48.99,'Books',4.5),
	  ('Premium Cotton T-Shirt','Comfortable and breathable cotton t-shirt in various colors.',19.99,'Textiles',4.4),
	  ('Denim Jacket Classic','Timeless denim jacket perfect for any casual outfit.',65.99,'Textiles',4.6),
	  ('Winter Scarf Wool','Warm and cozy wool scarf for cold weather.',29.99,'Textiles',4.3),
	  ('Athletic Shorts','Breathable athletic shorts for workouts and sports.',24.99,'Textiles',4.5)`)

	return tx.Commit()
}

// seedUsers ensures the demo account exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	h, err := bcrypt.GenerateFromPassword([]byte("shopmate1"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(username,email,password_hash)
		VALUES(?,?,?)
		ON CONFLICT(username) DO NOTHING
	`, "demo", "demo@shopmate.test", string(h))
	return err
}
