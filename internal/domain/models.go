package domain

// Product categories as stored in the catalog.
const (
	CategoryElectronics = "Electronics"
	CategoryBooks       = "Books"
	CategoryTextiles    = "Textiles"
)

type Product struct {
	ID          int64   `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description string  `db:"description" json:"description,omitempty"`
	Price       float64 `db:"price" json:"price"`
	Category    string  `db:"category" json:"category"`
	Rating      float64 `db:"rating" json:"rating"`
	ImageURL    string  `db:"image_url" json:"image_url,omitempty"`
	Stock       int     `db:"stock" json:"stock"`
	CreatedAt   string  `db:"created_at" json:"-"`
}

type CartLine struct {
	ProductID int64   `db:"product_id"`
	Title     string  `db:"title"`
	Price     float64 `db:"price"`
	Quantity  int     `db:"quantity"`
}

func (l CartLine) Subtotal() float64 { return l.Price * float64(l.Quantity) }

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

type ChatMessage struct {
	ID        int64  `db:"id" json:"-"`
	SessionID int64  `db:"session_id" json:"-"`
	Message   string `db:"message" json:"message"`
	Sender    string `db:"sender" json:"sender"`
	Timestamp string `db:"timestamp" json:"timestamp"`
}
