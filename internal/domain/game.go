package domain

import "time"

// Game is a storefront catalog entry. Image fields hold image host URLs; the
// hover image is optional and only used by card style listings.
type Game struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;size:200" json:"title"`
	Price     float64   `json:"price"`
	Img       string    `gorm:"size:1024" json:"img"`
	HoverImg  string    `gorm:"size:1024" json:"hover_img"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Game) TableName() string {
	return "store_game"
}

// Snapshot returns the denormalized copy of the game that is embedded in
// carts and purchase records. History keeps these as of purchase time even
// after the catalog entry is edited or deleted.
func (g Game) Snapshot() GameSnapshot {
	return GameSnapshot{
		ID:       g.ID,
		Title:    g.Title,
		Price:    g.Price,
		Img:      g.Img,
		HoverImg: g.HoverImg,
	}
}

// GameSnapshot is the item shape stored inside account documents.
type GameSnapshot struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Img      string  `json:"img"`
	HoverImg string  `json:"hover_img,omitempty"`
}

// RankedGame is a catalog entry with its derived popularity attached.
type RankedGame struct {
	Game
	Sales int `gorm:"-" json:"sales"`
}
