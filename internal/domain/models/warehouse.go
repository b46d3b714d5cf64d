package models

import "time"

// Floor identifies a warehouse floor by its short code.
type Floor string

const (
	FloorGround   Floor = "GF"
	FloorFirst    Floor = "FF"
	FloorSecond   Floor = "SF"
	FloorBasement Floor = "B1"
)

// Valid reports whether the floor code is one of the known floors.
func (f Floor) Valid() bool {
	switch f {
	case FloorGround, FloorFirst, FloorSecond, FloorBasement:
		return true
	}
	return false
}

// Warehouse is the top-level storage site. Code is the short human prefix
// used in every location code issued for bins inside it.
type Warehouse struct {
	ID        string    `bson:"_id" json:"id"`
	Code      string    `bson:"code" json:"code"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
