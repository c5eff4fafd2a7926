package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the pets catalog. Adapters rely on it instead of
// migrating on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&petRecord{})
}

// petRecord mirrors the pets Postgres adapter. The serial id only preserves
// insertion order; the name is the identity.
type petRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Type      string    `gorm:"column:type;not null;index:idx_pets_type_color"`
	Color     string    `gorm:"column:color;not null;index:idx_pets_type_color"`
	Price     int64     `gorm:"column:price;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (petRecord) TableName() string { return "pets" }
