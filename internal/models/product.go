package models

import "gorm.io/datatypes"

// Product represents a catalog entry.
// ID and CreatedAt are always assigned server-side; values sent by clients are discarded.
type Product struct {
	ID          string                      `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name        string                      `json:"name" gorm:"type:varchar(255)" bson:"name"`
	Description string                      `json:"description" gorm:"type:text" bson:"description"`
	Brand       string                      `json:"brand" gorm:"type:varchar(255)" bson:"brand"`
	Tags        datatypes.JSONSlice[string] `json:"tags" bson:"tags"`
	Category    string                      `json:"category" gorm:"type:varchar(255);index" bson:"category" validate:"excludesall=0123456789"`
	CreatedAt   string                      `json:"createdAt" gorm:"column:created_at;type:varchar(20);index" bson:"created_at"`
}

// TableName pins the table name used by GORM.
func (Product) TableName() string { return "products" }
