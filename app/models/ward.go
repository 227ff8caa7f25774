package models

import "github.com/go-playground/validator/v10"

// Ward is immutable reference data: one municipal ward and its elected councillor.
type Ward struct {
	ID             string `gorm:"primaryKey;type:varchar(16)" bson:"_id" json:"id" yaml:"id" validate:"required,max=16"`
	Name           string `gorm:"type:varchar(150);not null" bson:"name" json:"name" yaml:"name" validate:"required,max=150"`
	CouncillorName string `gorm:"type:varchar(150);not null" bson:"councillorName" json:"councillorName" yaml:"councillorName" validate:"required,max=150"`
	Party          string `gorm:"type:varchar(50);not null" bson:"party" json:"party" yaml:"party" validate:"required,max=50"`
}

func (w *Ward) Validate() error {
	v := validator.New()

	return v.Struct(w)
}
