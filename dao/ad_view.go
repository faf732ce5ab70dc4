package dao

import (
	"Vine/models"

	"gorm.io/gorm"
)

type AdView struct {
	Repo[models.AdView]
}

func NewAdView(db *gorm.DB) *AdView {
	return &AdView{
		Repo: NewRepo[models.AdView](db),
	}
}

func (a *AdView) Tx(tx *gorm.DB) *AdView {
	return &AdView{Repo: a.Repo.WithDB(tx)}
}
