package models

import "time"

type CountryModel struct {
	ID              string   `gorm:"primaryKey;type:uuid"`
	Name            string   `gorm:"size:100;not null"`
	NameKey         string   `gorm:"size:100;not null;uniqueIndex:idx_countries_name_key"`
	Capital         *string  `gorm:"size:100"`
	Region          *string  `gorm:"size:100;index:idx_countries_region"`
	Population      int64    `gorm:"not null"`
	CurrencyCode    *string  `gorm:"size:10;index:idx_countries_currency"`
	ExchangeRate    *float64
	EstimatedGDP    *float64 `gorm:"column:estimated_gdp"`
	FlagURL         *string
	LastRefreshedAt time.Time `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (CountryModel) TableName() string {
	return "countries"
}
