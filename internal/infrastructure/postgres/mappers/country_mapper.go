package mappers

import (
	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/models"
)

func ToGORMCountry(country *domain.Country) *models.CountryModel {
	return &models.CountryModel{
		ID:              country.ID,
		Name:            country.Name,
		NameKey:         domain.NameKey(country.Name),
		Capital:         country.Capital,
		Region:          country.Region,
		Population:      country.Population,
		CurrencyCode:    country.CurrencyCode,
		ExchangeRate:    country.ExchangeRate,
		EstimatedGDP:    country.EstimatedGDP,
		FlagURL:         country.FlagURL,
		LastRefreshedAt: country.LastRefreshedAt,
		CreatedAt:       country.CreatedAt,
		UpdatedAt:       country.UpdatedAt,
	}
}

func ToDomainCountry(model *models.CountryModel) *domain.Country {
	return &domain.Country{
		ID:              model.ID,
		Name:            model.Name,
		Capital:         model.Capital,
		Region:          model.Region,
		Population:      model.Population,
		CurrencyCode:    model.CurrencyCode,
		ExchangeRate:    model.ExchangeRate,
		EstimatedGDP:    model.EstimatedGDP,
		FlagURL:         model.FlagURL,
		LastRefreshedAt: model.LastRefreshedAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
