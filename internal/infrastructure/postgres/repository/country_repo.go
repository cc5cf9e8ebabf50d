package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 100

// Columns overwritten when a refresh hits an existing name_key.
var refreshedColumns = []string{
	"capital",
	"region",
	"population",
	"currency_code",
	"exchange_rate",
	"estimated_gdp",
	"flag_url",
	"last_refreshed_at",
	"updated_at",
}

type DefaultCountryRepository struct {
	DB *gorm.DB
}

func NewDefaultCountryRepository(db *gorm.DB) *DefaultCountryRepository {
	return &DefaultCountryRepository{DB: db}
}

// UpsertCountries writes the whole batch in one transaction keyed by name_key.
// Callers must not pass two countries with the same name_key.
func (r *DefaultCountryRepository) UpsertCountries(ctx context.Context, countries []*domain.Country, refreshedAt time.Time) (*domain.UpsertStats, error) {
	stats := &domain.UpsertStats{}
	if len(countries) == 0 {
		return stats, nil
	}

	rows := make([]*models.CountryModel, len(countries))
	keys := make([]string, len(countries))
	for i, country := range countries {
		row := mappers.ToGORMCountry(country)
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		row.LastRefreshedAt = refreshedAt
		rows[i] = row
		keys[i] = row.NameKey
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.CountryModel{}).Where("name_key IN ?", keys).Pluck("name_key", &existing).Error; err != nil {
			return fmt.Errorf("failed to look up existing countries: %w", err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			DoUpdates: clause.AssignmentColumns(refreshedColumns),
		}).CreateInBatches(rows, upsertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to upsert countries: %w", err)
		}

		stats.Updated = len(existing)
		stats.Created = len(rows) - len(existing)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *DefaultCountryRepository) CreateCountry(ctx context.Context, country *domain.Country) error {
	countryModel := mappers.ToGORMCountry(country)
	if countryModel.ID == "" {
		countryModel.ID = uuid.New().String()
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CountryModel{}).Where("name_key = ?", countryModel.NameKey).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrCountryExists
		}
		return tx.Create(countryModel).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrCountryExists
		}
		return err
	}

	*country = *mappers.ToDomainCountry(countryModel)
	return nil
}

func (r *DefaultCountryRepository) UpdateCountry(ctx context.Context, name string, country *domain.Country) error {
	var countryModel models.CountryModel

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name_key = ?", domain.NameKey(name)).First(&countryModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCountryNotFound
			}
			return err
		}

		newKey := domain.NameKey(country.Name)
		if newKey != countryModel.NameKey {
			var count int64
			if err := tx.Model(&models.CountryModel{}).Where("name_key = ?", newKey).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return domain.ErrCountryExists
			}
		}

		updateData := map[string]interface{}{
			"name":              country.Name,
			"name_key":          newKey,
			"capital":           country.Capital,
			"region":            country.Region,
			"population":        country.Population,
			"currency_code":     country.CurrencyCode,
			"exchange_rate":     country.ExchangeRate,
			"estimated_gdp":     country.EstimatedGDP,
			"flag_url":          country.FlagURL,
			"last_refreshed_at": country.LastRefreshedAt,
		}
		if err := tx.Model(&countryModel).Updates(updateData).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", countryModel.ID).First(&countryModel).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrCountryExists
		}
		return err
	}

	*country = *mappers.ToDomainCountry(&countryModel)
	return nil
}

func (r *DefaultCountryRepository) GetCountryByName(ctx context.Context, name string) (*domain.Country, error) {
	var countryModel models.CountryModel
	if err := r.DB.WithContext(ctx).Where("name_key = ?", domain.NameKey(name)).First(&countryModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCountryNotFound
		}
		return nil, err
	}

	return mappers.ToDomainCountry(&countryModel), nil
}

func (r *DefaultCountryRepository) DeleteCountryByName(ctx context.Context, name string) error {
	result := r.DB.WithContext(ctx).Where("name_key = ?", domain.NameKey(name)).Delete(&models.CountryModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCountryNotFound
	}

	return nil
}

func (r *DefaultCountryRepository) ListCountries(ctx context.Context, filter domain.CountryFilter) ([]*domain.Country, error) {
	query := r.DB.WithContext(ctx).Model(&models.CountryModel{})

	if filter.Region != nil && *filter.Region != "" {
		query = query.Where("LOWER(region) = ?", strings.ToLower(*filter.Region))
	}
	if filter.Currency != nil && *filter.Currency != "" {
		query = query.Where("LOWER(currency_code) = ?", strings.ToLower(*filter.Currency))
	}

	// Nulls sort last in both directions so the order stays consistent.
	switch filter.Sort {
	case domain.SortByGDPDesc:
		query = query.Order("estimated_gdp IS NULL").Order("estimated_gdp DESC").Order("name_key")
	case domain.SortByGDPAsc:
		query = query.Order("estimated_gdp IS NULL").Order("estimated_gdp ASC").Order("name_key")
	default:
		query = query.Order("name_key")
	}

	var countryModels []*models.CountryModel
	if err := query.Find(&countryModels).Error; err != nil {
		return nil, err
	}

	countries := make([]*domain.Country, len(countryModels))
	for i, countryModel := range countryModels {
		countries[i] = mappers.ToDomainCountry(countryModel)
	}

	return countries, nil
}

func (r *DefaultCountryRepository) TopCountriesByGDP(ctx context.Context, limit int) ([]*domain.Country, error) {
	var countryModels []*models.CountryModel
	if err := r.DB.WithContext(ctx).
		Where("estimated_gdp IS NOT NULL").
		Order("estimated_gdp DESC").
		Limit(limit).
		Find(&countryModels).Error; err != nil {
		return nil, err
	}

	countries := make([]*domain.Country, len(countryModels))
	for i, countryModel := range countryModels {
		countries[i] = mappers.ToDomainCountry(countryModel)
	}

	return countries, nil
}

func (r *DefaultCountryRepository) CountCountries(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.CountryModel{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *DefaultCountryRepository) GetStatus(ctx context.Context) (*domain.CountryStatus, error) {
	total, err := r.CountCountries(ctx)
	if err != nil {
		return nil, err
	}

	status := &domain.CountryStatus{TotalCountries: total}
	if total == 0 {
		return status, nil
	}

	var latest models.CountryModel
	if err := r.DB.WithContext(ctx).Order("last_refreshed_at DESC").First(&latest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return status, nil
		}
		return nil, err
	}
	status.LastRefreshedAt = &latest.LastRefreshedAt

	return status, nil
}
