package repository

import (
	"context"
	"errors"
	"time"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// Timezonelist GORM model for the airport reference table
type Timezonelist struct {
	ID          uint           `gorm:"primaryKey"`
	AirportCode string         `gorm:"column:airportcode;unique"`
	AirportName string         `gorm:"column:airport_name"`
	CityCode    string         `gorm:"column:citycode"`
	CityName    string         `gorm:"column:cityname"`
	GmtTz       string         `gorm:"column:gmttz"`
	TzName      string         `gorm:"column:tzname"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Timezonelist) TableName() string {
	return "m_timezone_list"
}

// GetByAirportCode finds an airport by its IATA code
func (r *GormAirportRepository) GetByAirportCode(ctx context.Context, code string) (*entity.Airport, error) {
	var row Timezonelist
	result := r.db.WithContext(ctx).Unscoped().Where("airportcode = ?", code).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, entity.ErrAirportNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return toAirport(row), nil
}

// Convert GORM model to domain entity
func toAirport(row Timezonelist) *entity.Airport {
	return &entity.Airport{
		Code:     row.AirportCode,
		Name:     row.AirportName,
		CityCode: row.CityCode,
		CityName: row.CityName,
		GmtTz:    row.GmtTz,
		TzName:   row.TzName,
	}
}
