package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reservio/reservio/internal/domain/reservation"
)

// Record is the persisted shape of a reservation. Timestamps are disabled for
// gorm auto-tracking because the domain owns created_at/updated_at.
type Record struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserName     string    `gorm:"column:user_name;type:varchar(255);not null;index"`
	ResourceName string    `gorm:"column:resource_name;type:varchar(255);not null"`
	StartsAt     time.Time `gorm:"column:starts_at;type:timestamptz;not null"`
	EndsAt       time.Time `gorm:"column:ends_at;type:timestamptz;not null"`
	Status       string    `gorm:"column:status;type:varchar(30);not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;autoCreateTime:false;index"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;not null;autoUpdateTime:false"`
}

func (Record) TableName() string {
	return "reservations"
}

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, res reservation.Reservation) error {
	rec := toRecord(res)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("saving reservation: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (reservation.Reservation, error) {
	var rec Record
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reservation.Reservation{}, reservation.ErrReservationNotFound
	}
	if err != nil {
		return reservation.Reservation{}, fmt.Errorf("loading reservation: %w", err)
	}
	return toDomain(rec)
}

func (r *Repository) FindOverlapping(ctx context.Context, resourceName string, slot reservation.TimeSlot) ([]reservation.Reservation, error) {
	var recs []Record
	err := r.db.WithContext(ctx).
		Where("resource_name = ? AND starts_at < ? AND ends_at > ?", resourceName, slot.EndsAt, slot.StartsAt).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("querying overlapping reservations: %w", err)
	}
	return toDomainSlice(recs)
}

func (r *Repository) All(ctx context.Context) ([]reservation.Reservation, error) {
	var recs []Record
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	return toDomainSlice(recs)
}

func toRecord(res reservation.Reservation) Record {
	return Record{
		ID:           res.ID,
		UserName:     res.UserName,
		ResourceName: res.ResourceName,
		StartsAt:     res.Slot.StartsAt,
		EndsAt:       res.Slot.EndsAt,
		Status:       string(res.Status),
		CreatedAt:    res.CreatedAt,
		UpdatedAt:    res.UpdatedAt,
	}
}

func toDomain(rec Record) (reservation.Reservation, error) {
	slot, err := reservation.NewTimeSlot(rec.StartsAt, rec.EndsAt)
	if err != nil {
		return reservation.Reservation{}, fmt.Errorf("reservation %s: %w", rec.ID, err)
	}
	return reservation.Reservation{
		ID:           rec.ID,
		UserName:     rec.UserName,
		ResourceName: rec.ResourceName,
		Slot:         slot,
		Status:       reservation.Status(rec.Status),
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}, nil
}

func toDomainSlice(recs []Record) ([]reservation.Reservation, error) {
	out := make([]reservation.Reservation, 0, len(recs))
	for _, rec := range recs {
		res, err := toDomain(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
