package theaters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTheaterNotFound = errors.New("theater not found")

// Repository interface for theater operations
type Repository interface {
	Create(ctx context.Context, theater *Theater) error
	FindByID(ctx context.Context, id uuid.UUID) (*Theater, error)
	// FindForDay loads a theater with its slots and only the slot dates of day.
	FindForDay(ctx context.Context, id uuid.UUID, day time.Time) (*Theater, error)
	List(ctx context.Context, filter ListFilter) ([]Theater, error)
	ListForDay(ctx context.Context, filter ListFilter, day time.Time) ([]Theater, error)
	DistinctLocations(ctx context.Context, branchID uuid.UUID) ([]string, error)
	Update(ctx context.Context, theater *Theater, slots []Slot) error
	AppendImages(ctx context.Context, id uuid.UUID, urls []string) error
	Delete(ctx context.Context, id uuid.UUID) error
	PruneSlotDatesBefore(ctx context.Context, day time.Time) (int64, error)
}

type ListFilter struct {
	BranchID *uuid.UUID
	Location string
	Status   TheaterStatus
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func orderedSlots(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("created_at ASC")
}

func (r *repository) Create(ctx context.Context, theater *Theater) error {
	err := r.db.WithContext(ctx).Create(theater).Error
	if err == nil {
		theater.IndexSlots()
	}
	return err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Theater, error) {
	var theater Theater
	err := r.db.WithContext(ctx).
		Preload("Slots", orderedSlots).
		Preload("Slots.Dates").
		First(&theater, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &theater, nil
}

func (r *repository) FindForDay(ctx context.Context, id uuid.UUID, day time.Time) (*Theater, error) {
	var theater Theater
	err := r.db.WithContext(ctx).
		Preload("Slots", orderedSlots).
		Preload("Slots.Dates", "date >= ? AND date < ?", day, nextDay(day)).
		First(&theater, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &theater, nil
}

// nextDay returns the start of the civil day after day, in day's zone. Date
// columns are matched on the half-open range [day, nextDay(day)).
func nextDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}

func (r *repository) applyFilter(q *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.BranchID != nil {
		q = q.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Location != "" {
		q = q.Where("location = ?", filter.Location)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	return q
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Theater, error) {
	var list []Theater
	q := r.applyFilter(r.db.WithContext(ctx).Model(&Theater{}), filter)
	err := q.Preload("Slots", orderedSlots).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListForDay(ctx context.Context, filter ListFilter, day time.Time) ([]Theater, error) {
	var list []Theater
	q := r.applyFilter(r.db.WithContext(ctx).Model(&Theater{}), filter)
	err := q.Preload("Slots", orderedSlots).
		Preload("Slots.Dates", "date >= ? AND date < ?", day, nextDay(day)).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) DistinctLocations(ctx context.Context, branchID uuid.UUID) ([]string, error) {
	var locations []string
	err := r.db.WithContext(ctx).Model(&Theater{}).
		Where("branch_id = ?", branchID).
		Distinct().
		Order("location ASC").
		Pluck("location", &locations).Error
	return locations, err
}

// Update saves theater fields and reconciles its slot list. Slots carrying a
// known id are updated in place and keep their date history. Slots without an
// id are created. Slots missing from the list are removed with their dates.
func (r *repository) Update(ctx context.Context, theater *Theater, slots []Slot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(theater).Omit("Slots", "CreatedAt").Select("*").Updates(theater).Error; err != nil {
			return err
		}
		if slots == nil {
			return nil
		}

		var existing []Slot
		if err := tx.Where("theater_id = ?", theater.ID).Find(&existing).Error; err != nil {
			return err
		}
		keep := make(map[uuid.UUID]bool, len(slots))
		for i := range slots {
			slots[i].TheaterID = theater.ID
			slots[i].Position = i
			if slots[i].ID != uuid.Nil {
				keep[slots[i].ID] = true
			}
		}

		var drop []uuid.UUID
		for _, s := range existing {
			if !keep[s.ID] {
				drop = append(drop, s.ID)
			}
		}
		if len(drop) > 0 {
			if err := tx.Where("slot_id IN ?", drop).Delete(&SlotDate{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", drop).Delete(&Slot{}).Error; err != nil {
				return err
			}
		}

		for i := range slots {
			s := &slots[i]
			if s.ID == uuid.Nil {
				if err := tx.Omit("Dates").Create(s).Error; err != nil {
					return err
				}
				continue
			}
			res := tx.Model(&Slot{}).Where("id = ? AND theater_id = ?", s.ID, theater.ID).
				Updates(map[string]interface{}{
					"position":   s.Position,
					"start_time": s.StartTime,
					"end_time":   s.EndTime,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Unknown id from the client, treat as a new slot.
				s.ID = uuid.Nil
				if err := tx.Omit("Dates").Create(s).Error; err != nil {
					return err
				}
			}
		}
		theater.Slots = slots
		theater.IndexSlots()
		return nil
	})
}

func (r *repository) AppendImages(ctx context.Context, id uuid.UUID, urls []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var theater Theater
		if err := tx.Select("id", "images").First(&theater, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTheaterNotFound
			}
			return err
		}
		theater.Images = append(theater.Images, urls...)
		return tx.Model(&theater).Update("images", theater.Images).Error
	})
}

// Delete removes a theater with its slots and slot dates. Foreign keys are
// not created by migration, so children are removed explicitly.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Theater{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTheaterNotFound
		}
		if err := tx.Where("theater_id = ?", id).Delete(&SlotDate{}).Error; err != nil {
			return err
		}
		return tx.Where("theater_id = ?", id).Delete(&Slot{}).Error
	})
}

func (r *repository) PruneSlotDatesBefore(ctx context.Context, day time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("date < ?", day).Delete(&SlotDate{})
	return res.RowsAffected, res.Error
}
