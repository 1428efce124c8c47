package theaters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"theaterbook/internal/branches"
	"theaterbook/internal/shared/constants"
	"theaterbook/internal/timewindow"
	"theaterbook/pkg/cache"
	"theaterbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrImagesNotSupported = errors.New("image storage is not configured")
)

// ImageStore persists uploaded theater images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// BranchReader resolves branch details for branch scoped listings.
type BranchReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*branches.Branch, error)
}

type Service interface {
	Create(ctx context.Context, req CreateTheaterRequest) (*Theater, error)
	Get(ctx context.Context, id string) (*Theater, error)
	Update(ctx context.Context, id string, req UpdateTheaterRequest) (*Theater, error)
	Delete(ctx context.Context, id string) error

	AvailableSlots(ctx context.Context, id, date string) (*AvailabilityResponse, error)
	ListWithAvailability(ctx context.Context, date string) ([]TheaterAvailability, error)
	AvailabilityByLocation(ctx context.Context, location, date string) ([]TheaterAvailability, error)
	ListByBranch(ctx context.Context, branchID string) ([]Theater, error)
	LocationsByBranch(ctx context.Context, branchID string) (*BranchLocationsResponse, error)
	UploadImages(ctx context.Context, id string, files []*multipart.FileHeader) (*Theater, error)

	// InvalidateAvailability drops cached slot state of a theater after a
	// booking changed it.
	InvalidateAvailability(ctx context.Context, theaterID uuid.UUID)
}

type service struct {
	repo     Repository
	branches BranchReader
	cache    cache.Service
	images   ImageStore
	window   *timewindow.Window
	now      func() time.Time
	log      *logger.Logger
}

// NewService wires the theater service. images may be nil when uploads are
// disabled.
func NewService(repo Repository, branchRepo BranchReader, c cache.Service, images ImageStore, window *timewindow.Window) Service {
	return &service{
		repo:     repo,
		branches: branchRepo,
		cache:    c,
		images:   images,
		window:   window,
		now:      time.Now,
		log:      logger.GetDefault(),
	}
}

func parseUUID(id, what string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s id %q", ErrInvalidInput, what, id)
	}
	return parsed, nil
}

func buildSlots(in []SlotInput) ([]Slot, error) {
	slots := make([]Slot, 0, len(in))
	for i, s := range in {
		if err := timewindow.ValidateSlot(s.StartTime, s.EndTime); err != nil {
			return nil, fmt.Errorf("slot %d: %w", i+1, err)
		}
		slot := Slot{Position: i, StartTime: strings.TrimSpace(s.StartTime), EndTime: strings.TrimSpace(s.EndTime)}
		if s.ID != "" {
			id, err := parseUUID(s.ID, "slot")
			if err != nil {
				return nil, err
			}
			slot.ID = id
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (s *service) invalidateTheater(ctx context.Context, theaterID uuid.UUID) {
	for _, pattern := range []string{constants.CACHE_PATTERN_THEATERS, constants.BuildAvailabilityTheaterPattern(theaterID.String())} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			s.log.WarnContext(ctx, "failed to invalidate theater cache", slog.String("pattern", pattern), slog.Any("error", err))
		}
	}
}

func (s *service) InvalidateAvailability(ctx context.Context, theaterID uuid.UUID) {
	pattern := constants.BuildAvailabilityTheaterPattern(theaterID.String())
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate availability cache", slog.String("theater_id", theaterID.String()), slog.Any("error", err))
	}
	if err := s.cache.Delete(ctx, constants.BuildTheaterDetailKey(theaterID.String())); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate theater detail", slog.String("theater_id", theaterID.String()), slog.Any("error", err))
	}
}

func (s *service) Create(ctx context.Context, req CreateTheaterRequest) (*Theater, error) {
	slots, err := buildSlots(req.Slots)
	if err != nil {
		return nil, err
	}
	for i := range slots {
		slots[i].ID = uuid.Nil
	}

	theater := &Theater{
		Name:                    strings.TrimSpace(req.Name),
		Location:                strings.TrimSpace(req.Location),
		LocationLink:            req.LocationLink,
		MaxCapacity:             req.MaxCapacity,
		GroupSize:               req.GroupSize,
		Amenities:               req.Amenities,
		Price:                   req.Price,
		MinimumDecorationAmount: req.MinimumDecorationAmount,
		ExtraPerPerson:          req.ExtraPerPerson,
		Images:                  req.Images,
		Status:                  StatusAvailable,
		Slots:                   slots,
	}
	if req.Status != "" {
		theater.Status = TheaterStatus(req.Status)
	}
	if req.BranchID != "" {
		branchID, err := parseUUID(req.BranchID, "branch")
		if err != nil {
			return nil, err
		}
		if _, err := s.branches.FindByID(ctx, branchID); err != nil {
			return nil, err
		}
		theater.BranchID = &branchID
	}

	if err := s.repo.Create(ctx, theater); err != nil {
		return nil, fmt.Errorf("failed to create theater: %w", err)
	}
	s.invalidateTheater(ctx, theater.ID)
	return theater, nil
}

func (s *service) Get(ctx context.Context, id string) (*Theater, error) {
	theaterID, err := parseUUID(id, "theater")
	if err != nil {
		return nil, err
	}

	var theater Theater
	err = s.cache.GetOrSet(ctx, constants.BuildTheaterDetailKey(id), constants.TTL_THEATER_DETAIL, func() (interface{}, error) {
		return s.repo.FindByID(ctx, theaterID)
	}, &theater)
	if err != nil {
		return nil, err
	}
	theater.IndexSlots()
	return &theater, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateTheaterRequest) (*Theater, error) {
	theaterID, err := parseUUID(id, "theater")
	if err != nil {
		return nil, err
	}
	theater, err := s.repo.FindByID(ctx, theaterID)
	if err != nil {
		return nil, err
	}

	if req.BranchID != nil {
		branchID, err := parseUUID(*req.BranchID, "branch")
		if err != nil {
			return nil, err
		}
		if _, err := s.branches.FindByID(ctx, branchID); err != nil {
			return nil, err
		}
		theater.BranchID = &branchID
	}
	if req.Name != nil {
		theater.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		theater.Location = strings.TrimSpace(*req.Location)
	}
	if req.LocationLink != nil {
		theater.LocationLink = *req.LocationLink
	}
	if req.MaxCapacity != nil {
		theater.MaxCapacity = *req.MaxCapacity
	}
	if req.GroupSize != nil {
		theater.GroupSize = *req.GroupSize
	}
	if req.Amenities != nil {
		theater.Amenities = req.Amenities
	}
	if req.Price != nil {
		theater.Price = *req.Price
	}
	if req.MinimumDecorationAmount != nil {
		theater.MinimumDecorationAmount = *req.MinimumDecorationAmount
	}
	if req.ExtraPerPerson != nil {
		theater.ExtraPerPerson = *req.ExtraPerPerson
	}
	if req.Images != nil {
		theater.Images = req.Images
	}
	if req.Status != nil {
		theater.Status = TheaterStatus(*req.Status)
	}

	var slots []Slot
	if req.Slots != nil {
		if slots, err = buildSlots(*req.Slots); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, theater, slots); err != nil {
		return nil, fmt.Errorf("failed to update theater: %w", err)
	}
	s.invalidateTheater(ctx, theater.ID)
	return s.repo.FindByID(ctx, theater.ID)
}

func (s *service) Delete(ctx context.Context, id string) error {
	theaterID, err := parseUUID(id, "theater")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, theaterID); err != nil {
		return err
	}
	s.invalidateTheater(ctx, theaterID)
	return nil
}

// theaterForDay loads slot state for one day, cached until a booking touches
// the theater. Bookability is always evaluated against the current clock.
func (s *service) theaterForDay(ctx context.Context, theaterID uuid.UUID, day time.Time) (*Theater, error) {
	var theater Theater
	key := constants.BuildAvailabilityKey(theaterID.String(), day.Format(timewindow.DayLayout))
	err := s.cache.GetOrSet(ctx, key, constants.TTL_AVAILABILITY, func() (interface{}, error) {
		return s.repo.FindForDay(ctx, theaterID, day)
	}, &theater)
	if err != nil {
		return nil, err
	}
	theater.IndexSlots()
	return &theater, nil
}

func (s *service) AvailableSlots(ctx context.Context, id, date string) (*AvailabilityResponse, error) {
	theaterID, err := parseUUID(id, "theater")
	if err != nil {
		return nil, err
	}
	day, err := s.window.ParseDate(date)
	if err != nil {
		return nil, err
	}

	theater, err := s.theaterForDay(ctx, theaterID, day)
	if err != nil {
		return nil, err
	}
	slots, err := ComputeAvailability(theater, day, s.now(), s.window)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{
		TheaterID:      theater.ID.String(),
		TheaterName:    theater.Name,
		Date:           day.Format(timewindow.DayLayout),
		AvailableSlots: slots,
	}, nil
}

func (s *service) withAvailability(list []Theater, day time.Time) ([]TheaterAvailability, error) {
	now := s.now()
	key := day.Format(timewindow.DayLayout)
	out := make([]TheaterAvailability, 0, len(list))
	for i := range list {
		slots, err := ComputeAvailability(&list[i], day, now, s.window)
		if err != nil {
			return nil, err
		}
		out = append(out, TheaterAvailability{Theater: list[i], Date: key, AvailableSlots: slots})
	}
	return out, nil
}

func (s *service) ListWithAvailability(ctx context.Context, date string) ([]TheaterAvailability, error) {
	day := s.window.CivilDay(s.now())
	if date != "" {
		parsed, err := s.window.ParseDate(date)
		if err != nil {
			return nil, err
		}
		day = parsed
	}

	list, err := s.repo.ListForDay(ctx, ListFilter{}, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list theaters: %w", err)
	}
	return s.withAvailability(list, day)
}

func (s *service) AvailabilityByLocation(ctx context.Context, location, date string) ([]TheaterAvailability, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	day, err := s.window.ParseDate(date)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.ListForDay(ctx, ListFilter{Location: location}, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list theaters: %w", err)
	}
	return s.withAvailability(list, day)
}

func (s *service) ListByBranch(ctx context.Context, branchID string) ([]Theater, error) {
	id, err := parseUUID(branchID, "branch")
	if err != nil {
		return nil, err
	}

	var list []Theater
	err = s.cache.GetOrSet(ctx, constants.BuildTheatersByBranchKey(branchID), constants.TTL_THEATER_LIST, func() (interface{}, error) {
		return s.repo.List(ctx, ListFilter{BranchID: &id})
	}, &list)
	return list, err
}

func (s *service) LocationsByBranch(ctx context.Context, branchID string) (*BranchLocationsResponse, error) {
	id, err := parseUUID(branchID, "branch")
	if err != nil {
		return nil, err
	}
	branch, err := s.branches.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var locations []string
	err = s.cache.GetOrSet(ctx, constants.BuildBranchLocationsKey(branchID), constants.TTL_BRANCH_LOCATIONS, func() (interface{}, error) {
		return s.repo.DistinctLocations(ctx, id)
	}, &locations)
	if err != nil {
		return nil, err
	}
	return &BranchLocationsResponse{Branch: branch, Locations: locations}, nil
}

func (s *service) UploadImages(ctx context.Context, id string, files []*multipart.FileHeader) (*Theater, error) {
	if s.images == nil {
		return nil, ErrImagesNotSupported
	}
	theaterID, err := parseUUID(id, "theater")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no images provided", ErrInvalidInput)
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := s.uploadOne(ctx, theaterID, fh)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	if err := s.repo.AppendImages(ctx, theaterID, urls); err != nil {
		return nil, err
	}
	s.invalidateTheater(ctx, theaterID)
	return s.repo.FindByID(ctx, theaterID)
}

func (s *service) uploadOne(ctx context.Context, theaterID uuid.UUID, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s is not an image", ErrInvalidInput, fh.Filename)
	}
	key := fmt.Sprintf("theaters/%s/%s%s", theaterID, uuid.NewString(), strings.ToLower(filepath.Ext(fh.Filename)))
	return s.images.Upload(ctx, key, contentType, f)
}
