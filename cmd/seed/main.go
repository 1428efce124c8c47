package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"theaterbook/internal/bookings"
	"theaterbook/internal/branches"
	"theaterbook/internal/coupons"
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/database"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"
	"theaterbook/internal/users"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Seeder struct {
	db     *database.DB
	window *timewindow.Window
}

func main() {
	fmt.Println("🌱 Starting Theaterbook Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, window: timewindow.New(cfg.Booking.Timezone, cfg.Booking.MinRemaining)}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(cfg); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates every table owned by the service.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"contacts",
		"expenses",
		"unsaved_bookings",
		"bookings",
		"coupons",
		"slot_dates",
		"theater_slots",
		"theaters",
		"otps",
		"users",
		"branches",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll(cfg *config.Config) error {
	ctx := context.Background()

	branchIDs, err := s.SeedBranches()
	if err != nil {
		return fmt.Errorf("failed to seed branches: %w", err)
	}

	userIDs, err := s.SeedUsers(cfg, branchIDs[0])
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	theaterList, err := s.SeedTheaters(branchIDs)
	if err != nil {
		return fmt.Errorf("failed to seed theaters: %w", err)
	}

	if err := s.SeedCoupons(theaterList[0].ID); err != nil {
		return fmt.Errorf("failed to seed coupons: %w", err)
	}

	if err := s.SeedBooking(ctx, theaterList[0], userIDs["customer"]); err != nil {
		return fmt.Errorf("failed to seed booking: %w", err)
	}

	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}
	return nil
}

func (s *Seeder) SeedBranches() ([]uuid.UUID, error) {
	fmt.Println("  🏢 Seeding branches...")

	list := []branches.Branch{
		{BranchName: "Koramangala", Location: "Bengaluru", Number: "+919900000001"},
		{BranchName: "Jubilee Hills", Location: "Hyderabad", Number: "+919900000002"},
	}
	ids := make([]uuid.UUID, 0, len(list))
	for i := range list {
		list[i].Code = slug.Make(list[i].BranchName)
		if err := s.db.PostgreSQL.Create(&list[i]).Error; err != nil {
			return nil, err
		}
		ids = append(ids, list[i].ID)
		fmt.Printf("    ✅ %s (%s)\n", list[i].BranchName, list[i].Code)
	}
	return ids, nil
}

func strPtr(v string) *string { return &v }

// SeedUsers creates the configured superadmin, a branch admin and a customer.
func (s *Seeder) SeedUsers(cfg *config.Config, branchID uuid.UUID) (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	superEmail := cfg.AdminEmail
	if superEmail == "" {
		superEmail = "owner@theaterbook.local"
	}
	seed := map[string]*users.User{
		"superadmin": {Email: strPtr(superEmail), FullName: "Owner", Role: users.RoleSuperAdmin, AuthType: users.AuthEmailOTP, Active: true},
		"admin":      {Email: strPtr("manager@theaterbook.local"), FullName: "Branch Manager", Role: users.RoleAdmin, AuthType: users.AuthEmailOTP, BranchID: &branchID, Active: true},
		"customer":   {PhoneNumber: strPtr(users.NormalizePhone("9876543210")), UID: strPtr("seed-firebase-uid"), FullName: "Asha Rao", Role: users.RoleUser, AuthType: users.AuthFirebase, Active: true},
	}

	ids := make(map[string]uuid.UUID, len(seed))
	for key, u := range seed {
		if err := s.db.PostgreSQL.Create(u).Error; err != nil {
			return nil, err
		}
		ids[key] = u.ID
		fmt.Printf("    ✅ %s (%s)\n", u.FullName, u.Role)
	}
	return ids, nil
}

func (s *Seeder) SeedTheaters(branchIDs []uuid.UUID) ([]theaters.Theater, error) {
	fmt.Println("  🎬 Seeding theaters...")

	daySlots := func() []theaters.Slot {
		return []theaters.Slot{
			{Position: 0, StartTime: "10:00 AM", EndTime: "1:00 PM"},
			{Position: 1, StartTime: "1:30 PM", EndTime: "4:30 PM"},
			{Position: 2, StartTime: "5:00 PM", EndTime: "8:00 PM"},
			{Position: 3, StartTime: "9:00 PM", EndTime: "12:00 AM"},
		}
	}

	list := []theaters.Theater{
		{
			BranchID: &branchIDs[0], Name: "Velvet Room", Location: "Koramangala",
			MaxCapacity: 12, GroupSize: 4, Price: 1999, MinimumDecorationAmount: 750, ExtraPerPerson: 300,
			Amenities: []string{"4K projector", "Dolby Atmos", "Recliners"},
			Status:    theaters.StatusAvailable, Slots: daySlots(),
		},
		{
			BranchID: &branchIDs[0], Name: "Starlight Suite", Location: "Koramangala",
			MaxCapacity: 6, GroupSize: 2, Price: 1499, MinimumDecorationAmount: 500, ExtraPerPerson: 250,
			Amenities: []string{"Couple recliner", "Fog entry"},
			Status:    theaters.StatusAvailable, Slots: daySlots(),
		},
		{
			BranchID: &branchIDs[1], Name: "Marquee", Location: "Jubilee Hills",
			MaxCapacity: 20, GroupSize: 6, Price: 2999, MinimumDecorationAmount: 1000, ExtraPerPerson: 350,
			Amenities: []string{"Stage", "Karaoke"},
			Status:    theaters.StatusComingSoon, Slots: daySlots(),
		},
	}

	for _, t := range list {
		for _, sl := range t.Slots {
			if err := timewindow.ValidateSlot(sl.StartTime, sl.EndTime); err != nil {
				return nil, err
			}
		}
	}

	repo := theaters.NewRepository(s.db.PostgreSQL)
	for i := range list {
		if err := repo.Create(context.Background(), &list[i]); err != nil {
			return nil, err
		}
		fmt.Printf("    ✅ %s with %d slots\n", list[i].Name, len(list[i].Slots))
	}
	return list, nil
}

func (s *Seeder) SeedCoupons(theaterID uuid.UUID) error {
	fmt.Println("  🎟️  Seeding coupons...")

	now := time.Now()
	list := []coupons.Coupon{
		{
			Code: "WELCOME10", Type: coupons.TypeOffer, Description: "10% off your first celebration",
			DiscountAmount: 10, DiscountType: coupons.DiscountPercentage,
			ValidFrom: now.Add(-24 * time.Hour), ValidUntil: now.AddDate(0, 3, 0),
			IsActive: true, UsageLimit: 100, UserLimit: 1, MinOrderValue: 1000,
		},
		{
			Code: "VELVET500", Type: coupons.TypeCoupon, Description: "Flat 500 off at Velvet Room",
			DiscountAmount: 500, DiscountType: coupons.DiscountFixed,
			ValidFrom: now.Add(-24 * time.Hour), ValidUntil: now.AddDate(0, 1, 0),
			IsActive: true, TheaterID: &theaterID, UsageLimit: 20, UserLimit: 1,
		},
	}
	for i := range list {
		if err := s.db.PostgreSQL.Create(&list[i]).Error; err != nil {
			return err
		}
		fmt.Printf("    ✅ %s\n", list[i].Code)
	}
	return nil
}

// SeedBooking books tomorrow's first slot through the allocator so the slot
// date marker is written the same way checkout writes it.
func (s *Seeder) SeedBooking(ctx context.Context, t theaters.Theater, userID uuid.UUID) error {
	fmt.Println("  📅 Seeding booking...")

	repo := theaters.NewRepository(s.db.PostgreSQL)
	allocator := bookings.NewAllocator(repo, bookings.NewAllocationStore(s.db.PostgreSQL), s.window)
	day := s.window.CivilDay(time.Now()).AddDate(0, 0, 1)

	b, err := allocator.Allocate(ctx, bookings.AllocationRequest{
		TheaterID: t.ID,
		SlotID:    t.Slots[0].ID,
		Date:      day,
		UserID:    userID,
		Details: bookings.Booking{
			FullName:       "Asha Rao",
			NumberOfPeople: 4,
			PhoneNumber:    "+919876543210",
			Email:          "asha@example.com",
			Occasion:       map[string]interface{}{"name": "Birthday"},
			PaymentStatus:  bookings.PaymentCompleted,
			PaymentAmount:  750,
			TotalAmount:    t.Price,
		},
	})
	if err != nil {
		return err
	}
	fmt.Printf("    ✅ %s on %s\n", b.BookingID, s.window.DayKey(day))
	return nil
}
