package config

import (
	"log"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/core/domain"
	"github.com/ntubimd/camping-backend/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedDemoCatalog(); err != nil {
		log.Printf("⚠️ Demo catalog seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Account:  "admin",
		Email:    "admin@ntub.edu.tw",
		Password: hashedPassword,
		Nickname: "Administrator",
		Role:     string(domain.RoleAdmin),
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Account)
	return nil
}

// seedDemoCatalog seeds two demo users, a gear listing and the approved
// borrower link between them, so a fresh dev database can walk the whole
// rental lifecycle immediately.
func (s *Seeder) seedDemoCatalog() error {
	var count int64
	s.db.Model(&models.ProductGroup{}).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("demo123456")
	if err != nil {
		return err
	}

	owner := &models.User{
		Account:  "gearowner",
		Email:    "owner@example.com",
		Password: hashedPassword,
		Nickname: "Gear Owner",
		Role:     string(domain.RoleUser),
	}
	renter := &models.User{
		Account:  "camper",
		Email:    "camper@example.com",
		Password: hashedPassword,
		Nickname: "Weekend Camper",
		Role:     string(domain.RoleUser),
	}
	for _, u := range []*models.User{owner, renter} {
		if err := s.db.Create(u).Error; err != nil {
			return err
		}
	}

	group := &models.ProductGroup{
		Name:          "4-person camp set",
		Price:         500,
		City:          "Taipei",
		CreateAccount: owner.Account,
		Available:     true,
		Enable:        true,
		Products: []models.Product{
			{Name: "Tent", Count: 1, Brand: "Snow Peak", Enable: true},
			{Name: "Sleeping bag", Count: 4, Brand: "Coleman", Enable: true},
			{Name: "Camp stove", Count: 1, Brand: "SOTO", Enable: true},
		},
	}
	if err := s.db.Create(group).Error; err != nil {
		return err
	}

	link := &models.CanBorrowProductGroup{
		GroupID:     group.ID,
		UserAccount: renter.Account,
	}
	if err := s.db.Create(link).Error; err != nil {
		return err
	}

	log.Printf("✅ Demo catalog created: group %d owned by %s, borrowable by %s",
		group.ID, owner.Account, renter.Account)
	return nil
}
