package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Account   string         `gorm:"uniqueIndex;size:50;not null" json:"account"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Nickname  string         `gorm:"size:50" json:"nickname"`
	Role      string         `gorm:"size:20;default:'USER'" json:"role"`
	IsLocked  bool           `gorm:"default:false" json:"is_locked"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return domain.Role(u.Role).IsAdmin()
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Account   string    `json:"account"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	Role      string    `json:"role"`
	IsLocked  bool      `json:"is_locked"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Account:   u.Account,
		Email:     u.Email,
		Nickname:  u.Nickname,
		Role:      u.Role,
		IsLocked:  u.IsLocked,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Tables
// ============================================================

// ProductGroup is a bundle of camping gear listed for rent as one unit.
type ProductGroup struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	CoverImage    string         `gorm:"size:255" json:"cover_image"`
	Price         int            `gorm:"not null" json:"price"`
	City          string         `gorm:"size:50" json:"city"`
	CreateAccount string         `gorm:"size:50;not null;index" json:"create_account"`
	Available     bool           `gorm:"default:true" json:"available"`
	Enable        bool           `gorm:"default:true" json:"enable"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Products  []Product               `gorm:"foreignKey:GroupID" json:"products,omitempty"`
	CanBorrow []CanBorrowProductGroup `gorm:"foreignKey:GroupID" json:"can_borrow,omitempty"`
}

func (ProductGroup) TableName() string {
	return "product_groups"
}

// CanBorrowAccount reports whether the account is on the approved-borrower list.
func (g *ProductGroup) CanBorrowAccount(account string) bool {
	for _, cb := range g.CanBorrow {
		if cb.UserAccount == account {
			return true
		}
	}
	return false
}

// Product represents one piece of gear inside a product group
type Product struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	GroupID        uint           `gorm:"not null;index" json:"group_id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	Count          int            `gorm:"not null;default:1" json:"count"`
	Brand          string         `gorm:"size:50" json:"brand"`
	UseInformation string         `gorm:"type:text" json:"use_information"`
	Enable         bool           `gorm:"default:true" json:"enable"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// CanBorrowProductGroup is the approved-borrower list of a product group
type CanBorrowProductGroup struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GroupID     uint      `gorm:"not null;uniqueIndex:idx_group_account" json:"group_id"`
	UserAccount string    `gorm:"size:50;not null;uniqueIndex:idx_group_account" json:"user_account"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CanBorrowProductGroup) TableName() string {
	return "can_borrow_product_groups"
}

// ============================================================
// Rental Tables
// ============================================================

// RentalRecord is one borrow transaction of a product group.
// Status only ever changes through the status policy registry.
type RentalRecord struct {
	ID                uint                      `gorm:"primaryKey" json:"id"`
	RenterAccount     string                    `gorm:"size:50;not null;index" json:"renter_account"`
	ProductGroupID    uint                      `gorm:"not null;index" json:"product_group_id"`
	Price             int                       `gorm:"not null" json:"price"`
	BorrowStartDate   time.Time                 `gorm:"not null" json:"borrow_start_date"`
	BorrowEndDate     time.Time                 `gorm:"not null" json:"borrow_end_date"`
	Status            domain.RentalRecordStatus `gorm:"size:20;not null;index" json:"status"`
	CompensationPrice *int                      `json:"compensation_price"`
	Enable            bool                      `gorm:"default:true" json:"enable"`
	RentalDate        time.Time                 `gorm:"autoCreateTime" json:"rental_date"`
	UpdatedAt         time.Time                 `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	ProductGroup *ProductGroup  `gorm:"foreignKey:ProductGroupID" json:"product_group,omitempty"`
	Details      []RentalDetail `gorm:"foreignKey:RecordID" json:"details,omitempty"`
}

func (RentalRecord) TableName() string {
	return "rental_records"
}

// OwnerAccount returns the listing owner, empty when the group is not loaded.
func (r *RentalRecord) OwnerAccount() string {
	if r.ProductGroup == nil {
		return ""
	}
	return r.ProductGroup.CreateAccount
}

// RentalRecordResponse DTO
type RentalRecordResponse struct {
	ID                uint                      `json:"id"`
	RenterAccount     string                    `json:"renter_account"`
	ProductGroupID    uint                      `json:"product_group_id"`
	ProductGroupName  string                    `json:"product_group_name,omitempty"`
	OwnerAccount      string                    `json:"owner_account,omitempty"`
	Price             int                       `json:"price"`
	BorrowStartDate   time.Time                 `json:"borrow_start_date"`
	BorrowEndDate     time.Time                 `json:"borrow_end_date"`
	Status            domain.RentalRecordStatus `json:"status"`
	StatusDescription string                    `json:"status_description,omitempty"`
	CompensationPrice *int                      `json:"compensation_price,omitempty"`
	RentalDate        time.Time                 `json:"rental_date"`
}

func (r *RentalRecord) ToResponse() *RentalRecordResponse {
	resp := &RentalRecordResponse{
		ID:                r.ID,
		RenterAccount:     r.RenterAccount,
		ProductGroupID:    r.ProductGroupID,
		Price:             r.Price,
		BorrowStartDate:   r.BorrowStartDate,
		BorrowEndDate:     r.BorrowEndDate,
		Status:            r.Status,
		CompensationPrice: r.CompensationPrice,
		RentalDate:        r.RentalDate,
	}

	if r.ProductGroup != nil {
		resp.ProductGroupName = r.ProductGroup.Name
		resp.OwnerAccount = r.ProductGroup.CreateAccount
	}

	return resp
}

// RentalDetail is a snapshot of one product taken when the record is created,
// so later catalog edits do not rewrite what was actually borrowed.
type RentalDetail struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RecordID  uint      `gorm:"not null;index" json:"record_id"`
	ProductID uint      `gorm:"not null" json:"product_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Count     int       `gorm:"not null" json:"count"`
	Brand     string    `gorm:"size:50" json:"brand"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RentalDetail) TableName() string {
	return "rental_details"
}

// RentalRecordStatusChangeLog is the audit trail of status transitions.
// Keyed by (record_id, to_status): re-entering a destination replaces the
// previous entry for that destination instead of appending a duplicate.
type RentalRecordStatusChangeLog struct {
	RecordID    uint                      `gorm:"primaryKey;autoIncrement:false" json:"record_id"`
	ToStatus    domain.RentalRecordStatus `gorm:"primaryKey;size:20" json:"to_status"`
	FromStatus  domain.RentalRecordStatus `gorm:"size:20;not null" json:"from_status"`
	Description string                    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time                 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RentalRecordStatusChangeLog) TableName() string {
	return "rental_record_status_change_logs"
}

// UserComment is one directional rating between the two parties of a record.
// UserAccount is the rated party, CommentAccount the party who submitted it.
type UserComment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RecordID       uint      `gorm:"not null;uniqueIndex:idx_record_rated" json:"record_id"`
	UserAccount    string    `gorm:"size:50;not null;uniqueIndex:idx_record_rated" json:"user_account"`
	CommentAccount string    `gorm:"size:50;not null" json:"comment_account"`
	Rating         int       `gorm:"not null" json:"rating"`
	Content        string    `gorm:"size:255" json:"content"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserComment) TableName() string {
	return "user_comments"
}

// UserCompensateRecord tracks money a renter owes for damaged gear.
// An uncompensated row blocks the renter from creating new rentals.
type UserCompensateRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecordID    uint      `gorm:"not null;index" json:"record_id"`
	UserAccount string    `gorm:"size:50;not null;index" json:"user_account"`
	Price       int       `gorm:"not null" json:"price"`
	Compensated bool      `gorm:"default:false" json:"compensated"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserCompensateRecord) TableName() string {
	return "user_compensate_records"
}

// Notification is the stored copy of an outbound lifecycle notification.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserAccount string    `gorm:"size:50;not null;index" json:"user_account"`
	RecordID    uint      `gorm:"not null;index" json:"record_id"`
	Content     string    `gorm:"size:255;not null" json:"content"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&ProductGroup{},
		&Product{},
		&CanBorrowProductGroup{},
		&RentalRecord{},
		&RentalDetail{},
		&RentalRecordStatusChangeLog{},
		&UserComment{},
		&UserCompensateRecord{},
		&Notification{},
	)
}
