package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/adapters/persistence/repositories"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// txManagerMock runs the unit of work directly, without a database.
type txManagerMock struct{}

func (txManagerMock) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type userRepoMock struct {
	createFn          func(ctx context.Context, user *models.User) error
	getByIDFn         func(ctx context.Context, id uint) (*models.User, error)
	getByAccountFn    func(ctx context.Context, account string) (*models.User, error)
	updateFn          func(ctx context.Context, user *models.User) error
	listFn            func(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	existsByAccountFn func(ctx context.Context, account string) (bool, error)
	existsByEmailFn   func(ctx context.Context, email string) (bool, error)
	isLockedFn        func(ctx context.Context, account string) (bool, error)
}

func (m *userRepoMock) Create(ctx context.Context, user *models.User) error {
	return m.createFn(ctx, user)
}

func (m *userRepoMock) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *userRepoMock) GetByAccount(ctx context.Context, account string) (*models.User, error) {
	return m.getByAccountFn(ctx, account)
}

func (m *userRepoMock) Update(ctx context.Context, user *models.User) error {
	return m.updateFn(ctx, user)
}

func (m *userRepoMock) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return m.listFn(ctx, offset, limit)
}

func (m *userRepoMock) ExistsByAccount(ctx context.Context, account string) (bool, error) {
	return m.existsByAccountFn(ctx, account)
}

func (m *userRepoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.existsByEmailFn(ctx, email)
}

func (m *userRepoMock) IsLocked(ctx context.Context, account string) (bool, error) {
	return m.isLockedFn(ctx, account)
}

type groupRepoMock struct {
	getByIDFn             func(ctx context.Context, id uint) (*models.ProductGroup, error)
	listFn                func(ctx context.Context, offset, limit int) ([]*models.ProductGroup, int64, error)
	listEnabledProductsFn func(ctx context.Context, groupID uint) ([]*models.Product, error)
	setAvailableFn        func(ctx context.Context, tx *gorm.DB, groupID uint, available bool) error
}

func (m *groupRepoMock) GetByID(ctx context.Context, id uint) (*models.ProductGroup, error) {
	return m.getByIDFn(ctx, id)
}

func (m *groupRepoMock) List(ctx context.Context, offset, limit int) ([]*models.ProductGroup, int64, error) {
	return m.listFn(ctx, offset, limit)
}

func (m *groupRepoMock) ListEnabledProducts(ctx context.Context, groupID uint) ([]*models.Product, error) {
	return m.listEnabledProductsFn(ctx, groupID)
}

func (m *groupRepoMock) SetAvailable(ctx context.Context, tx *gorm.DB, groupID uint, available bool) error {
	return m.setAvailableFn(ctx, tx, groupID, available)
}

type recordRepoMock struct {
	createFn           func(ctx context.Context, tx *gorm.DB, record *models.RentalRecord) error
	getByIDFn          func(ctx context.Context, id uint) (*models.RentalRecord, error)
	getByIDForUpdateFn func(ctx context.Context, tx *gorm.DB, id uint) (*models.RentalRecord, error)
	updateFn           func(ctx context.Context, tx *gorm.DB, record *models.RentalRecord) error
	listFn             func(ctx context.Context, filter *repositories.RentalRecordFilter) ([]*models.RentalRecord, error)
	listByRenterFn     func(ctx context.Context, account string) ([]*models.RentalRecord, error)
	listByOwnerFn      func(ctx context.Context, account string) ([]*models.RentalRecord, error)
	listByStatusFn     func(ctx context.Context, status domain.RentalRecordStatus) ([]*models.RentalRecord, error)
	listStaleFn        func(ctx context.Context, status domain.RentalRecordStatus, before time.Time) ([]*models.RentalRecord, error)
}

func (m *recordRepoMock) Create(ctx context.Context, tx *gorm.DB, record *models.RentalRecord) error {
	return m.createFn(ctx, tx, record)
}

func (m *recordRepoMock) GetByID(ctx context.Context, id uint) (*models.RentalRecord, error) {
	return m.getByIDFn(ctx, id)
}

func (m *recordRepoMock) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.RentalRecord, error) {
	return m.getByIDForUpdateFn(ctx, tx, id)
}

func (m *recordRepoMock) Update(ctx context.Context, tx *gorm.DB, record *models.RentalRecord) error {
	return m.updateFn(ctx, tx, record)
}

func (m *recordRepoMock) List(ctx context.Context, filter *repositories.RentalRecordFilter) ([]*models.RentalRecord, error) {
	return m.listFn(ctx, filter)
}

func (m *recordRepoMock) ListByRenter(ctx context.Context, account string) ([]*models.RentalRecord, error) {
	return m.listByRenterFn(ctx, account)
}

func (m *recordRepoMock) ListByOwner(ctx context.Context, account string) ([]*models.RentalRecord, error) {
	return m.listByOwnerFn(ctx, account)
}

func (m *recordRepoMock) ListByStatus(ctx context.Context, status domain.RentalRecordStatus) ([]*models.RentalRecord, error) {
	return m.listByStatusFn(ctx, status)
}

func (m *recordRepoMock) ListStaleByStatus(ctx context.Context, status domain.RentalRecordStatus, before time.Time) ([]*models.RentalRecord, error) {
	return m.listStaleFn(ctx, status, before)
}

type detailRepoMock struct {
	createAllFn    func(ctx context.Context, tx *gorm.DB, details []models.RentalDetail) error
	listByRecordFn func(ctx context.Context, recordID uint) ([]*models.RentalDetail, error)
}

func (m *detailRepoMock) CreateAll(ctx context.Context, tx *gorm.DB, details []models.RentalDetail) error {
	return m.createAllFn(ctx, tx, details)
}

func (m *detailRepoMock) ListByRecord(ctx context.Context, recordID uint) ([]*models.RentalDetail, error) {
	return m.listByRecordFn(ctx, recordID)
}

type changeLogRepoMock struct {
	upsertFn   func(ctx context.Context, tx *gorm.DB, log *models.RentalRecordStatusChangeLog) error
	getByKeyFn func(ctx context.Context, recordID uint, toStatus domain.RentalRecordStatus) (*models.RentalRecordStatusChangeLog, error)
}

func (m *changeLogRepoMock) Upsert(ctx context.Context, tx *gorm.DB, log *models.RentalRecordStatusChangeLog) error {
	return m.upsertFn(ctx, tx, log)
}

func (m *changeLogRepoMock) GetByKey(ctx context.Context, recordID uint, toStatus domain.RentalRecordStatus) (*models.RentalRecordStatusChangeLog, error) {
	return m.getByKeyFn(ctx, recordID, toStatus)
}

type commentRepoMock struct {
	existsFn      func(ctx context.Context, recordID uint, ratedAccount string) (bool, error)
	createFn      func(ctx context.Context, comment *models.UserComment) error
	listByRatedFn func(ctx context.Context, account string) ([]*models.UserComment, error)
}

func (m *commentRepoMock) Exists(ctx context.Context, recordID uint, ratedAccount string) (bool, error) {
	return m.existsFn(ctx, recordID, ratedAccount)
}

func (m *commentRepoMock) Create(ctx context.Context, comment *models.UserComment) error {
	return m.createFn(ctx, comment)
}

func (m *commentRepoMock) ListByRated(ctx context.Context, account string) ([]*models.UserComment, error) {
	return m.listByRatedFn(ctx, account)
}

type compensationRepoMock struct {
	createFn              func(ctx context.Context, record *models.UserCompensateRecord) error
	existsUncompensatedFn func(ctx context.Context, account string) (bool, error)
	markCompensatedFn     func(ctx context.Context, tx *gorm.DB, recordID uint) error
}

func (m *compensationRepoMock) Create(ctx context.Context, record *models.UserCompensateRecord) error {
	return m.createFn(ctx, record)
}

func (m *compensationRepoMock) ExistsUncompensated(ctx context.Context, account string) (bool, error) {
	return m.existsUncompensatedFn(ctx, account)
}

func (m *compensationRepoMock) MarkCompensated(ctx context.Context, tx *gorm.DB, recordID uint) error {
	return m.markCompensatedFn(ctx, tx, recordID)
}

// notifierMock records the notifications a test flow produced.
type notifierMock struct {
	records []*models.RentalRecord
}

func (m *notifierMock) Notify(record *models.RentalRecord) {
	m.records = append(m.records, record)
}

// transitionerMock records status change requests from the comment workflow.
type transitionerMock struct {
	inputs []*StatusChangeInput
	err    error
}

func (m *transitionerMock) UpdateStatus(ctx context.Context, input *StatusChangeInput) error {
	m.inputs = append(m.inputs, input)
	return m.err
}
