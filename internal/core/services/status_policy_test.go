package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

func newTestRegistry(groups *groupRepoMock, compensations *compensationRepoMock, now func() time.Time) *StatusPolicyRegistry {
	if groups == nil {
		groups = &groupRepoMock{}
	}
	if compensations == nil {
		compensations = &compensationRepoMock{}
	}
	return NewStatusPolicyRegistry(groups, compensations, now)
}

func TestCanChangeToLegalEdges(t *testing.T) {
	r := newTestRegistry(nil, nil, nil)

	legal := []struct {
		from, to domain.RentalRecordStatus
	}{
		{domain.StatusPending, domain.StatusAgreed},
		{domain.StatusPending, domain.StatusDenied},
		{domain.StatusPending, domain.StatusCanceled},
		{domain.StatusAgreed, domain.StatusBorrowing},
		{domain.StatusAgreed, domain.StatusCanceled},
		{domain.StatusBorrowing, domain.StatusNotCommented},
		{domain.StatusBorrowing, domain.StatusCompensating},
		{domain.StatusCompensating, domain.StatusNotCommented},
		{domain.StatusNotCommented, domain.StatusAlreadyCommented},
	}
	for _, e := range legal {
		if !r.CanChangeTo(e.from, e.to) {
			t.Errorf("expected %s -> %s to be allowed", e.from, e.to)
		}
	}

	illegal := []struct {
		from, to domain.RentalRecordStatus
	}{
		{domain.StatusPending, domain.StatusBorrowing},
		{domain.StatusPending, domain.StatusNotCommented},
		{domain.StatusAgreed, domain.StatusAgreed},
		{domain.StatusAgreed, domain.StatusDenied},
		{domain.StatusBorrowing, domain.StatusCanceled},
		{domain.StatusCompensating, domain.StatusAlreadyCommented},
		{domain.StatusNotCommented, domain.StatusPending},
	}
	for _, e := range illegal {
		if r.CanChangeTo(e.from, e.to) {
			t.Errorf("expected %s -> %s to be rejected", e.from, e.to)
		}
	}
}

func TestCanChangeToTerminalStates(t *testing.T) {
	r := newTestRegistry(nil, nil, nil)

	terminals := []domain.RentalRecordStatus{
		domain.StatusDenied,
		domain.StatusCanceled,
		domain.StatusAlreadyCommented,
	}
	for _, from := range terminals {
		for _, to := range domain.AllStatuses {
			if r.CanChangeTo(from, to) {
				t.Errorf("terminal state %s must not allow a transition to %s", from, to)
			}
		}
		if dests := r.AllowedDestinations(from); len(dests) != 0 {
			t.Errorf("terminal state %s reported destinations %v", from, dests)
		}
	}
}

func TestCanChangeToUnknownStatus(t *testing.T) {
	r := newTestRegistry(nil, nil, nil)

	if r.CanChangeTo("NO_SUCH_STATUS", domain.StatusAgreed) {
		t.Error("unknown origin status must not allow any transition")
	}
	if dests := r.AllowedDestinations("NO_SUCH_STATUS"); dests != nil {
		t.Errorf("unknown origin status reported destinations %v", dests)
	}
}

func TestAllowedDestinationsOrder(t *testing.T) {
	r := newTestRegistry(nil, nil, nil)

	got := r.AllowedDestinations(domain.StatusPending)
	expected := []domain.RentalRecordStatus{
		domain.StatusAgreed,
		domain.StatusDenied,
		domain.StatusCanceled,
	}
	if len(got) != len(expected) {
		t.Fatalf("expected destinations %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected destinations %v, got %v", expected, got)
		}
	}
}

func TestValidateBorrowingBeforeStartDate(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	r := newTestRegistry(nil, nil, func() time.Time { return now })

	record := &models.RentalRecord{
		Status:          domain.StatusAgreed,
		BorrowStartDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	err := r.Validate(record, domain.StatusBorrowing)
	var precondition *domain.PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}

	// once the window opened, pickup is fine
	record.BorrowStartDate = now
	if err := r.Validate(record, domain.StatusBorrowing); err != nil {
		t.Fatalf("expected pickup at start date to pass, got %v", err)
	}
}

func TestValidateCancelAfterStartDate(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	r := newTestRegistry(nil, nil, func() time.Time { return now })

	record := &models.RentalRecord{
		Status:          domain.StatusAgreed,
		BorrowStartDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	err := r.Validate(record, domain.StatusCanceled)
	var precondition *domain.PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}

	record.BorrowStartDate = time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if err := r.Validate(record, domain.StatusCanceled); err != nil {
		t.Fatalf("expected cancel before start date to pass, got %v", err)
	}
}

func TestBeforeChangeAgreedHoldsGroup(t *testing.T) {
	var heldGroup uint
	var heldValue = true
	groups := &groupRepoMock{
		setAvailableFn: func(ctx context.Context, tx *gorm.DB, groupID uint, available bool) error {
			heldGroup = groupID
			heldValue = available
			return nil
		},
	}
	r := newTestRegistry(groups, nil, nil)

	record := &models.RentalRecord{ID: 7, ProductGroupID: 3, Status: domain.StatusPending}
	if err := r.BeforeChange(context.Background(), nil, record, domain.StatusAgreed, nil); err != nil {
		t.Fatalf("expected before-change hook to pass, got %v", err)
	}
	if heldGroup != 3 || heldValue != false {
		t.Fatalf("expected group 3 to be held, got group %d available=%v", heldGroup, heldValue)
	}
}

func TestBeforeChangeDenyRequiresReason(t *testing.T) {
	r := newTestRegistry(nil, nil, nil)
	record := &models.RentalRecord{Status: domain.StatusPending}

	err := r.BeforeChange(context.Background(), nil, record, domain.StatusDenied, nil)
	var precondition *domain.PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("expected precondition error without a reason, got %v", err)
	}

	payload := Payload{"reason": "gear is being serviced"}
	if err := r.BeforeChange(context.Background(), nil, record, domain.StatusDenied, payload); err != nil {
		t.Fatalf("expected deny with a reason to pass, got %v", err)
	}
}

func TestBeforeChangeCompensatingRequiresPositivePrice(t *testing.T) {
	released := false
	groups := &groupRepoMock{
		setAvailableFn: func(ctx context.Context, tx *gorm.DB, groupID uint, available bool) error {
			released = available
			return nil
		},
	}
	r := newTestRegistry(groups, nil, nil)
	record := &models.RentalRecord{ID: 9, ProductGroupID: 4, Status: domain.StatusBorrowing}

	for _, payload := range []Payload{nil, {"compensation_price": 0}, {"compensation_price": -50}, {"compensation_price": 800.5}} {
		err := r.BeforeChange(context.Background(), nil, record, domain.StatusCompensating, payload)
		var precondition *domain.PreconditionError
		if !errors.As(err, &precondition) {
			t.Fatalf("expected precondition error for payload %v, got %v", payload, err)
		}
	}

	// JSON decodes numbers as float64
	payload := Payload{"compensation_price": float64(800)}
	if err := r.BeforeChange(context.Background(), nil, record, domain.StatusCompensating, payload); err != nil {
		t.Fatalf("expected compensation with a positive amount to pass, got %v", err)
	}
	if record.CompensationPrice == nil || *record.CompensationPrice != 800 {
		t.Fatalf("expected compensation price 800 on the record, got %v", record.CompensationPrice)
	}
	if !released {
		t.Error("expected the group to be released when the gear came back")
	}
}

func TestBeforeChangeReturnReleasesGroup(t *testing.T) {
	released := false
	groups := &groupRepoMock{
		setAvailableFn: func(ctx context.Context, tx *gorm.DB, groupID uint, available bool) error {
			released = available
			return nil
		},
	}
	r := newTestRegistry(groups, nil, nil)
	record := &models.RentalRecord{ProductGroupID: 4, Status: domain.StatusBorrowing}

	if err := r.BeforeChange(context.Background(), nil, record, domain.StatusNotCommented, nil); err != nil {
		t.Fatalf("expected return hook to pass, got %v", err)
	}
	if !released {
		t.Error("expected the group to be released on return")
	}
}

func TestBeforeChangeCompensatedMarksDebt(t *testing.T) {
	var marked uint
	compensations := &compensationRepoMock{
		markCompensatedFn: func(ctx context.Context, tx *gorm.DB, recordID uint) error {
			marked = recordID
			return nil
		},
	}
	r := newTestRegistry(nil, compensations, nil)
	record := &models.RentalRecord{ID: 12, Status: domain.StatusCompensating}

	if err := r.BeforeChange(context.Background(), nil, record, domain.StatusNotCommented, nil); err != nil {
		t.Fatalf("expected compensation settlement to pass, got %v", err)
	}
	if marked != 12 {
		t.Fatalf("expected record 12 marked compensated, got %d", marked)
	}
}

func TestAfterChangeCreatesCompensationDebt(t *testing.T) {
	var created *models.UserCompensateRecord
	compensations := &compensationRepoMock{
		createFn: func(ctx context.Context, record *models.UserCompensateRecord) error {
			created = record
			return nil
		},
	}
	r := newTestRegistry(nil, compensations, nil)

	price := 800
	record := &models.RentalRecord{
		ID:                9,
		RenterAccount:     "camper",
		Status:            domain.StatusCompensating,
		CompensationPrice: &price,
	}
	if err := r.AfterChange(context.Background(), record, domain.StatusBorrowing, nil); err != nil {
		t.Fatalf("expected after-change hook to pass, got %v", err)
	}
	if created == nil {
		t.Fatal("expected a compensation debt to be created")
	}
	if created.RecordID != 9 || created.UserAccount != "camper" || created.Price != 800 {
		t.Fatalf("unexpected compensation debt %+v", created)
	}
}

func TestAfterChangeNoDebtOnNormalReturn(t *testing.T) {
	compensations := &compensationRepoMock{
		createFn: func(ctx context.Context, record *models.UserCompensateRecord) error {
			t.Fatal("no debt should be created on a normal return")
			return nil
		},
	}
	r := newTestRegistry(nil, compensations, nil)

	record := &models.RentalRecord{ID: 9, Status: domain.StatusNotCommented}
	if err := r.AfterChange(context.Background(), record, domain.StatusBorrowing, nil); err != nil {
		t.Fatalf("expected after-change hook to pass, got %v", err)
	}
}

func TestPayloadInt(t *testing.T) {
	p := Payload{"a": 5, "b": float64(7), "c": "nope"}

	if v, ok := p.Int("a"); !ok || v != 5 {
		t.Errorf("expected int 5, got %d ok=%v", v, ok)
	}
	if v, ok := p.Int("b"); !ok || v != 7 {
		t.Errorf("expected float64 7 to read as 7, got %d ok=%v", v, ok)
	}
	if _, ok := p.Int("c"); ok {
		t.Error("expected a string value to be rejected")
	}
	fractional := Payload{"d": 800.5}
	if _, ok := fractional.Int("d"); ok {
		t.Error("expected a fractional value to be rejected, not truncated")
	}
	if _, ok := p.Int("missing"); ok {
		t.Error("expected a missing key to be rejected")
	}
	var nilPayload Payload
	if _, ok := nilPayload.Int("a"); ok {
		t.Error("expected a nil payload to be rejected")
	}
	if s := nilPayload.String("a"); s != "" {
		t.Errorf("expected empty string from a nil payload, got %q", s)
	}
}
