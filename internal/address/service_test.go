package address

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
)

type stubAddressRepo struct {
	rows map[uuid.UUID]*models.Address
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{rows: make(map[uuid.UUID]*models.Address)}
}

func (s *stubAddressRepo) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	row, ok := s.rows[id]
	if !ok || row.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubAddressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	out := []models.Address{}
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *stubAddressRepo) Create(ctx context.Context, row *models.Address) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	hasAny := false
	for _, existing := range s.rows {
		if existing.UserID == row.UserID {
			hasAny = true
			break
		}
	}
	if !hasAny {
		row.IsDefault = true
	}
	clone := *row
	s.rows[row.ID] = &clone
	return nil
}

func (s *stubAddressRepo) Delete(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	row, ok := s.rows[id]
	if !ok || row.UserID != userID {
		return 0, nil
	}
	delete(s.rows, id)
	return 1, nil
}

func newTestService(t *testing.T, repo AddressRepository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateFirstAddressBecomesDefault(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubAddressRepo())
	userID := uuid.New()

	row, err := svc.Create(context.Background(), userID, CreateInput{
		FirstName: "Asha",
		LastName:  "Rao",
		Line1:     "12 MG Road",
		City:      "Bengaluru",
		State:     "KA",
		ZipCode:   "560001",
		Country:   "IN",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !row.IsDefault {
		t.Fatal("first address should be default")
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	t.Parallel()

	repo := newStubAddressRepo()
	svc := newTestService(t, repo)
	owner := uuid.New()
	other := uuid.New()

	row, err := svc.Create(context.Background(), owner, CreateInput{Line1: "12 MG Road", City: "Bengaluru", State: "KA", ZipCode: "560001", Country: "IN"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(context.Background(), row.ID, owner); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	_, err = svc.Get(context.Background(), row.ID, other)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for non-owner, got %v", err)
	}
}

func TestDeleteUnknownAddress(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubAddressRepo())
	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRequiresUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubAddressRepo())
	_, err := svc.List(context.Background(), uuid.Nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
