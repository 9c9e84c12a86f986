package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/coursebridge/backend/internal/domain/catalog"
	"github.com/coursebridge/backend/internal/domain/identity"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testAdminRole = "administrator"

func setupTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, repo *GormUserRepository, username string, roles ...identity.Role) *identity.User {
	t.Helper()
	u := &identity.User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Status:       identity.UserStatusActive,
		Roles:        identity.NewRoleSet(roles...),
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, repo *GormProductRepository, ownerID int64, title string, courses ...int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(ownerID, title, "SKU-"+title, decimal.NewFromInt(49))
	require.NoError(t, err)
	require.NoError(t, p.LinkCourses(courses))
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// jsonEventSaver stores events in the outbox with a plain JSON payload
type jsonEventSaver struct {
	outbox *GormOutboxRepository
}

func (s *jsonEventSaver) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(e, payload))
	}
	return s.outbox.Save(ctx, entries...)
}

type failingEventSaver struct{ err error }

func (s failingEventSaver) SaveEvents(context.Context, ...shared.DomainEvent) error {
	return s.err
}

func decimalPrice(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
