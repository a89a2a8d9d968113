package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) (Repository, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func newTestCustomer(name, email string) *Customer {
	return &Customer{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Phone: "555-0101",
	}
}

func TestCreateAndGetCustomer(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	c := newTestCustomer("Ada Lovelace", "ada@example.com")

	require.NoError(t, repo.Create(ctx, c))
	assert.False(t, c.CreatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, fetched.Name)
	assert.Equal(t, c.Email, fetched.Email)
	assert.Equal(t, int64(0), fetched.LoyaltyPoints)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestSearchMatchesNameEmailPhone(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTestCustomer("Ada Lovelace", "ada@example.com")))
	require.NoError(t, repo.Create(ctx, newTestCustomer("Grace Hopper", "grace@example.com")))

	byName, err := repo.Search(ctx, "ada", 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Ada Lovelace", byName[0].Name)

	byEmail, err := repo.Search(ctx, "grace@", 10)
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Grace Hopper", byEmail[0].Name)

	all, err := repo.Search(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	limited, err := repo.Search(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestAdjustLoyaltyPoints(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	c := newTestCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, repo.Create(ctx, c))

	require.NoError(t, repo.AdjustLoyaltyPoints(ctx, c.ID, 50))
	require.NoError(t, repo.AdjustLoyaltyPoints(ctx, c.ID, -20))

	fetched, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), fetched.LoyaltyPoints)
}

func TestAdjustLoyaltyPoints_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.AdjustLoyaltyPoints(context.Background(), "nonexistent", 10)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
