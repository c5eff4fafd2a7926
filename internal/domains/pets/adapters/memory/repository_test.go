package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/domain"
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
	"github.com/Apurer/go-gin-pet-api/internal/shared/projection"
)

var (
	baymax = domain.Pet{Name: "Baymax", Type: "dog", Color: "white", Price: 1000}
	jinMao = domain.Pet{Name: "JinMao", Type: "dog", Color: "white", Price: 5000}
	buou   = domain.Pet{Name: "Buou", Type: "cat", Color: "gray", Price: 3000}
)

func seeded(t *testing.T, pets ...domain.Pet) *Repository {
	t.Helper()
	repo := NewRepository()
	for _, p := range pets {
		_, err := repo.Add(context.Background(), &p)
		require.NoError(t, err)
	}
	return repo
}

func names(list []*projection.Projection[*domain.Pet]) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Entity.Name)
	}
	return out
}

func TestRepository_AddAndGetByName(t *testing.T) {
	repo := seeded(t, baymax)

	found, err := repo.GetByName(context.Background(), "Baymax")
	require.NoError(t, err)
	assert.Equal(t, baymax, *found.Entity)
	assert.False(t, found.Metadata.CreatedAt.IsZero())

	_, err = repo.GetByName(context.Background(), "baymax")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_AddRejectsDuplicateName(t *testing.T) {
	repo := seeded(t, baymax)

	dup := baymax
	dup.Color = "black"
	_, err := repo.Add(context.Background(), &dup)
	require.ErrorIs(t, err, ports.ErrAlreadyExists)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "white", all[0].Entity.Color)
}

func TestRepository_ListKeepsInsertionOrder(t *testing.T) {
	repo := seeded(t, baymax, jinMao, buou)

	_, err := repo.GetByName(context.Background(), "Buou")
	require.NoError(t, err)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Baymax", "JinMao", "Buou"}, names(all))
}

func TestRepository_FindByFilter(t *testing.T) {
	repo := seeded(t, baymax, jinMao, buou)
	dog := "dog"
	white := "white"
	from, to := int64(1000), int64(3000)

	byType, err := repo.FindByFilter(context.Background(), domain.Filter{Type: &dog})
	require.NoError(t, err)
	assert.Equal(t, []string{"Baymax", "JinMao"}, names(byType))

	byColor, err := repo.FindByFilter(context.Background(), domain.Filter{Color: &white})
	require.NoError(t, err)
	assert.Equal(t, []string{"Baymax", "JinMao"}, names(byColor))

	byPrice, err := repo.FindByFilter(context.Background(), domain.Filter{PriceFrom: &from, PriceTo: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{"Baymax", "Buou"}, names(byPrice))

	combined, err := repo.FindByFilter(context.Background(), domain.Filter{Type: &dog, PriceTo: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{"Baymax"}, names(combined))

	cat := "lizard"
	none, err := repo.FindByFilter(context.Background(), domain.Filter{Type: &cat})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRepository_ReplaceByNamePreservesPositionAndKey(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := created
	repo := NewRepository().WithClock(func() time.Time { return clock })
	for _, p := range []domain.Pet{baymax, jinMao, buou} {
		_, err := repo.Add(context.Background(), &p)
		require.NoError(t, err)
	}

	clock = created.Add(time.Hour)
	updated, err := repo.ReplaceByName(context.Background(), "JinMao", &domain.Pet{Name: "Renamed", Type: "dog", Color: "black", Price: 2000})
	require.NoError(t, err)
	assert.Equal(t, domain.Pet{Name: "JinMao", Type: "dog", Color: "black", Price: 2000}, *updated.Entity)
	assert.Equal(t, created, updated.Metadata.CreatedAt)
	assert.Equal(t, clock, updated.Metadata.UpdatedAt)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Baymax", "JinMao", "Buou"}, names(all))

	_, err = repo.ReplaceByName(context.Background(), "Ghost", &baymax)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_DeleteByNameIsIdempotent(t *testing.T) {
	repo := seeded(t, baymax, jinMao)

	require.NoError(t, repo.DeleteByName(context.Background(), "Baymax"))
	require.NoError(t, repo.DeleteByName(context.Background(), "Baymax"))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"JinMao"}, names(all))
}

func TestRepository_Clear(t *testing.T) {
	repo := seeded(t, baymax, jinMao, buou)

	require.NoError(t, repo.Clear(context.Background()))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = repo.Add(context.Background(), &baymax)
	require.NoError(t, err)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	repo := seeded(t, baymax)

	found, err := repo.GetByName(context.Background(), "Baymax")
	require.NoError(t, err)
	found.Entity.Price = 1

	again, err := repo.GetByName(context.Background(), "Baymax")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), again.Entity.Price)
}

func TestRepository_ConcurrentAdds(t *testing.T) {
	repo := NewRepository()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = repo.Add(context.Background(), &domain.Pet{Name: fmt.Sprintf("pet-%d", i%25), Type: "dog"})
		}(i)
	}
	wg.Wait()

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 25)
}
