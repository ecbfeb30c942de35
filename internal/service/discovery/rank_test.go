package discovery

import (
	"testing"

	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gymAt(id int64, lat, lon float64) domain.Gym {
	return domain.Gym{
		ID:       id,
		Name:     "gym",
		Location: domain.Coordinate{Lat: lat, Lon: lon},
		Active:   true,
	}
}

func TestRank_NoOriginPreservesInputOrder(t *testing.T) {
	gyms := []domain.Gym{
		gymAt(3, 10, 10),
		gymAt(1, 0, 0),
		gymAt(2, -5, 20),
	}

	ranked := Rank(gyms, nil)

	require.Len(t, ranked, 3)
	for i, r := range ranked {
		assert.Equal(t, gyms[i].ID, r.Gym.ID)
		assert.Nil(t, r.Distance)
	}
}

func TestRank_WithOriginSortsAscending(t *testing.T) {
	origin := &domain.Coordinate{Lat: 17.4326, Lon: 78.4071}

	gyms := []domain.Gym{
		gymAt(1, 12.9716, 77.5946), // Bangalore, ~500 km out
		gymAt(2, 17.44, 78.41),     // around the corner
		gymAt(3, 17.50, 78.50),     // across town
	}

	ranked := Rank(gyms, origin)

	require.Len(t, ranked, 3)
	assert.Equal(t, int64(2), ranked[0].Gym.ID)
	assert.Equal(t, int64(3), ranked[1].Gym.ID)
	assert.Equal(t, int64(1), ranked[2].Gym.ID)

	for i := 1; i < len(ranked); i++ {
		require.NotNil(t, ranked[i].Distance)
		assert.GreaterOrEqual(t, *ranked[i].Distance, *ranked[i-1].Distance)
	}
}

func TestRank_DistanceRoundedToOneDecimal(t *testing.T) {
	origin := &domain.Coordinate{Lat: 0, Lon: 0}

	ranked := Rank([]domain.Gym{gymAt(1, 0, 1)}, origin)

	require.Len(t, ranked, 1)
	require.NotNil(t, ranked[0].Distance)
	// Raw haversine is ~111.1949; presentation policy rounds to 111.2.
	assert.Equal(t, 111.2, *ranked[0].Distance)
}

func TestRank_TiesKeepOriginalOrder(t *testing.T) {
	origin := &domain.Coordinate{Lat: 0, Lon: 0}

	// Same coordinates, so identical distances.
	gyms := []domain.Gym{
		gymAt(7, 1, 1),
		gymAt(8, 1, 1),
		gymAt(9, 1, 1),
	}

	ranked := Rank(gyms, origin)

	require.Len(t, ranked, 3)
	assert.Equal(t, int64(7), ranked[0].Gym.ID)
	assert.Equal(t, int64(8), ranked[1].Gym.ID)
	assert.Equal(t, int64(9), ranked[2].Gym.ID)
}

func TestRank_EmptyCatalog(t *testing.T) {
	assert.Empty(t, Rank(nil, nil))
	assert.Empty(t, Rank(nil, &domain.Coordinate{Lat: 1, Lon: 2}))
}
