package discovery

import (
	"math"
	"sort"

	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/musclemeter/musclemeter/internal/geo"
)

// Rank orders gyms by great-circle distance from origin.
//
// With no origin the input order is preserved and every distance is nil.
// With an origin every gym gets a distance rounded to one decimal kilometer
// and the result is sorted ascending; ties keep their original relative
// order. Rounding happens here, not in geo, so higher-precision callers can
// use geo.Distance directly.
//
// Linear scan plus sort: fine for a catalog of low thousands, and scaling
// past that is a spatial-index problem outside this component.
func Rank(gyms []domain.Gym, origin *domain.Coordinate) []domain.RankedGym {
	ranked := make([]domain.RankedGym, 0, len(gyms))

	for _, g := range gyms {
		entry := domain.RankedGym{Gym: g}
		if origin != nil {
			d := geo.Distance(origin.Lat, origin.Lon, g.Location.Lat, g.Location.Lon)
			d = math.Round(d*10) / 10
			entry.Distance = &d
		}
		ranked = append(ranked, entry)
	}

	if origin != nil {
		sort.SliceStable(ranked, func(i, j int) bool {
			return *ranked[i].Distance < *ranked[j].Distance
		})
	}

	return ranked
}
