package listing

import (
	"sort"

	"github.com/mmcloughlin/geohash"
)

// Map cluster precision bounds (geohash characters)
const (
	MinClusterPrecision     = 1
	MaxClusterPrecision     = geohashPrecision
	DefaultClusterPrecision = 5
)

// MapCluster groups the listings that share a geohash cell
type MapCluster struct {
	Geohash   string  `json:"geohash"`
	Count     int     `json:"count"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ClampPrecision keeps a requested precision within the supported range
func ClampPrecision(p int) uint {
	if p < MinClusterPrecision {
		return DefaultClusterPrecision
	}
	if p > MaxClusterPrecision {
		return MaxClusterPrecision
	}
	return uint(p)
}

// Cluster buckets listings by geohash prefix. Listings without coordinates
// are skipped. The cluster center is the center of its geohash cell.
func Cluster(items []*Listing, precision uint) []MapCluster {
	counts := make(map[string]int)
	for _, l := range items {
		if l == nil || !l.HasCoordinates() {
			continue
		}
		cell := geohash.EncodeWithPrecision(*l.Latitude, *l.Longitude, precision)
		counts[cell]++
	}

	clusters := make([]MapCluster, 0, len(counts))
	for cell, n := range counts {
		lat, lng := geohash.DecodeCenter(cell)
		clusters = append(clusters, MapCluster{
			Geohash:   cell,
			Count:     n,
			Latitude:  lat,
			Longitude: lng,
		})
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Geohash < clusters[j].Geohash
	})
	return clusters
}
