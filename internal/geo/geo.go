// Package geo provides the pure geometric primitives used by trip search:
// great-circle distance, point-to-segment projection on a local planar
// approximation, and point-to-polyline distance. All functions are
// deterministic and allocation-free, suitable for hot-path use.
package geo

import "math"

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371.0088

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// toXY projects a lat/lng point onto a plane using an equirectangular
// approximation around refLat. Units are km.
func toXY(lat, lon, refLat float64) (x, y float64) {
	x = toRadians(lon) * math.Cos(toRadians(refLat)) * earthRadiusKm
	y = toRadians(lat) * earthRadiusKm
	return x, y
}

// PointToSegmentDistanceKm returns the approximate distance in km from
// point P to the segment A->B. The projection uses a planar approximation
// referenced at the segment's midpoint latitude; the projection parameter
// is clamped to [0,1]. A degenerate segment (A == B) falls back to the
// direct point distance.
func PointToSegmentDistanceKm(pLat, pLng, aLat, aLng, bLat, bLng float64) float64 {
	ref := (aLat + bLat) / 2
	px, py := toXY(pLat, pLng, ref)
	ax, ay := toXY(aLat, aLng, ref)
	bx, by := toXY(bLat, bLng, ref)

	apx, apy := px-ax, py-ay
	abx, aby := bx-ax, by-ay
	ab2 := abx*abx + aby*aby
	if ab2 == 0 {
		return math.Hypot(apx, apy)
	}

	t := (apx*abx + apy*aby) / ab2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	cx, cy := ax+t*abx, ay+t*aby
	return math.Hypot(px-cx, py-cy)
}

// ProjectionT returns the clamped projection parameter t in [0,1] of point
// P onto segment A->B in the same planar approximation: 0 means "at A",
// 1 means "at B". A degenerate segment returns 0.
func ProjectionT(pLat, pLng, aLat, aLng, bLat, bLng float64) float64 {
	ref := (aLat + bLat) / 2
	px, py := toXY(pLat, pLng, ref)
	ax, ay := toXY(aLat, aLng, ref)
	bx, by := toXY(bLat, bLng, ref)

	apx, apy := px-ax, py-ay
	abx, aby := bx-ax, by-ay
	ab2 := abx*abx + aby*aby
	if ab2 == 0 {
		return 0
	}

	t := (apx*abx + apy*aby) / ab2
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// DistanceToPathKm returns the minimum distance in km from a point to a
// polyline path. A single-point path falls back to the direct point
// distance; an empty path returns +Inf.
func DistanceToPathKm(pLat, pLng float64, path []Point) float64 {
	if len(path) == 0 {
		return math.Inf(1)
	}
	if len(path) == 1 {
		return HaversineKm(pLat, pLng, path[0].Lat, path[0].Lng)
	}
	best := math.Inf(1)
	for i := 0; i < len(path)-1; i++ {
		d := PointToSegmentDistanceKm(pLat, pLng,
			path[i].Lat, path[i].Lng, path[i+1].Lat, path[i+1].Lng)
		if d < best {
			best = d
		}
	}
	return best
}

// ClosestIndexOnPath returns the index of the path vertex nearest to the
// given point. An empty path returns 0.
func ClosestIndexOnPath(lat, lng float64, path []Point) int {
	best := 0
	bestD := math.Inf(1)
	for i, p := range path {
		d := HaversineKm(lat, lng, p.Lat, p.Lng)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
