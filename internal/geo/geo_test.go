package geo

import (
	"math"
	"testing"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{
			name: "same point",
			lat1: 12.9716, lng1: 77.5946, lat2: 12.9716, lng2: 77.5946,
			wantKm: 0, tolKm: 1e-9,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lng1: 0, lat2: 1, lng2: 0,
			wantKm: 111.195, tolKm: 0.01,
		},
		{
			name: "paris to london",
			lat1: 48.8566, lng1: 2.3522, lat2: 51.5074, lng2: -0.1278,
			wantKm: 343.5, tolKm: 1.0,
		},
		{
			name: "antipodal-ish long haul",
			lat1: 0, lng1: 0, lat2: 0, lng2: 180,
			wantKm: math.Pi * 6371.0088, tolKm: 0.1,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := HaversineKm(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			if math.Abs(got-tc.wantKm) > tc.tolKm {
				t.Errorf("HaversineKm = %v, want %v ± %v", got, tc.wantKm, tc.tolKm)
			}
		})
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	t.Parallel()

	d1 := HaversineKm(48.8566, 2.3522, 51.5074, -0.1278)
	d2 := HaversineKm(51.5074, -0.1278, 48.8566, 2.3522)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestPointToSegmentDistanceKm(t *testing.T) {
	t.Parallel()

	// Segment along the equator from lng 0 to lng 1.
	aLat, aLng := 0.0, 0.0
	bLat, bLng := 0.0, 1.0

	t.Run("point above the middle projects onto the segment", func(t *testing.T) {
		t.Parallel()
		got := PointToSegmentDistanceKm(0.1, 0.5, aLat, aLng, bLat, bLng)
		want := HaversineKm(0.1, 0.5, 0, 0.5)
		if math.Abs(got-want) > 0.05 {
			t.Errorf("distance = %v, want ~%v", got, want)
		}
	})

	t.Run("point beyond B clamps to B", func(t *testing.T) {
		t.Parallel()
		got := PointToSegmentDistanceKm(0, 2.0, aLat, aLng, bLat, bLng)
		want := HaversineKm(0, 2.0, bLat, bLng)
		if math.Abs(got-want) > 0.05 {
			t.Errorf("distance = %v, want ~%v", got, want)
		}
	})

	t.Run("point before A clamps to A", func(t *testing.T) {
		t.Parallel()
		got := PointToSegmentDistanceKm(0, -1.0, aLat, aLng, bLat, bLng)
		want := HaversineKm(0, -1.0, aLat, aLng)
		if math.Abs(got-want) > 0.05 {
			t.Errorf("distance = %v, want ~%v", got, want)
		}
	})

	t.Run("degenerate segment falls back to point distance", func(t *testing.T) {
		t.Parallel()
		got := PointToSegmentDistanceKm(0.1, 0.5, 0.2, 0.5, 0.2, 0.5)
		want := HaversineKm(0.1, 0.5, 0.2, 0.5)
		if math.Abs(got-want) > 0.05 {
			t.Errorf("distance = %v, want ~%v", got, want)
		}
	})
}

func TestProjectionT(t *testing.T) {
	t.Parallel()

	aLat, aLng := 0.0, 0.0
	bLat, bLng := 0.0, 1.0

	testCases := []struct {
		name     string
		lat, lng float64
		want     float64
		tol      float64
	}{
		{"at A", 0, 0, 0, 1e-9},
		{"at B", 0, 1, 1, 1e-9},
		{"quarter way", 0, 0.25, 0.25, 1e-6},
		{"off to the side still projects", 0.1, 0.5, 0.5, 1e-6},
		{"before A clamps to 0", 0, -0.5, 0, 1e-9},
		{"past B clamps to 1", 0, 1.5, 1, 1e-9},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ProjectionT(tc.lat, tc.lng, aLat, aLng, bLat, bLng)
			if math.Abs(got-tc.want) > tc.tol {
				t.Errorf("ProjectionT = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProjectionT_DegenerateSegment(t *testing.T) {
	t.Parallel()

	if got := ProjectionT(0.5, 0.5, 1, 1, 1, 1); got != 0 {
		t.Errorf("ProjectionT on degenerate segment = %v, want 0", got)
	}
}

func TestDistanceToPathKm(t *testing.T) {
	t.Parallel()

	path := []Point{{0, 0}, {0, 1}, {1, 1}}

	t.Run("empty path is infinitely far", func(t *testing.T) {
		t.Parallel()
		if got := DistanceToPathKm(0, 0, nil); !math.IsInf(got, 1) {
			t.Errorf("DistanceToPathKm = %v, want +Inf", got)
		}
	})

	t.Run("single point path uses direct distance", func(t *testing.T) {
		t.Parallel()
		got := DistanceToPathKm(0, 1, []Point{{0, 0}})
		want := HaversineKm(0, 1, 0, 0)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("DistanceToPathKm = %v, want %v", got, want)
		}
	})

	t.Run("point on a vertex is at distance zero", func(t *testing.T) {
		t.Parallel()
		if got := DistanceToPathKm(0, 1, path); got > 1e-6 {
			t.Errorf("DistanceToPathKm = %v, want ~0", got)
		}
	})

	t.Run("takes the minimum over all segments", func(t *testing.T) {
		t.Parallel()
		// Near the second segment, far from the first.
		got := DistanceToPathKm(0.5, 1.1, path)
		want := PointToSegmentDistanceKm(0.5, 1.1, 0, 1, 1, 1)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("DistanceToPathKm = %v, want %v", got, want)
		}
	})
}

func TestClosestIndexOnPath(t *testing.T) {
	t.Parallel()

	path := []Point{{0, 0}, {0, 1}, {0, 2}, {0, 3}}

	testCases := []struct {
		name     string
		lat, lng float64
		want     int
	}{
		{"nearest to first vertex", 0.01, 0.1, 0},
		{"nearest to middle vertex", 0, 1.9, 2},
		{"nearest to last vertex", 0, 5, 3},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClosestIndexOnPath(tc.lat, tc.lng, path); got != tc.want {
				t.Errorf("ClosestIndexOnPath = %d, want %d", got, tc.want)
			}
		})
	}

	t.Run("empty path returns 0", func(t *testing.T) {
		t.Parallel()
		if got := ClosestIndexOnPath(0, 0, nil); got != 0 {
			t.Errorf("ClosestIndexOnPath = %d, want 0", got)
		}
	})
}
