package geo

import (
	"math"
	"testing"
)

func TestEncodePolyline_ReferenceVector(t *testing.T) {
	t.Parallel()

	// Reference example from the polyline format documentation.
	path := []Point{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}
	want := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

	if got := EncodePolyline(path); got != want {
		t.Errorf("EncodePolyline = %q, want %q", got, want)
	}
}

func TestEncodePolyline_Empty(t *testing.T) {
	t.Parallel()

	if got := EncodePolyline(nil); got != "" {
		t.Errorf("EncodePolyline(nil) = %q, want empty", got)
	}
}

func TestDecodePolyline_ReferenceVector(t *testing.T) {
	t.Parallel()

	got := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	want := []Point{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}

	if len(got) != len(want) {
		t.Fatalf("decoded %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i].Lat-want[i].Lat) > 1e-5 || math.Abs(got[i].Lng-want[i].Lng) > 1e-5 {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecodePolyline_Empty(t *testing.T) {
	t.Parallel()

	got := DecodePolyline("")
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("decoded %d points, want 0", len(got))
	}
}

func TestPolyline_RoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		path []Point
	}{
		{"single point", []Point{{12.9716, 77.5946}}},
		{"city route", []Point{{12.9716, 77.5946}, {12.9352, 77.6245}, {12.9141, 77.6411}}},
		{"crosses the equator", []Point{{0.5, 36.9}, {-0.3, 37.1}}},
		{"negative longitudes", []Point{{51.5074, -0.1278}, {48.8566, 2.3522}}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			decoded := DecodePolyline(EncodePolyline(tc.path))
			if len(decoded) != len(tc.path) {
				t.Fatalf("decoded %d points, want %d", len(decoded), len(tc.path))
			}
			for i := range tc.path {
				if math.Abs(decoded[i].Lat-tc.path[i].Lat) > 1e-5 ||
					math.Abs(decoded[i].Lng-tc.path[i].Lng) > 1e-5 {
					t.Errorf("point %d = %+v, want %+v", i, decoded[i], tc.path[i])
				}
			}
		})
	}
}

func TestDecodePolyline_TruncatedInput(t *testing.T) {
	t.Parallel()

	full := EncodePolyline([]Point{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	})

	// Chopping mid-chunk must never panic and yields only the points
	// that decoded cleanly.
	for cut := 0; cut < len(full); cut++ {
		got := DecodePolyline(full[:cut])
		if len(got) > 2 {
			t.Errorf("cut=%d: decoded %d points from a truncated string", cut, len(got))
		}
		for _, p := range got {
			if math.Abs(p.Lat-38.5) > 1e-5 && math.Abs(p.Lat-40.7) > 1e-5 {
				t.Errorf("cut=%d: unexpected point %+v", cut, p)
			}
		}
	}
}
