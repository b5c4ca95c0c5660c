package tests

import (
	"context"
	"testing"
	"time"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/geo"
	"github.com/LZPPS/routelink/internal/service"
)

// ──────────────────────────────────────────────
// SEARCH FIXTURES
// ──────────────────────────────────────────────

var searchDay = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func openTrip(id, driverID string, startLat, startLng, endLat, endLng float64, rideAt time.Time) *domain.Trip {
	return &domain.Trip{
		ID:                id,
		DriverID:          driverID,
		StartPlace:        "A",
		StartLat:          startLat,
		StartLng:          startLng,
		EndPlace:          "B",
		EndLat:            endLat,
		EndLng:            endLng,
		RideAt:            rideAt,
		PricePerSeatCents: 1500,
		SeatsTotal:        3,
		SeatsLeft:         3,
		Status:            domain.TripStatusOpen,
		Active:            true,
		CreatedAt:         searchDay,
	}
}

func newSearchService(trips ...*domain.Trip) *service.SearchService {
	repo := NewMockTripRepository()
	for _, t := range trips {
		repo.AddTrip(t)
	}
	return service.NewSearchService(repo)
}

// ──────────────────────────────────────────────
// 1. PROXIMITY MATCHER
// ──────────────────────────────────────────────

func TestSearchNear_RadiusBoundary(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(10 * time.Hour)

	// One degree of latitude is ~111.195 km, so 0.0440 deg is ~4.89 km
	// and 0.0460 deg is ~5.11 km.
	inside := openTrip("trip-in", "driver-1", 0.0440, 0, 1, 0, rideAt)
	outside := openTrip("trip-out", "driver-2", 0.0460, 0, 1, 0, rideAt)

	svc := newSearchService(inside, outside)

	results, err := svc.SearchNear(context.Background(), service.SearchRequest{
		StartLat: 0, StartLng: 0,
		EndLat: 1, EndLng: 0,
		Date: searchDay,
	})
	if err != nil {
		t.Fatalf("SearchNear: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Trip.ID != "trip-in" {
		t.Errorf("matched %s, want trip-in", results[0].Trip.ID)
	}
	if results[0].MatchedBy != domain.MatchedByNear {
		t.Errorf("matched by %s, want NEAR", results[0].MatchedBy)
	}
	if results[0].Score <= 0 || results[0].Score > 1 {
		t.Errorf("score %v out of (0, 1]", results[0].Score)
	}
}

func TestSearchNear_BothEndpointsMustBeClose(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(10 * time.Hour)

	// Start is right there, end is ~55 km off.
	trip := openTrip("trip-1", "driver-1", 0, 0, 1.5, 0, rideAt)
	svc := newSearchService(trip)

	results, err := svc.SearchNear(context.Background(), service.SearchRequest{
		StartLat: 0, StartLng: 0,
		EndLat: 1, EndLng: 0,
		Date: searchDay,
	})
	if err != nil {
		t.Fatalf("SearchNear: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
}

func TestSearchNear_ExactMatchScoresOne(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(10 * time.Hour)
	trip := openTrip("trip-1", "driver-1", 0, 0, 0, 1, rideAt)
	svc := newSearchService(trip)

	results, err := svc.SearchNear(context.Background(), service.SearchRequest{
		StartLat: 0, StartLng: 0,
		EndLat: 0, EndLng: 1,
		Date: searchDay,
	})
	if err != nil {
		t.Fatalf("SearchNear: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if diff := results[0].Score - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score = %v, want 1.0", results[0].Score)
	}
}

// ──────────────────────────────────────────────
// 2. CORRIDOR MATCHER
// ──────────────────────────────────────────────

func TestSearchAlong_SegmentFallback_OrderingEnforced(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(9 * time.Hour)

	// Trip runs along the equator from lng 0 to lng 1.
	trip := openTrip("trip-1", "driver-1", 0, 0, 0, 1, rideAt)
	svc := newSearchService(trip)

	t.Run("pickup before drop matches", func(t *testing.T) {
		results, err := svc.SearchAlong(context.Background(), service.SearchRequest{
			StartLat: 0, StartLng: 0.1,
			EndLat: 0, EndLng: 0.2,
			Date: searchDay,
		})
		if err != nil {
			t.Fatalf("SearchAlong: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("got %d results, want 1", len(results))
		}
		if results[0].MatchedBy != domain.MatchedByAlong {
			t.Errorf("matched by %s, want ALONG", results[0].MatchedBy)
		}
	})

	t.Run("drop before pickup is rejected", func(t *testing.T) {
		results, err := svc.SearchAlong(context.Background(), service.SearchRequest{
			StartLat: 0, StartLng: 0.2,
			EndLat: 0, EndLng: 0.1,
			Date: searchDay,
		})
		if err != nil {
			t.Fatalf("SearchAlong: %v", err)
		}
		if len(results) != 0 {
			t.Fatalf("got %d results, want 0", len(results))
		}
	})
}

func TestSearchAlong_CorridorBoundary(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(9 * time.Hour)
	trip := openTrip("trip-1", "driver-1", 0, 0, 0, 1, rideAt)
	svc := newSearchService(trip)

	// 0.2 deg of latitude is ~22.2 km: inside the 25 km corridor.
	// 0.25 deg is ~27.8 km: outside.
	t.Run("inside corridor", func(t *testing.T) {
		results, err := svc.SearchAlong(context.Background(), service.SearchRequest{
			StartLat: 0.2, StartLng: 0.2,
			EndLat: 0.2, EndLng: 0.8,
			Date: searchDay,
		})
		if err != nil {
			t.Fatalf("SearchAlong: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("got %d results, want 1", len(results))
		}
	})

	t.Run("outside corridor", func(t *testing.T) {
		results, err := svc.SearchAlong(context.Background(), service.SearchRequest{
			StartLat: 0.25, StartLng: 0.2,
			EndLat: 0.25, EndLng: 0.8,
			Date: searchDay,
		})
		if err != nil {
			t.Fatalf("SearchAlong: %v", err)
		}
		if len(results) != 0 {
			t.Fatalf("got %d results, want 0", len(results))
		}
	})
}

func TestSearchAlong_PolylinePath(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(9 * time.Hour)

	// The stored path detours away from the straight line; the rider's
	// points sit on the detour, ordered along it.
	trip := openTrip("trip-1", "driver-1", 0, 0, 0, 1, rideAt)
	trip.Polyline = geo.EncodePolyline([]geo.Point{
		{Lat: 0, Lng: 0}, {Lat: 0.1, Lng: 0.3}, {Lat: 0.1, Lng: 0.7}, {Lat: 0, Lng: 1},
	})

	svc := newSearchService(trip)

	results, err := svc.SearchAlong(context.Background(), service.SearchRequest{
		StartLat: 0.1, StartLng: 0.3,
		EndLat: 0.1, EndLng: 0.7,
		Date: searchDay,
	})
	if err != nil {
		t.Fatalf("SearchAlong: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Score <= 0 {
		t.Errorf("score = %v, want > 0", results[0].Score)
	}
}

func TestSearchAlong_PolylineOrderingRejected(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(9 * time.Hour)
	trip := openTrip("trip-1", "driver-1", 0, 0, 0, 1, rideAt)
	trip.Polyline = geo.EncodePolyline([]geo.Point{
		{Lat: 0, Lng: 0}, {Lat: 0.1, Lng: 0.3}, {Lat: 0.1, Lng: 0.7}, {Lat: 0, Lng: 1},
	})

	svc := newSearchService(trip)

	// Pickup at the later vertex, drop at the earlier one.
	results, err := svc.SearchAlong(context.Background(), service.SearchRequest{
		StartLat: 0.1, StartLng: 0.7,
		EndLat: 0.1, EndLng: 0.3,
		Date: searchDay,
	})
	if err != nil {
		t.Fatalf("SearchAlong: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
}

// ──────────────────────────────────────────────
// 3. UNIFIED MERGE
// ──────────────────────────────────────────────

func TestSearchUnified_MergeAndRank(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(9 * time.Hour)

	// Matches both matchers: endpoints coincide with the query.
	both := openTrip("trip-both", "driver-1", 0, 0, 0, 1, rideAt)

	// Corridor-only: endpoints ~15 km off the query points, but the
	// straight segment passes within the corridor in the right order.
	along := openTrip("trip-along", "driver-2", 0.1, -0.1, 0.1, 1.1, rideAt)

	// Proximity-only: endpoints are adjacent to the query, but the
	// stored path runs the other way so ordering fails.
	near := openTrip("trip-near", "driver-3", 0.001, 0, 0.001, 1, rideAt)
	near.Polyline = geo.EncodePolyline([]geo.Point{{Lat: 0, Lng: 1}, {Lat: 0, Lng: 0}})

	svc := newSearchService(both, along, near)

	results, err := svc.SearchUnified(context.Background(), service.SearchRequest{
		StartLat: 0, StartLng: 0,
		EndLat: 0, EndLng: 1,
		Date: searchDay,
	})
	if err != nil {
		t.Fatalf("SearchUnified: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	wantOrder := []struct {
		id        string
		matchedBy domain.MatchedBy
	}{
		{"trip-both", domain.MatchedByBoth},
		{"trip-along", domain.MatchedByAlong},
		{"trip-near", domain.MatchedByNear},
	}
	for i, want := range wantOrder {
		if results[i].Trip.ID != want.id {
			t.Errorf("position %d: trip %s, want %s", i, results[i].Trip.ID, want.id)
		}
		if results[i].MatchedBy != want.matchedBy {
			t.Errorf("position %d: matched by %s, want %s", i, results[i].MatchedBy, want.matchedBy)
		}
	}

	// The BOTH score is the average of a perfect near score (1.0) and
	// the along score (1.0 + full-span order bonus 1.0).
	if diff := results[0].Score - 1.5; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("BOTH score = %v, want 1.5", results[0].Score)
	}
}

func TestSearchUnified_TieBreaksByTripID(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(9 * time.Hour)

	// Two identical trips: same tag, same score, IDs decide the order.
	a := openTrip("trip-a", "driver-1", 0, 0, 0, 1, rideAt)
	b := openTrip("trip-b", "driver-2", 0, 0, 0, 1, rideAt)

	svc := newSearchService(b, a)

	results, err := svc.SearchUnified(context.Background(), service.SearchRequest{
		StartLat: 0, StartLng: 0,
		EndLat: 0, EndLng: 1,
		Date: searchDay,
	})
	if err != nil {
		t.Fatalf("SearchUnified: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Trip.ID != "trip-a" || results[1].Trip.ID != "trip-b" {
		t.Errorf("order = %s, %s; want trip-a, trip-b", results[0].Trip.ID, results[1].Trip.ID)
	}
}

// ──────────────────────────────────────────────
// 4. PREFILTER
// ──────────────────────────────────────────────

func TestSearch_PrefilterExcludesUnbookableTrips(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(9 * time.Hour)

	open := openTrip("trip-open", "driver-1", 0, 0, 0, 1, rideAt)

	full := openTrip("trip-full", "driver-2", 0, 0, 0, 1, rideAt)
	full.Status = domain.TripStatusFull
	full.SeatsLeft = 0
	full.Active = false

	closed := openTrip("trip-closed", "driver-3", 0, 0, 0, 1, rideAt)
	closed.Status = domain.TripStatusClosed
	closed.Active = false

	tooFewSeats := openTrip("trip-small", "driver-4", 0, 0, 0, 1, rideAt)
	tooFewSeats.SeatsLeft = 1

	otherDay := openTrip("trip-tomorrow", "driver-5", 0, 0, 0, 1, rideAt.AddDate(0, 0, 1))

	svc := newSearchService(open, full, closed, tooFewSeats, otherDay)

	results, err := svc.SearchUnified(context.Background(), service.SearchRequest{
		StartLat: 0, StartLng: 0,
		EndLat: 0, EndLng: 1,
		Seats: 2,
		Date:  searchDay,
	})
	if err != nil {
		t.Fatalf("SearchUnified: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Trip.ID != "trip-open" {
		t.Errorf("matched %s, want trip-open", results[0].Trip.ID)
	}
}

func TestSearch_TimeWindowAroundAnchor(t *testing.T) {
	t.Parallel()

	morning := openTrip("trip-morning", "driver-1", 0, 0, 0, 1, searchDay.Add(9*time.Hour))
	evening := openTrip("trip-evening", "driver-2", 0, 0, 0, 1, searchDay.Add(23*time.Hour))

	svc := newSearchService(morning, evening)

	anchor := searchDay.Add(22 * time.Hour)
	results, err := svc.SearchUnified(context.Background(), service.SearchRequest{
		StartLat: 0, StartLng: 0,
		EndLat: 0, EndLng: 1,
		Date: searchDay,
		At:   &anchor,
	})
	if err != nil {
		t.Fatalf("SearchUnified: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Trip.ID != "trip-evening" {
		t.Errorf("matched %s, want trip-evening", results[0].Trip.ID)
	}
}

func TestSearch_DayBoundaryExcludesNextMidnight(t *testing.T) {
	t.Parallel()

	lastMoment := openTrip("trip-late", "driver-1", 0, 0, 0, 1, searchDay.Add(24*time.Hour-time.Second))
	nextMidnight := openTrip("trip-next", "driver-2", 0, 0, 0, 1, searchDay.Add(24*time.Hour))

	anchor := searchDay.Add(23*time.Hour + 30*time.Minute)
	testCases := []struct {
		name string
		at   *time.Time
	}{
		{"without anchor", nil},
		{"with anchor near midnight", &anchor},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newSearchService(lastMoment, nextMidnight)
			results, err := svc.SearchUnified(context.Background(), service.SearchRequest{
				StartLat: 0, StartLng: 0,
				EndLat: 0, EndLng: 1,
				Date: searchDay,
				At:   tc.at,
			})
			if err != nil {
				t.Fatalf("SearchUnified: %v", err)
			}
			if len(results) != 1 {
				t.Fatalf("got %d results, want 1", len(results))
			}
			if results[0].Trip.ID != "trip-late" {
				t.Errorf("matched %s, want trip-late", results[0].Trip.ID)
			}
		})
	}
}

func TestSearch_InvertedPriceBoundsAreSwapped(t *testing.T) {
	t.Parallel()

	rideAt := searchDay.Add(9 * time.Hour)

	cheap := openTrip("trip-cheap", "driver-1", 0, 0, 0, 1, rideAt)
	cheap.PricePerSeatCents = 500
	pricey := openTrip("trip-pricey", "driver-2", 0, 0, 0, 1, rideAt)
	pricey.PricePerSeatCents = 5000

	svc := newSearchService(cheap, pricey)

	min, max := int64(2000), int64(100) // inverted on purpose
	results, err := svc.SearchUnified(context.Background(), service.SearchRequest{
		StartLat: 0, StartLng: 0,
		EndLat: 0, EndLng: 1,
		Date:     searchDay,
		MinPrice: &min,
		MaxPrice: &max,
	})
	if err != nil {
		t.Fatalf("SearchUnified: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Trip.ID != "trip-cheap" {
		t.Errorf("matched %s, want trip-cheap", results[0].Trip.ID)
	}
}
