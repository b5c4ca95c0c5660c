package service

import (
	"context"
	"sort"
	"time"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/geo"
	"github.com/LZPPS/routelink/internal/repository"
)

const (
	defaultNearRadiusKm     = 5.0
	defaultCorridorRadiusKm = 25.0
	defaultMaxDetourKm      = 40.0
	defaultWindowMinutes    = 120
)

// SearchService runs the proximity and corridor matchers over a
// prefiltered candidate set. Matching is read-only and lock-free.
type SearchService struct {
	tripRepo repository.TripRepository

	// Matcher tuning; zero values fall back to defaults.
	NearRadiusKm     float64
	CorridorRadiusKm float64
	MaxDetourKm      float64
}

// NewSearchService creates a new SearchService.
func NewSearchService(tripRepo repository.TripRepository) *SearchService {
	return &SearchService{tripRepo: tripRepo}
}

// SearchRequest carries a rider's pickup/drop query. Date selects the
// ride day; At narrows it to a window of WindowMin minutes around an
// anchor time, clamped to the day.
type SearchRequest struct {
	StartLat  float64
	StartLng  float64
	EndLat    float64
	EndLng    float64
	Seats     int
	Date      time.Time
	At        *time.Time
	WindowMin int
	RadiusKm  float64 // proximity matcher override
	MinPrice  *int64  // cents
	MaxPrice  *int64  // cents
}

// SearchResult pairs a matched trip with its score and matcher tag.
type SearchResult struct {
	Trip      *domain.Trip
	Score     float64
	MatchedBy domain.MatchedBy
}

// BrowseRequest carries a plain date-window listing query with paging
// and sorting, no geographic matching.
type BrowseRequest struct {
	Date      time.Time
	At        *time.Time
	WindowMin int
	Seats     int
	MinPrice  *int64
	MaxPrice  *int64
	SortBy    string // "ride_at" or "price"; empty means ride_at
	SortDesc  bool
	Page      int
	Size      int
}

// Browse lists bookable trips in the requested window without running
// the matchers. Paging is pushed down to the repository.
func (s *SearchService) Browse(ctx context.Context, req BrowseRequest) ([]*domain.Trip, error) {
	if req.Seats < 1 {
		req.Seats = 1
	}
	if req.Size < 1 {
		req.Size = 20
	}
	if req.Page < 0 {
		req.Page = 0
	}
	minPrice, maxPrice := req.MinPrice, req.MaxPrice
	if minPrice != nil && *minPrice < 0 {
		zero := int64(0)
		minPrice = &zero
	}
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		minPrice, maxPrice = maxPrice, minPrice
	}

	from, to := resolveWindow(req.Date, req.At, req.WindowMin)

	return s.tripRepo.Search(ctx, repository.TripSearchFilter{
		From:     from,
		To:       to,
		Statuses: []domain.TripStatus{domain.TripStatusOpen},
		MinSeats: req.Seats,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		SortBy:   req.SortBy,
		SortDesc: req.SortDesc,
		Limit:    req.Size,
		Offset:   req.Page * req.Size,
	})
}

// SearchNear runs only the proximity matcher.
func (s *SearchService) SearchNear(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	candidates, err := s.prefilter(ctx, &req)
	if err != nil {
		return nil, err
	}
	return s.assemble(candidates, s.matchNear(candidates, req), nil), nil
}

// SearchAlong runs only the corridor matcher.
func (s *SearchService) SearchAlong(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	candidates, err := s.prefilter(ctx, &req)
	if err != nil {
		return nil, err
	}
	return s.assemble(candidates, nil, s.matchAlong(candidates, req)), nil
}

// SearchUnified runs both matchers over the same candidate set and
// merges the hits: a trip matched by both carries the average of its
// two scores and the BOTH tag. Results order by tag rank (BOTH > ALONG
// > NEAR), then score descending, then trip ID ascending so pagination
// stays reproducible.
func (s *SearchService) SearchUnified(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	candidates, err := s.prefilter(ctx, &req)
	if err != nil {
		return nil, err
	}
	return s.assemble(candidates, s.matchNear(candidates, req), s.matchAlong(candidates, req)), nil
}

// prefilter normalizes the request and fetches status/time/seat/price
// filtered candidates. Inverted price bounds are swapped, not rejected.
func (s *SearchService) prefilter(ctx context.Context, req *SearchRequest) ([]*domain.Trip, error) {
	if req.Seats < 1 {
		req.Seats = 1
	}
	minPrice, maxPrice := req.MinPrice, req.MaxPrice
	if minPrice != nil && *minPrice < 0 {
		zero := int64(0)
		minPrice = &zero
	}
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		minPrice, maxPrice = maxPrice, minPrice
	}

	from, to := resolveWindow(req.Date, req.At, req.WindowMin)

	return s.tripRepo.Search(ctx, repository.TripSearchFilter{
		From:     from,
		To:       to,
		Statuses: []domain.TripStatus{domain.TripStatusOpen},
		MinSeats: req.Seats,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
}

// resolveWindow turns a date plus optional anchor into a [from, to]
// range clamped to the date's day in UTC. The end of day is inclusive
// of 23:59:59.999999999 and excludes the next day's midnight on both
// the anchored and unanchored paths.
func resolveWindow(date time.Time, at *time.Time, windowMin int) (time.Time, time.Time) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	from, to := dayStart, dayEnd

	if at != nil {
		if windowMin <= 0 {
			windowMin = defaultWindowMinutes
		}
		window := time.Duration(windowMin) * time.Minute
		from = at.Add(-window)
		to = at.Add(window)
		if from.Before(dayStart) {
			from = dayStart
		}
		if to.After(dayEnd) {
			to = dayEnd
		}
	}
	return from, to
}

// matchNear scores trips whose start and end both lie within the
// proximity radius of the requested endpoints.
func (s *SearchService) matchNear(candidates []*domain.Trip, req SearchRequest) []domain.TripMatch {
	radius := req.RadiusKm
	if radius <= 0 {
		radius = s.NearRadiusKm
	}
	if radius <= 0 {
		radius = defaultNearRadiusKm
	}

	var out []domain.TripMatch
	for _, t := range candidates {
		dStart := geo.HaversineKm(req.StartLat, req.StartLng, t.StartLat, t.StartLng)
		if dStart > radius {
			continue
		}
		dEnd := geo.HaversineKm(req.EndLat, req.EndLng, t.EndLat, t.EndLng)
		if dEnd > radius {
			continue
		}
		out = append(out, domain.TripMatch{
			TripID:    t.ID,
			Score:     1.0 / (1.0 + dStart + dEnd),
			MatchedBy: domain.MatchedByNear,
		})
	}
	return out
}

// matchAlong scores trips whose route corridor covers both pickup and
// drop, in pickup-before-drop order. Trips carrying an encoded path are
// matched against the decoded polyline; the rest fall back to the
// straight start-to-end segment.
func (s *SearchService) matchAlong(candidates []*domain.Trip, req SearchRequest) []domain.TripMatch {
	corridor := s.CorridorRadiusKm
	if corridor <= 0 {
		corridor = defaultCorridorRadiusKm
	}
	detour := s.MaxDetourKm
	if detour <= 0 {
		detour = defaultMaxDetourKm
	}

	var out []domain.TripMatch
	for _, t := range candidates {
		var dPick, dDrop float64
		var orderOK bool
		var orderScore float64

		if t.Polyline != "" {
			path := geo.DecodePolyline(t.Polyline)

			dPick = geo.DistanceToPathKm(req.StartLat, req.StartLng, path)
			dDrop = geo.DistanceToPathKm(req.EndLat, req.EndLng, path)
			if dPick > corridor || dDrop > corridor {
				continue
			}
			if dPick > detour || dDrop > detour {
				continue
			}

			iPick := geo.ClosestIndexOnPath(req.StartLat, req.StartLng, path)
			iDrop := geo.ClosestIndexOnPath(req.EndLat, req.EndLng, path)
			orderOK = iPick < iDrop

			// longer usable along-path span scores higher
			span := iDrop - iPick
			if span < 0 {
				span = 0
			}
			denom := len(path) - 1
			if denom < 1 {
				denom = 1
			}
			orderScore = float64(span) / float64(denom)
		} else {
			dPick = geo.PointToSegmentDistanceKm(req.StartLat, req.StartLng,
				t.StartLat, t.StartLng, t.EndLat, t.EndLng)
			dDrop = geo.PointToSegmentDistanceKm(req.EndLat, req.EndLng,
				t.StartLat, t.StartLng, t.EndLat, t.EndLng)
			if dPick > corridor || dDrop > corridor {
				continue
			}
			if dPick > detour || dDrop > detour {
				continue
			}

			tp := geo.ProjectionT(req.StartLat, req.StartLng,
				t.StartLat, t.StartLng, t.EndLat, t.EndLng)
			tq := geo.ProjectionT(req.EndLat, req.EndLng,
				t.StartLat, t.StartLng, t.EndLat, t.EndLng)
			orderOK = tp <= tq // allow near-equal due to rounding
			orderScore = tq - tp
			if orderScore < 0 {
				orderScore = 0
			}
		}

		if !orderOK {
			continue
		}

		out = append(out, domain.TripMatch{
			TripID:    t.ID,
			Score:     1.0/(1.0+dPick+dDrop) + orderScore,
			MatchedBy: domain.MatchedByAlong,
		})
	}
	return out
}

// assemble merges near and along hits per trip, tags them, and sorts.
// Trips with no hit from either matcher are absent from the result.
func (s *SearchService) assemble(candidates []*domain.Trip, nearHits, alongHits []domain.TripMatch) []SearchResult {
	byID := make(map[string]*domain.Trip, len(candidates))
	for _, t := range candidates {
		byID[t.ID] = t
	}

	type acc struct {
		near  *float64
		along *float64
	}
	merged := make(map[string]*acc)
	for _, m := range nearHits {
		score := m.Score
		merged[m.TripID] = &acc{near: &score}
	}
	for _, m := range alongHits {
		score := m.Score
		if a, ok := merged[m.TripID]; ok {
			a.along = &score
		} else {
			merged[m.TripID] = &acc{along: &score}
		}
	}

	results := make([]SearchResult, 0, len(merged))
	for id, a := range merged {
		trip := byID[id]
		if trip == nil {
			continue
		}
		var r SearchResult
		r.Trip = trip
		switch {
		case a.near != nil && a.along != nil:
			r.MatchedBy = domain.MatchedByBoth
			r.Score = (*a.near + *a.along) / 2
		case a.along != nil:
			r.MatchedBy = domain.MatchedByAlong
			r.Score = *a.along
		default:
			r.MatchedBy = domain.MatchedByNear
			r.Score = *a.near
		}
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		ri, rj := results[i].MatchedBy.Rank(), results[j].MatchedBy.Rank()
		if ri != rj {
			return ri > rj
		}
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Trip.ID < results[j].Trip.ID
	})
	return results
}
