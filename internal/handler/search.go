package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LZPPS/routelink/internal/service"
)

// SearchHandler handles HTTP requests for trip search.
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// MatchResponse is one scored search hit.
type MatchResponse struct {
	Trip      TripResponse `json:"trip"`
	Score     float64      `json:"score"`
	MatchedBy string       `json:"matched_by"`
}

// Browse handles GET /v1/trips/search
func (h *SearchHandler) Browse(c *gin.Context) {
	date, ok := parseDate(c)
	if !ok {
		return
	}
	at, ok := parseAt(c)
	if !ok {
		return
	}

	req := service.BrowseRequest{
		Date:      date,
		At:        at,
		WindowMin: intQuery(c, "window_min", 0),
		Seats:     intQuery(c, "seats", 1),
		MinPrice:  centsQuery(c, "min_price_cents"),
		MaxPrice:  centsQuery(c, "max_price_cents"),
		SortBy:    c.Query("sort"),
		SortDesc:  c.Query("order") == "desc",
		Page:      intQuery(c, "page", 0),
		Size:      intQuery(c, "size", 20),
	}

	trips, err := h.searchService.Browse(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	respondJSON(c, http.StatusOK, gin.H{"trips": out, "page": req.Page, "size": req.Size})
}

// Near handles GET /v1/trips/search/near
func (h *SearchHandler) Near(c *gin.Context) {
	req, ok := h.matchRequest(c)
	if !ok {
		return
	}
	results, err := h.searchService.SearchNear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"matches": toMatchResponses(results)})
}

// Route handles GET /v1/trips/search/route
func (h *SearchHandler) Route(c *gin.Context) {
	req, ok := h.matchRequest(c)
	if !ok {
		return
	}
	results, err := h.searchService.SearchAlong(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"matches": toMatchResponses(results)})
}

// Unified handles GET /v1/trips/search/unified
//
// Both matchers run over the full candidate set; paging slices the
// merged ranking in memory so page boundaries respect the final order.
func (h *SearchHandler) Unified(c *gin.Context) {
	req, ok := h.matchRequest(c)
	if !ok {
		return
	}
	results, err := h.searchService.SearchUnified(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	page := intQuery(c, "page", 0)
	size := intQuery(c, "size", 20)
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 20
	}
	start := page * size
	if start > len(results) {
		start = len(results)
	}
	end := start + size
	if end > len(results) {
		end = len(results)
	}

	respondJSON(c, http.StatusOK, gin.H{
		"matches": toMatchResponses(results[start:end]),
		"page":    page,
		"size":    size,
		"total":   len(results),
	})
}

func (h *SearchHandler) matchRequest(c *gin.Context) (service.SearchRequest, bool) {
	var req service.SearchRequest

	var ok bool
	if req.StartLat, ok = floatQuery(c, "start_lat"); !ok {
		return req, false
	}
	if req.StartLng, ok = floatQuery(c, "start_lng"); !ok {
		return req, false
	}
	if req.EndLat, ok = floatQuery(c, "end_lat"); !ok {
		return req, false
	}
	if req.EndLng, ok = floatQuery(c, "end_lng"); !ok {
		return req, false
	}

	date, ok := parseDate(c)
	if !ok {
		return req, false
	}
	at, ok := parseAt(c)
	if !ok {
		return req, false
	}

	req.Date = date
	req.At = at
	req.WindowMin = intQuery(c, "window_min", 0)
	req.Seats = intQuery(c, "seats", 1)
	req.MinPrice = centsQuery(c, "min_price_cents")
	req.MaxPrice = centsQuery(c, "max_price_cents")
	if radius, err := strconv.ParseFloat(c.Query("radius_km"), 64); err == nil {
		req.RadiusKm = radius
	}
	return req, true
}

// parseDate reads the required "date" query param as YYYY-MM-DD.
func parseDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: "date is required (YYYY-MM-DD)"})
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// parseAt reads the optional "at" query param as RFC 3339.
func parseAt(c *gin.Context) (*time.Time, bool) {
	raw := c.Query("at")
	if raw == "" {
		return nil, true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: "at must be RFC 3339"})
		return nil, false
	}
	at = at.UTC()
	return &at, true
}

func floatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	v, err := strconv.ParseFloat(raw, 64)
	if raw == "" || err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: name + " is required"})
		return 0, false
	}
	return v, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

func centsQuery(c *gin.Context, name string) *int64 {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func toMatchResponses(results []service.SearchResult) []MatchResponse {
	out := make([]MatchResponse, 0, len(results))
	for _, r := range results {
		out = append(out, MatchResponse{
			Trip:      toTripResponse(r.Trip),
			Score:     r.Score,
			MatchedBy: string(r.MatchedBy),
		})
	}
	return out
}
