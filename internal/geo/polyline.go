package geo

import (
	"math"
	"strings"
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// EncodePolyline encodes an ordered sequence of points into a compact
// ASCII string using the Google polyline scheme: coordinates scaled by
// 1e5, delta-encoded against the previous point, zig-zag transformed and
// emitted in 5-bit chunks with a continuation flag, offset by 63 to keep
// the output printable. Precision is 1e-5 degrees (~1.1 m).
func EncodePolyline(path []Point) string {
	if len(path) == 0 {
		return ""
	}
	var sb strings.Builder
	var lastLat, lastLng int64
	for _, p := range path {
		ilat := int64(math.Round(p.Lat * 1e5))
		ilng := int64(math.Round(p.Lng * 1e5))
		writeDelta(&sb, ilat-lastLat)
		writeDelta(&sb, ilng-lastLng)
		lastLat, lastLng = ilat, ilng
	}
	return sb.String()
}

func writeDelta(sb *strings.Builder, v int64) {
	if v < 0 {
		v = ^(v << 1)
	} else {
		v <<= 1
	}
	for v >= 0x20 {
		sb.WriteByte(byte((0x20 | (v & 0x1f)) + 63))
		v >>= 5
	}
	sb.WriteByte(byte(v + 63))
}

// DecodePolyline reverses EncodePolyline, accumulating deltas into
// running lat/lng sums. A malformed or truncated input yields whatever
// prefix decoded cleanly rather than an error.
func DecodePolyline(encoded string) []Point {
	path := []Point{}
	if encoded == "" {
		return path
	}

	index, length := 0, len(encoded)
	var lat, lng int64

	for index < length {
		dlat, next, ok := readDelta(encoded, index)
		if !ok {
			return path
		}
		index = next
		lat += dlat

		dlng, next, ok := readDelta(encoded, index)
		if !ok {
			return path
		}
		index = next
		lng += dlng

		path = append(path, Point{Lat: float64(lat) / 1e5, Lng: float64(lng) / 1e5})
	}
	return path
}

func readDelta(encoded string, index int) (delta int64, next int, ok bool) {
	var result int64
	shift := uint(0)
	for {
		if index >= len(encoded) {
			return 0, index, false
		}
		b := int64(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), index, true
	}
	return result >> 1, index, true
}
