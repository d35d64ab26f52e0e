package geo

import "strings"

// polylineScale is the 1e-5 precision factor of the encoded polyline format.
const polylineScale = 1e5

// DecodePolyline decodes a polyline string produced by the directions API
// into the ordered coordinate sequence it represents. An empty string decodes
// to an empty sequence. The input is trusted to be well formed; this is only
// ever fed overview polylines returned by the upstream service.
func DecodePolyline(encoded string) []Coordinate {
	var points []Coordinate
	var lat, lng int64

	for i := 0; i < len(encoded); {
		dLat, next := decodeSignedValue(encoded, i)
		lat += dLat
		i = next

		dLng, next := decodeSignedValue(encoded, i)
		lng += dLng
		i = next

		points = append(points, Coordinate{
			Latitude:  float64(lat) / polylineScale,
			Longitude: float64(lng) / polylineScale,
		})
	}

	return points
}

// EncodePolyline is the inverse of DecodePolyline. It exists so generated
// route previews can be handed back to clients in the same compact form the
// directions API uses.
func EncodePolyline(points []Coordinate) string {
	var sb strings.Builder
	var prevLat, prevLng int64

	for _, p := range points {
		lat := int64(round(p.Latitude * polylineScale))
		lng := int64(round(p.Longitude * polylineScale))

		encodeSignedValue(&sb, lat-prevLat)
		encodeSignedValue(&sb, lng-prevLng)

		prevLat = lat
		prevLng = lng
	}

	return sb.String()
}

func decodeSignedValue(encoded string, i int) (int64, int) {
	var result int64
	var shift uint

	for {
		b := int64(encoded[i]) - 63
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i
	}
	return result >> 1, i
}

func encodeSignedValue(sb *strings.Builder, v int64) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		sb.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	sb.WriteByte(byte(u + 63))
}

func round(f float64) float64 {
	if f < 0 {
		return float64(int64(f - 0.5))
	}
	return float64(int64(f + 0.5))
}
