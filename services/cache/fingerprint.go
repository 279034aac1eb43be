package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// fingerprintPayload is the canonical key material. Struct field order
// fixes the encoding; highlights are sorted before marshaling so their
// submission order never changes the key.
type fingerprintPayload struct {
	Hotel      string   `json:"hotel"`
	Rating     int      `json:"rating"`
	TripType   string   `json:"trip_type"`
	Highlights []string `json:"highlights"`
}

// Fingerprint derives the canonical cache key for a request.
// Hotel name keeps its case since it appears verbatim in generated
// text; trip type and highlights are trimmed and lowercased. Nights,
// voice, and language are excluded, so variants of those fields share
// one cached review.
func Fingerprint(req *models.GenerationRequest) string {
	highlights := make([]string, 0, len(req.Highlights))
	for _, h := range req.Highlights {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			highlights = append(highlights, h)
		}
	}
	sort.Strings(highlights)

	payload := fingerprintPayload{
		Hotel:      strings.TrimSpace(req.HotelName),
		Rating:     req.Rating,
		TripType:   strings.ToLower(strings.TrimSpace(req.TripType)),
		Highlights: highlights,
	}

	data, _ := json.Marshal(payload) // plain struct, cannot fail
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
