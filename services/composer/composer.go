package composer

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// Composer assembles review text from phrase tables without calling any
// external service. Output is deterministic: the same request always
// yields the same text.
type Composer struct {
	pack *Pack
}

// New returns a Composer backed by the given phrase pack, or by the
// built-in defaults when pack is nil.
func New(pack *Pack) *Composer {
	if pack == nil {
		pack = DefaultPack()
	}
	return &Composer{pack: pack}
}

// Compose builds a short first-person review. It never fails in
// practice; the error return lets callers guard against a broken
// custom pack without panicking mid-request.
func (c *Composer) Compose(req *models.GenerationRequest) (string, error) {
	band := bandForRating(req.Rating)

	openers := c.pack.Openers[band]
	closers := c.pack.Closers[band]
	if len(openers) == 0 || len(closers) == 0 {
		return "", fmt.Errorf("phrase pack has no %s-band phrases", band)
	}

	subject := subjectForVoice(req.Voice)
	hotel := strings.TrimSpace(req.HotelName)

	var sentences []string

	opener := openers[phraseIndex(hotel, req.Rating, 0, len(openers))]
	first := fmt.Sprintf("%s %s", subject, fmt.Sprintf(opener, hotel))
	if trip := c.tripPhrase(req.TripType); trip != "" {
		first += " " + trip
	}
	sentences = append(sentences, first+".")

	if req.Nights > 0 {
		noun := "nights"
		if req.Nights == 1 {
			noun = "night"
		}
		sentences = append(sentences, fmt.Sprintf("%s stayed %d %s", subject, req.Nights, noun)+".")
	}

	if clause := highlightClause(req.Highlights); clause != "" {
		if band == bandLow {
			sentences = append(sentences, fmt.Sprintf("Unfortunately, the %s fell short of expectations.", clause))
		} else {
			sentences = append(sentences, fmt.Sprintf("The %s really stood out.", clause))
		}
	}

	closer := closers[phraseIndex(hotel, req.Rating, 1, len(closers))]
	sentences = append(sentences, fmt.Sprintf("%s %s", subject, closer)+".")

	return strings.Join(sentences, " "), nil
}

// Emergency builds a fixed minimal sentence from the hotel name and
// rating alone. It has no phrase tables and no failure modes; the
// router reaches it only when the composer itself misbehaves.
func Emergency(req *models.GenerationRequest) string {
	hotel := strings.TrimSpace(req.HotelName)
	if hotel == "" {
		hotel = "this hotel"
	}

	quality := "an acceptable"
	switch {
	case req.Rating >= 4:
		quality = "a great"
	case req.Rating <= 2:
		quality = "a disappointing"
	}

	return fmt.Sprintf("My stay at %s was %s experience. Rating: %d/5.", hotel, quality, req.Rating)
}

func (c *Composer) tripPhrase(tripType string) string {
	key := strings.ToLower(strings.TrimSpace(tripType))
	if key == "" {
		return ""
	}
	if phrase, ok := c.pack.TripPhrases[key]; ok {
		return phrase
	}
	return fmt.Sprintf("on a %s trip", key)
}

// phraseIndex derives a stable phrase slot from the request identity.
// The salt keeps opener and closer choices from always pairing up.
func phraseIndex(hotel string, rating int, salt byte, n int) int {
	h := fnv.New32a()
	h.Write([]byte(hotel))
	h.Write([]byte{byte(rating), salt})
	return int(h.Sum32() % uint32(n))
}

func bandForRating(rating int) string {
	switch {
	case rating <= 2:
		return bandLow
	case rating == 3:
		return bandMid
	default:
		return bandHigh
	}
}

func subjectForVoice(voice string) string {
	switch strings.ToLower(strings.TrimSpace(voice)) {
	case "couple", "family", "group":
		return "We"
	default:
		return "I"
	}
}

// highlightClause joins highlights as a natural list, with "and"
// before the final item. Empty entries are skipped.
func highlightClause(highlights []string) string {
	cleaned := make([]string, 0, len(highlights))
	for _, h := range highlights {
		h = strings.TrimSpace(h)
		if h != "" {
			cleaned = append(cleaned, strings.ToLower(h))
		}
	}

	switch len(cleaned) {
	case 0:
		return ""
	case 1:
		return cleaned[0]
	case 2:
		return cleaned[0] + " and " + cleaned[1]
	default:
		return strings.Join(cleaned[:len(cleaned)-1], ", ") + " and " + cleaned[len(cleaned)-1]
	}
}
