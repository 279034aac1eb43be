package providers

import (
	"fmt"
	"strings"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// Message is one chat message in the upstream wire format
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ratingTones maps a rating to the tone the generated review should carry
var ratingTones = map[int]string{
	1: "very disappointed and frustrated",
	2: "disappointed but fair",
	3: "balanced, mentioning both positives and negatives",
	4: "positive and satisfied",
	5: "enthusiastic and delighted",
}

// languageNames maps ISO codes to display names for the prompt
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
	"el": "Greek",
	"ja": "Japanese",
	"zh": "Chinese",
}

const defaultLanguageName = "English"

// ToneForRating returns the prompt tone for a rating, defaulting to
// balanced when the rating is outside the known table
func ToneForRating(rating int) string {
	if tone, ok := ratingTones[rating]; ok {
		return tone
	}
	return ratingTones[3]
}

// LanguageName resolves an ISO language code to its display name,
// defaulting to English for unknown or empty codes
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return defaultLanguageName
}

// BuildMessages constructs the system and user messages for a request
func BuildMessages(req *models.GenerationRequest) []Message {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Write a %s hotel review for %q rated %d out of 5 stars.",
		ToneForRating(req.Rating), req.HotelName, req.Rating)
	fmt.Fprintf(&sb, " The stay was a %s trip", strings.TrimSpace(req.TripType))
	if req.Nights > 0 {
		fmt.Fprintf(&sb, " of %d night(s)", req.Nights)
	}
	sb.WriteString(".")

	if req.Voice != "" {
		fmt.Fprintf(&sb, " The reviewer traveled as a %s guest.", req.Voice)
	}
	if len(req.Highlights) > 0 {
		fmt.Fprintf(&sb, " Mention these aspects naturally: %s.", strings.Join(req.Highlights, ", "))
	}
	fmt.Fprintf(&sb, " Write 2-4 sentences in %s, first person, without a title.", LanguageName(req.Language))

	return []Message{
		{Role: "system", Content: "You are a hotel guest writing an authentic, natural-sounding review of a recent stay."},
		{Role: "user", Content: sb.String()},
	}
}
