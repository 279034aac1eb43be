package composer

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Rating bands group 1-2, 3, and 4-5 star requests onto shared
// phrase tables.
const (
	bandLow  = "low"
	bandMid  = "mid"
	bandHigh = "high"
)

// Pack holds the phrase tables the composer draws from. Opener entries
// are format strings with a single %s slot for the hotel name; closers
// follow the sentence subject directly.
type Pack struct {
	Openers     map[string][]string `yaml:"openers"`
	Closers     map[string][]string `yaml:"closers"`
	TripPhrases map[string]string   `yaml:"trip_phrases"`
}

// DefaultPack returns the built-in phrase tables.
func DefaultPack() *Pack {
	return &Pack{
		Openers: map[string][]string{
			bandHigh: {
				"had an absolutely wonderful stay at %s",
				"loved every minute at %s",
				"had a fantastic experience at %s",
			},
			bandMid: {
				"had a decent stay at %s",
				"found %s to be a mixed experience",
				"had an average visit to %s",
			},
			bandLow: {
				"had a disappointing stay at %s",
				"expected much more from %s",
				"left %s feeling let down",
			},
		},
		Closers: map[string][]string{
			bandHigh: {
				"would happily return and recommend it to anyone",
				"can't wait to come back",
				"would recommend it without hesitation",
			},
			bandMid: {
				"might give it another chance",
				"would consider staying again at the right price",
				"found it fine for a short visit",
			},
			bandLow: {
				"would not stay here again",
				"suggest looking elsewhere",
				"hope management takes the feedback seriously",
			},
		},
		TripPhrases: map[string]string{
			"leisure":  "on a relaxing leisure trip",
			"business": "on a business trip",
			"family":   "on a family getaway",
			"romantic": "on a romantic getaway",
			"solo":     "while traveling solo",
		},
	}
}

// LoadPack reads a YAML phrase pack from fs and overlays it on the
// defaults: bands and trip types present in the file replace the
// built-in entries, everything else is kept. An empty path or a
// missing file keeps the defaults; a malformed or incomplete pack is
// a configuration error.
func LoadPack(fs afero.Fs, path string) (*Pack, error) {
	pack := DefaultPack()
	if path == "" {
		return pack, nil
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("stat phrase pack: %w", err)
	}
	if !exists {
		return pack, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read phrase pack: %w", err)
	}

	if err := yaml.Unmarshal(data, pack); err != nil {
		return nil, fmt.Errorf("parse phrase pack: %w", err)
	}

	if err := pack.validate(); err != nil {
		return nil, fmt.Errorf("phrase pack %s: %w", path, err)
	}
	return pack, nil
}

func (p *Pack) validate() error {
	for _, band := range []string{bandLow, bandMid, bandHigh} {
		if len(p.Openers[band]) == 0 {
			return fmt.Errorf("no openers for %s band", band)
		}
		if len(p.Closers[band]) == 0 {
			return fmt.Errorf("no closers for %s band", band)
		}
	}
	return nil
}
