// Package trip holds the itinerary the engine animates between. The default
// trip is embedded and read-only.
package trip

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wanderflow/wanderflow/internal/geo"
	"github.com/wanderflow/wanderflow/pkg/core"
)

//go:embed trip.yaml
var defaultTrip []byte

var (
	// ErrMissingSelection is returned when an animation is requested without two checkpoints
	ErrMissingSelection = errors.New("select two locations")
	// ErrUnknownLocation is returned when a location id is not part of the trip
	ErrUnknownLocation = errors.New("unknown location")
	// ErrInvalidTrip is returned when trip data fails validation
	ErrInvalidTrip = errors.New("invalid trip")
)

// Category groups locations in the itinerary.
type Category string

const (
	CategoryCulture  Category = "culture"
	CategoryFood     Category = "food"
	CategoryNature   Category = "nature"
	CategoryShopping Category = "shopping"
	CategoryStay     Category = "stay"
)

// CategoryAll selects every location in Filter.
const CategoryAll = "all"

// Categories lists every known category.
var Categories = []Category{CategoryCulture, CategoryFood, CategoryNature, CategoryShopping, CategoryStay}

func (c Category) valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Difficulty of reaching a location.
type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
)

// Location is one stop of the trip.
type Location struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Lat         float64    `yaml:"lat" json:"lat"`
	Lng         float64    `yaml:"lng" json:"lng"`
	Category    Category   `yaml:"category" json:"category"`
	Difficulty  Difficulty `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	Photos      []string   `yaml:"photos" json:"photos"`
	Time        string     `yaml:"time" json:"time"`
	Day         int        `yaml:"day" json:"day"`
	Rating      float64    `yaml:"rating" json:"rating"`
}

// Checkpoint returns the animation endpoint for the location.
func (l Location) Checkpoint() core.Checkpoint {
	return core.Checkpoint{ID: l.ID, Name: l.Name, Lat: l.Lat, Lng: l.Lng}
}

// Stats are the headline numbers shown for a trip.
type Stats struct {
	Distance string `yaml:"distance" json:"distance"`
	Places   int    `yaml:"places" json:"places"`
	Photos   int    `yaml:"photos" json:"photos"`
}

// Trip is an itinerary.
type Trip struct {
	ID        string     `yaml:"id" json:"id"`
	Title     string     `yaml:"title" json:"title"`
	Dates     string     `yaml:"dates" json:"dates"`
	Stats     Stats      `yaml:"stats" json:"stats"`
	Locations []Location `yaml:"locations" json:"locations"`
}

// Default returns the embedded Kyoto & Osaka trip.
func Default() (*Trip, error) {
	return Parse(defaultTrip)
}

// Parse decodes and validates YAML trip data.
func Parse(data []byte) (*Trip, error) {
	var t Trip
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("error decoding trip: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Trip) validate() error {
	seen := make(map[string]bool, len(t.Locations))
	for i, l := range t.Locations {
		switch {
		case l.ID == "":
			return fmt.Errorf("%w: location %d has no id", ErrInvalidTrip, i)
		case seen[l.ID]:
			return fmt.Errorf("%w: duplicate location id %s", ErrInvalidTrip, l.ID)
		case l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180:
			return fmt.Errorf("%w: location %s has out of range coordinates", ErrInvalidTrip, l.ID)
		case !l.Category.valid():
			return fmt.Errorf("%w: location %s has unknown category %q", ErrInvalidTrip, l.ID, l.Category)
		}
		seen[l.ID] = true
	}
	return nil
}

// Filter returns the locations of a category in itinerary order. "all" and
// the empty string select everything.
func (t *Trip) Filter(category string) []Location {
	c := strings.ToLower(strings.TrimSpace(category))
	out := make([]Location, 0, len(t.Locations))
	for _, l := range t.Locations {
		if c == "" || c == CategoryAll || string(l.Category) == c {
			out = append(out, l)
		}
	}
	return out
}

// Find looks a location up by id.
func (t *Trip) Find(id string) (Location, bool) {
	for _, l := range t.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

// Days returns the distinct trip days in ascending order.
func (t *Trip) Days() []int {
	seen := map[int]bool{}
	var days []int
	for _, l := range t.Locations {
		if !seen[l.Day] {
			seen[l.Day] = true
			days = append(days, l.Day)
		}
	}
	sort.Ints(days)
	return days
}

// OnDay returns the locations visited on day in itinerary order.
func (t *Trip) OnDay(day int) []Location {
	var out []Location
	for _, l := range t.Locations {
		if l.Day == day {
			out = append(out, l)
		}
	}
	return out
}

// Resolve turns a location id or a "lng,lat" pair into a checkpoint.
func (t *Trip) Resolve(ref string) (core.Checkpoint, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return core.Checkpoint{}, ErrMissingSelection
	}
	if l, ok := t.Find(ref); ok {
		return l.Checkpoint(), nil
	}
	if strings.Contains(ref, ",") {
		pos, err := geo.ParseLngLat(ref)
		if err != nil {
			return core.Checkpoint{}, fmt.Errorf("%w: %s", err, ref)
		}
		return core.Checkpoint{ID: ref, Name: ref, Lat: pos.Lat, Lng: pos.Lng}, nil
	}
	return core.Checkpoint{}, fmt.Errorf("%w: %s", ErrUnknownLocation, ref)
}

// Pair resolves both endpoints of an animation. Both must be given and differ.
func (t *Trip) Pair(fromRef, toRef string) (core.Checkpoint, core.Checkpoint, error) {
	if strings.TrimSpace(fromRef) == "" || strings.TrimSpace(toRef) == "" {
		return core.Checkpoint{}, core.Checkpoint{}, ErrMissingSelection
	}
	a, err := t.Resolve(fromRef)
	if err != nil {
		return core.Checkpoint{}, core.Checkpoint{}, err
	}
	b, err := t.Resolve(toRef)
	if err != nil {
		return core.Checkpoint{}, core.Checkpoint{}, err
	}
	if a.ID == b.ID {
		return core.Checkpoint{}, core.Checkpoint{}, fmt.Errorf("%w: %s", core.ErrSameCheckpoint, a.ID)
	}
	return a, b, nil
}
