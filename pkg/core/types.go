// pkg/core/types.go
package core

import (
	"encoding/json"
	"fmt"
)

// LngLat is a geographic position in degrees, longitude first like GeoJSON.
type LngLat struct {
	Lng float64
	Lat float64
}

// MarshalJSON encodes the position as a [lng, lat] pair.
func (p LngLat) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lng, p.Lat})
}

// UnmarshalJSON decodes a [lng, lat] pair.
func (p *LngLat) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("position must have 2 values, got %d", len(pair))
	}
	p.Lng, p.Lat = pair[0], pair[1]
	return nil
}

// Checkpoint is a named point used as an animation endpoint.
// ID is opaque and unique within a trip.
type Checkpoint struct {
	ID   string
	Name string
	Lat  float64
	Lng  float64
}

// Position returns the checkpoint coordinates.
func (c Checkpoint) Position() LngLat {
	return LngLat{Lng: c.Lng, Lat: c.Lat}
}
