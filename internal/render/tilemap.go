package render

import (
	"encoding/json"
	"io"

	"github.com/LeonardoBeccarini/cultiverse/internal/model/entities"
)

// MarkerIcon is the sensor marker configuration handed to the tile map
// client. Each TileMap carries its own.
type MarkerIcon struct {
	IconURL       string `json:"iconUrl"`
	IconRetinaURL string `json:"iconRetinaUrl"`
	ShadowURL     string `json:"shadowUrl"`
	IconSize      [2]int `json:"iconSize"`
	IconAnchor    [2]int `json:"iconAnchor"`
	PopupAnchor   [2]int `json:"popupAnchor"`
	ShadowSize    [2]int `json:"shadowSize"`
}

// DefaultMarkerIcon points at the stock Leaflet 1.9.4 marker images.
func DefaultMarkerIcon() MarkerIcon {
	const base = "https://unpkg.com/leaflet@1.9.4/dist/images/"
	return MarkerIcon{
		IconURL:       base + "marker-icon.png",
		IconRetinaURL: base + "marker-icon-2x.png",
		ShadowURL:     base + "marker-shadow.png",
		IconSize:      [2]int{25, 41},
		IconAnchor:    [2]int{12, 41},
		PopupAnchor:   [2]int{1, -34},
		ShadowSize:    [2]int{41, 41},
	}
}

// TileMap is the tile backend. It emits a GeoJSON FeatureCollection plus
// the map options a Leaflet-style client needs.
type TileMap struct {
	Icon        MarkerIcon
	Weight      float64
	FillOpacity float64
}

// NewTileMap returns a tile backend using icon for every sensor marker.
func NewTileMap(icon MarkerIcon) TileMap {
	return TileMap{Icon: icon, Weight: 2, FillOpacity: 0.25}
}

// TileDocument is the JSON written by TileMap.
type TileDocument struct {
	Center       [2]float64        `json:"center"` // lat, lon
	Zoom         int               `json:"zoom"`
	ScrollZoom   bool              `json:"scrollWheelZoom"`
	ScaleControl string            `json:"scaleControl"`
	Tiles        TileLayer         `json:"tiles"`
	Icon         MarkerIcon        `json:"icon"`
	Selected     string            `json:"selected"`
	Features     FeatureCollection `json:"features"`
}

// TileLayer is the raster source of the base map.
type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON Point or Polygon. Positions are [lon, lat].
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// PathStyle mirrors the Leaflet path options applied to a zone.
type PathStyle struct {
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

func position(c entities.Coord) [2]float64 {
	return [2]float64{c.Lon, c.Lat}
}

// ring closes the polygon as GeoJSON requires.
func ring(coords []entities.Coord) [][2]float64 {
	out := make([][2]float64, 0, len(coords)+1)
	for _, c := range coords {
		out = append(out, position(c))
	}
	if len(coords) > 0 && coords[0] != coords[len(coords)-1] {
		out = append(out, position(coords[0]))
	}
	return out
}

// Document builds the tile document without encoding it.
func (m TileMap) Document(scene MapScene, onSelect SelectAction) TileDocument {
	features := make([]Feature, 0, len(scene.Zones)+len(scene.Sensors))
	for _, z := range scene.Zones {
		features = append(features, Feature{
			Type:     "Feature",
			ID:       z.ID,
			Geometry: Geometry{Type: "Polygon", Coordinates: [][][2]float64{ring(z.Coords)}},
			Properties: map[string]any{
				"kind":     "zone",
				"health":   z.Health,
				"nitrogen": z.Nitrogen,
				"selected": z.ID == scene.Selected,
				"onClick":  onSelect(z.ID),
				"style":    PathStyle{Color: z.Color, Weight: m.Weight, FillOpacity: m.FillOpacity},
			},
		})
	}
	for _, s := range scene.Sensors {
		features = append(features, Feature{
			Type:     "Feature",
			ID:       s.ID,
			Geometry: Geometry{Type: "Point", Coordinates: position(s.Pos)},
			Properties: map[string]any{
				"kind":  "sensor",
				"label": s.Label,
				"value": s.Value,
				"popup": s.ID + " " + s.Label + ": " + s.Value,
			},
		})
	}

	return TileDocument{
		Center:       [2]float64{scene.Farm.Center.Lat, scene.Farm.Center.Lon},
		Zoom:         scene.Farm.Zoom,
		ScrollZoom:   true,
		ScaleControl: "bottomleft",
		Tiles:        TileLayer{URL: scene.Farm.TileURL, Attribution: scene.Farm.Attribution},
		Icon:         m.Icon,
		Selected:     scene.Selected,
		Features:     FeatureCollection{Type: "FeatureCollection", Features: features},
	}
}

// DrawMap writes the tile document as JSON.
func (m TileMap) DrawMap(w io.Writer, scene MapScene, onSelect SelectAction) error {
	return json.NewEncoder(w).Encode(m.Document(scene, onSelect))
}

func (TileMap) ContentType() string { return "application/json" }
