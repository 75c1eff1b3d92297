package entities

// Farm describes how the twin map is framed: where it is centered and
// which tile layer the tile backend should request.
type Farm struct {
	Name        string `json:"name" yaml:"name"`
	Center      Coord  `json:"center" yaml:"center"`
	Zoom        int    `json:"zoom" yaml:"zoom"`
	TileURL     string `json:"tile_url" yaml:"tileUrl"`
	Attribution string `json:"attribution" yaml:"attribution"`
}
