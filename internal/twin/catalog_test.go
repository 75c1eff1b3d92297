package twin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/cultiverse/internal/model/entities"
)

func TestDefaultCatalog_Valid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())

	assert.Len(t, c.Zones, 3)
	assert.Len(t, c.Sensors, 3)
	assert.Equal(t, 13, c.Farm.Zoom)
	for _, z := range c.Zones {
		assert.Len(t, z.Coords, 4, z.ID)
	}
}

func TestCatalog_ValidateRejects(t *testing.T) {
	square := rect(1, 1, 0, 2)

	cases := []struct {
		name   string
		mutate func(c *Catalog)
		want   string
	}{
		{"no zones", func(c *Catalog) { c.Zones = nil }, "no zones"},
		{"empty id", func(c *Catalog) { c.Zones[0].ID = "" }, "empty id"},
		{"duplicate id", func(c *Catalog) { c.Zones[1].ID = "Zone 1" }, "duplicate id"},
		{"health high", func(c *Catalog) { c.Zones[0].Health = 1.2 }, "outside [0,1]"},
		{"health negative", func(c *Catalog) { c.Zones[0].Health = -0.1 }, "outside [0,1]"},
		{"nitrogen", func(c *Catalog) { c.Zones[0].Nitrogen = "high" }, "nitrogen"},
		{"too few vertices", func(c *Catalog) { c.Zones[0].Coords = square[:2] }, "at least 3"},
		{"latitude", func(c *Catalog) { c.Zones[2].Coords = []entities.Coord{{Lat: 91}, {}, {}} }, "latitude"},
		{"sensor dup", func(c *Catalog) { c.Sensors[1].ID = "S-01" }, "duplicate id"},
		{"sensor lon", func(c *Catalog) { c.Sensors[0].Pos.Lon = 200 }, "longitude"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultCatalog()
			tc.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
farm:
  name: Test farm
zones:
  - id: North
    health: 0.9
    nitrogen: ok
    color: "#34d399"
    coords:
      - {lat: 10, lon: 20}
      - {lat: 10, lon: 22}
      - {lat: 8, lon: 22}
      - {lat: 8, lon: 20}
sensors:
  - id: S-9
    label: Humidity
    value: "70%"
    pos: {lat: 9, lon: 21}
`), 0o600))

	c, err := LoadCatalogFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Test farm", c.Farm.Name)
	assert.Equal(t, 13, c.Farm.Zoom, "zoom falls back to the demo farm")
	assert.NotEmpty(t, c.Farm.TileURL)
	assert.Equal(t, entities.Coord{Lat: 9, Lon: 21}, c.Farm.Center)
	require.Len(t, c.Zones, 1)
	assert.Equal(t, entities.NitrogenOK, c.Zones[0].Nitrogen)
	assert.Equal(t, "70%", c.Sensors[0].Value)
}

func TestLoadCatalogFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCatalogFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read catalog file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("zones: [::"), 0o600))
	_, err = LoadCatalogFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse catalog file")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("zones: []\n"), 0o600))
	_, err = LoadCatalogFile(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no zones")
}
