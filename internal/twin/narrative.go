package twin

// Narratives shown under the selected zone's title.
const (
	NarrativePest     = "Elevated pest probability from humidity trend + spectral shift."
	NarrativeNitrogen = "Nitrogen deficiency suspected from NDRE decline."
	NarrativeStable   = "Stable conditions with improving canopy vigor."
)

// narratives maps a zone identifier to its panel text. Zones not listed get
// NarrativeStable.
var narratives = map[string]string{
	"Zone 3": NarrativePest,
	"Zone 1": NarrativeNitrogen,
}

// NarrativeFor returns the panel text for a zone id.
func NarrativeFor(zoneID string) string {
	if n, ok := narratives[zoneID]; ok {
		return n
	}
	return NarrativeStable
}
