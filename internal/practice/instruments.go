package practice

// instrumentLabels maps the free-text instrument keys used by the log form
// to display names.
var instrumentLabels = map[string]string{
	"piano":      "Piano",
	"guitar":     "Guitar",
	"bass":       "Bass Guitar",
	"violin":     "Violin",
	"viola":      "Viola",
	"cello":      "Cello",
	"flute":      "Flute",
	"clarinet":   "Clarinet",
	"saxophone":  "Saxophone",
	"trumpet":    "Trumpet",
	"trombone":   "Trombone",
	"drums":      "Drums",
	"percussion": "Percussion",
	"voice":      "Voice",
	"ukulele":    "Ukulele",
	"harp":       "Harp",
	"organ":      "Organ",
}

// UnlistedLabel is rendered when an instrument key or piece reference has
// no display value.
const UnlistedLabel = "Unlisted"

// InstrumentLabel returns the display name for an instrument key,
// UnlistedLabel when the key is unknown.
func InstrumentLabel(key string) string {
	if label, ok := instrumentLabels[key]; ok {
		return label
	}
	return UnlistedLabel
}
