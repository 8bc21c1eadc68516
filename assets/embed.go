package assets

import (
	"embed"
	"io/fs"
)

//go:embed dictionary.json
var FS embed.FS

// DefaultDictionary opens the embedded word → definition JSON object.
func DefaultDictionary() (fs.File, error) {
	return FS.Open("dictionary.json")
}
