package options

import (
	_ "embed"
	"encoding/json"
	"sync"
)

//go:embed presets.json
var builtinDB []byte

// presetDef is one entry of the embedded preset database: a named bundle
// of lexer defaults plus the extensions that auto-select it.
type presetDef struct {
	Identifier     [2]string  `json:"identifier"`
	Extensions     []string   `json:"extensions"`
	Strings        []string   `json:"strings"`
	SingleComments []string   `json:"single_comments"`
	MultiComments  [][2]string `json:"multi_comments"`
}

var (
	parseDBOnce sync.Once
	parsedDB    map[string]presetDef
	extIndex    map[string]string
)

func parseDB() {
	parseDBOnce.Do(func() {
		parsedDB = make(map[string]presetDef)
		if err := json.Unmarshal(builtinDB, &parsedDB); err != nil {
			panic("internal error: built-in preset database is malformed: " + err.Error())
		}
		extIndex = make(map[string]string)
		for name, def := range parsedDB {
			for _, ext := range def.Extensions {
				extIndex[ext] = name
			}
		}
	})
}

func presetDB() map[string]presetDef {
	parseDB()
	return parsedDB
}

func extensionIndex() map[string]string {
	parseDB()
	return extIndex
}

func lookupPreset(name string) (presetDef, bool) {
	if name == "" {
		name = "plain"
	}
	def, ok := presetDB()[name]
	return def, ok
}
