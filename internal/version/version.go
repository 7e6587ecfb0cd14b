package version

import (
	"encoding/json"
	"log"
	"os"
)

type Info struct {
	Version string `json:"version"`
}

// Load reads version.json from the working directory; a missing or broken
// file falls back to 0.0.0 rather than aborting startup.
func Load() Info {
	data, err := os.ReadFile("version.json")
	if err != nil {
		log.Printf("version: could not read version.json: %v", err)
		return Info{Version: "0.0.0"}
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		log.Printf("version: could not parse version.json: %v", err)
		return Info{Version: "0.0.0"}
	}
	return info
}
