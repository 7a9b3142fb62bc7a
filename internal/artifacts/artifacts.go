// Package artifacts writes the intermediate outputs of a run to disk as
// JSON. Each stage leaves both a fixed-name file, overwritten every run for
// easy inspection, and a timestamped backup so earlier runs stay
// reconstructable. Artifact writes never fail the run.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const backupTimestampFormat = "20060102_150405"

// Save writes value to <dir>/<name>.json and a timestamped copy next to
// it. Failures are logged and swallowed; losing an artifact is not worth
// losing the run.
func Save(dir, name string, value interface{}) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		log.Warn().Err(err).Str("artifact", name).Msg("Could not marshal artifact")
		return
	}
	SaveRaw(dir, name, data)
}

// SaveRaw writes pre-serialized JSON, used for responses captured off the
// wire that should be stored byte for byte.
func SaveRaw(dir, name string, data []byte) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("Could not create artifact directory")
			return
		}
	}

	write(filepath.Join(dir, name+".json"), data)
	backup := fmt.Sprintf("%s_%s.json", name, time.Now().Format(backupTimestampFormat))
	write(filepath.Join(dir, backup), data)
}

func write(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Could not write artifact")
		return
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("Wrote artifact")
}
