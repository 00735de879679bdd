package cgconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// EventTypeDecl is one user-declared derived event type, as written in
// "events.toml". Real types are discovered from dump files themselves and
// never need a declaration here.
type EventTypeDecl struct {
	ShortName string `toml:"short_name"`
	LongName  string `toml:"long_name"`
	Formula   string `toml:"formula"`
}

type eventsFile struct {
	Derived []EventTypeDecl `toml:"derived"`
}

// LoadEventTypes reads "<projectRoot>/events.toml" if present and returns
// its derived-type declarations. A missing file returns (nil, nil).
func LoadEventTypes(projectRoot string) ([]EventTypeDecl, error) {
	path := filepath.Join(projectRoot, "events.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading events.toml: %w", err)
	}
	var ef eventsFile
	if err := toml.Unmarshal(data, &ef); err != nil {
		return nil, fmt.Errorf("parsing events.toml: %w", err)
	}
	return ef.Derived, nil
}
