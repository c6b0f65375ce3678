package forecast

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
)

// Fixture is the JSON form of a forecast used by the preview tools.
//
//	{"start_hour": 6, "entries": [{"temperature": 12, "precipitation": 40}, ...]}
type Fixture struct {
	StartHour int      `json:"start_hour" validate:"min=0,max=23"`
	Entries   []Sample `json:"entries" validate:"min=2,max=255,dive"`
}

var validate = validator.New()

// Decode reads and validates a fixture.
func Decode(r io.Reader) (*Fixture, error) {
	var fx Fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("failed to decode forecast fixture: %w", err)
	}
	if err := validate.Struct(fx); err != nil {
		return nil, fmt.Errorf("invalid forecast fixture: %w", err)
	}
	return &fx, nil
}

// LoadFile reads a fixture from path.
func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open forecast fixture %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// LoadInto reads the fixture at path and replaces the store's forecast. The
// store is left untouched on error.
func LoadInto(s *Store, path string) (*Fixture, error) {
	fx, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	s.Set(fx.StartHour, fx.Entries)
	return fx, nil
}
