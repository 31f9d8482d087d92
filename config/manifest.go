package config

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"gopkg.in/yaml.v3"
)

// manifest is the YAML shape DumpManifest writes: enough to
// reproduce a run byte-for-byte (seed, timing, population, generator
// and report wiring) without the original scenario file in hand.
type manifest struct {
	RunID          string  `yaml:"runId"`
	Name           string  `yaml:"name"`
	UpdateInterval float64 `yaml:"updateInterval"`
	EndTime        float64 `yaml:"endTime"`
	RNGSeed        uint64  `yaml:"rngSeed"`
	WorldWidth     float64 `yaml:"worldWidth"`
	WorldHeight    float64 `yaml:"worldHeight"`

	Group     GroupConfig     `yaml:"group"`
	Interface InterfaceConfig `yaml:"interface"`
	Events    EventsConfig    `yaml:"events"`
	Report    ReportConfig    `yaml:"report"`
}

// DumpManifest writes s to path as a YAML reproducibility sidecar,
// alongside whatever reports a run produces.
func DumpManifest(s *Scenario, path string) error {
	m := manifest{
		RunID:          xid.New().String(),
		Name:           s.Name,
		UpdateInterval: s.UpdateInterval,
		EndTime:        s.EndTime,
		RNGSeed:        s.RNGSeed,
		WorldWidth:     s.WorldWidth,
		WorldHeight:    s.WorldHeight,
		Group:          s.Group,
		Interface:      s.Interface,
		Events:         s.Events,
		Report:         s.Report,
	}

	out, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("config: marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("config: write manifest %s: %w", path, err)
	}

	return nil
}
