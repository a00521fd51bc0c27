package task

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mfasDa/raadev/cut"
	"github.com/mfasDa/raadev/event"
)

type Config struct {
	Name      string `yaml:"name"`
	Container string `yaml:"container"`

	// CollisionCandidates lists the physics selections accepted by the
	// task, e.g. [INT7, EMC7].
	CollisionCandidates []string `yaml:"collision_candidates"`

	VertexZ cut.Range[float64] `yaml:"vertex_z"`
	Eta     cut.Range[float64] `yaml:"eta"`

	Pileup    PileupConfig    `yaml:"pileup"`
	TrackCuts TrackCutsConfig `yaml:"track_cuts"`
	Binning   BinningConfig   `yaml:"binning"`
}

type PileupConfig struct {
	// MaxVertexDz is the largest accepted distance in z between the track
	// and the SPD vertex.
	MaxVertexDz float64 `yaml:"max_vertex_dz"`
	// MaxSPDZResolution is the largest accepted z resolution of an SPD
	// vertex found by the z-only vertexer.
	MaxSPDZResolution float64 `yaml:"max_spd_z_resolution"`
}

type TrackCutsConfig struct {
	Enabled              bool    `yaml:"enabled"`
	MinCrossedRowsTPC    int     `yaml:"min_crossed_rows_tpc"`
	MaxChi2PerClusterTPC float64 `yaml:"max_chi2_per_cluster_tpc"`
	RequireTPCRefit      bool    `yaml:"require_tpc_refit"`
	RequireITSRefit      bool    `yaml:"require_its_refit"`
	RequireSPDHit        bool    `yaml:"require_spd_hit"`
	MaxDCAz              float64 `yaml:"max_dca_z"`
	MaxDCAxy             PtDep   `yaml:"max_dca_xy"`
}

// PtDep is a pt dependent limit p0 + p1/pt^exp.
type PtDep struct {
	P0  float64 `yaml:"p0"`
	P1  float64 `yaml:"p1"`
	Exp float64 `yaml:"exp"`
}

type BinningConfig struct {
	Pt      []float64 `yaml:"pt"`
	ZVertex []float64 `yaml:"zvertex"`
}

func DefaultConfig() Config {
	return Config{
		Name:                "ptemcaltriggertask",
		Container:           "PtEMCalTriggerHistograms",
		CollisionCandidates: []string{"INT7", "EMC7"},
		VertexZ:             cut.NewRange(-10.0, 10.0),
		Eta:                 cut.NewRange(-0.8, 0.8),
		Pileup: PileupConfig{
			MaxVertexDz:       0.5,
			MaxSPDZResolution: 0.25,
		},
		TrackCuts: TrackCutsConfig{
			Enabled:              true,
			MinCrossedRowsTPC:    120,
			MaxChi2PerClusterTPC: 4,
			RequireTPCRefit:      true,
			RequireITSRefit:      true,
			RequireSPDHit:        true,
			MaxDCAz:              2,
			MaxDCAxy:             PtDep{P0: 0.0182, P1: 0.0350, Exp: 1.01},
		},
	}
}

// LoadConfig reads a YAML configuration on top of the defaults.
func LoadConfig(fname string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(fname)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read task configuration")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "could not decode task configuration %q", fname)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid task configuration %q", fname)
	}
	return cfg, nil
}

// SelectionMask returns the physics selection bits of CollisionCandidates.
func (cfg Config) SelectionMask() (uint32, error) {
	var mask uint32
	for _, name := range cfg.CollisionCandidates {
		bit, ok := event.SelectionBit(name)
		if !ok {
			return 0, errors.Errorf("unknown collision candidate %q", name)
		}
		mask |= bit
	}
	return mask, nil
}

func (cfg Config) Validate() error {
	if cfg.Name == "" {
		return errors.New("task name is empty")
	}
	if cfg.Container == "" {
		return errors.New("container name is empty")
	}
	if _, err := cfg.SelectionMask(); err != nil {
		return err
	}
	if cfg.Pileup.MaxVertexDz <= 0 || cfg.Pileup.MaxSPDZResolution <= 0 {
		return errors.New("pileup limits must be positive")
	}
	for name, edges := range map[string][]float64{"pt": cfg.Binning.Pt, "zvertex": cfg.Binning.ZVertex} {
		if edges == nil {
			continue
		}
		if err := ascending(edges); err != nil {
			return errors.Wrapf(err, "%s binning", name)
		}
	}
	return nil
}

func ascending(edges []float64) error {
	if len(edges) < 2 {
		return errors.Errorf("need at least two bin edges, got %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i-1] < edges[i]) {
			return errors.Errorf("bin edges not ascending at index %d", i)
		}
	}
	return nil
}
