package config

// Scenario describes one battle setup: layout, placements, RNG seed and
// environmental damage modifiers.
type Scenario struct {
	Name          string          `yaml:"name"`
	LayoutID      int             `yaml:"layout_id"`
	EncounterID   int             `yaml:"encounter_id"`
	Seed          int64           `yaml:"seed"`
	Deterministic bool            `yaml:"deterministic"`
	MaxTurns      int             `yaml:"max_turns"`
	Player        []UnitPlacement `yaml:"player"`
	Enemy         []UnitPlacement `yaml:"enemy"`

	// EnvMods maps damage type id to a whole-hit multiplier, e.g.
	// terrain that amplifies fire damage.
	EnvMods map[int]float64 `yaml:"env_mods"`
}

type UnitPlacement struct {
	UnitID int `yaml:"unit_id"`
	GridID int `yaml:"grid_id"`
	Rank   int `yaml:"rank"`
}

// SimConfig drives the batch runner in cmd/simsvc.
type SimConfig struct {
	Runs     int `yaml:"runs"`
	Workers  int `yaml:"workers"`
	MaxTurns int `yaml:"max_turns"`
}
