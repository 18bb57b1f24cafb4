package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadScenario reads one battle scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	var sc Scenario
	if err := loadYAML(path, &sc); err != nil {
		return nil, err
	}
	if sc.MaxTurns <= 0 {
		sc.MaxTurns = 100
	}
	return &sc, nil
}

// LoadSim reads batch simulation settings from a YAML file.
func LoadSim(path string) (*SimConfig, error) {
	var sim SimConfig
	if err := loadYAML(path, &sim); err != nil {
		return nil, err
	}
	if sim.Runs <= 0 {
		sim.Runs = 1
	}
	if sim.Workers <= 0 {
		sim.Workers = 8
	}
	if sim.MaxTurns <= 0 {
		sim.MaxTurns = 100
	}
	return &sim, nil
}
