package config

import (
	"betting_e2e/domain/entities"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed environments.yaml
var defaultEnvironments []byte

// Environments maps upper case environment names to their settings
type Environments map[string]entities.Environment

// LoadEnvironments - reads environments from path, the embedded set is used when path is empty
func LoadEnvironments(path string) (Environments, error) {
	data := defaultEnvironments
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read environments file: %w", err)
		}
	}
	return ParseEnvironments(data)
}

// ParseEnvironments - decodes environments YAML document
func ParseEnvironments(data []byte) (Environments, error) {
	var raw map[string]entities.Environment
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse environments: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no environments defined")
	}

	res := make(Environments, len(raw))
	for name, env := range raw {
		name = strings.ToUpper(name)
		env.Name = name
		if env.BaseURL == "" {
			return nil, fmt.Errorf("environment %s: base_url is required", name)
		}
		for game, limits := range env.Games {
			if limits.MinBet <= 0 || limits.MaxBet < limits.MinBet {
				return nil, fmt.Errorf("environment %s: invalid %s bet limits %v-%v", name, game, limits.MinBet, limits.MaxBet)
			}
		}
		res[name] = env
	}
	return res, nil
}

// Get - returns the named environment, matching case-insensitively
func (e Environments) Get(name string) (entities.Environment, error) {
	env, ok := e[strings.ToUpper(name)]
	if !ok {
		return entities.Environment{}, fmt.Errorf("unknown environment %q, known: %s", name, strings.Join(e.Names(), ", "))
	}
	return env, nil
}

// Names - returns sorted environment names
func (e Environments) Names() []string {
	res := make([]string, 0, len(e))
	for name := range e {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}
