// Copyright 2025 parallelproj Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scenario describes one of the three demonstration runs spec §8
// names (point source, TOF profile, adjointness), read from a YAML
// file the way xray_projection_render reads its lattice object file.
type Scenario struct {
	Kind string `yaml:"kind"` // "point-source", "tof-profile", or "adjoint"

	Dims    [3]int     `yaml:"dims"`
	VoxSize [3]float32 `yaml:"voxsize"`

	// TOF fields, used when Kind == "tof-profile".
	TOFBinWidth float32 `yaml:"tofbin_width"`
	NTOFBins    int     `yaml:"n_tofbins"`
	FWHM        float32 `yaml:"fwhm"`
	NSigmas     float32 `yaml:"n_sigmas"`

	// Adjoint-scenario fields, used when Kind == "adjoint".
	NumLORs int `yaml:"num_lors"`
	Seed    int `yaml:"seed"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, errors.Wrap(err, "reading scenario file")
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, errors.Wrap(err, "parsing scenario yaml")
	}

	switch s.Kind {
	case "point-source", "tof-profile", "adjoint":
	default:
		return Scenario{}, errors.Errorf("unknown scenario kind %q", s.Kind)
	}
	for a := 0; a < 3; a++ {
		if s.Dims[a] < 2 {
			return Scenario{}, errors.Errorf("dims[%d] must be >= 2, got %d", a, s.Dims[a])
		}
		if s.VoxSize[a] <= 0 {
			return Scenario{}, errors.Errorf("voxsize[%d] must be > 0, got %v", a, s.VoxSize[a])
		}
	}
	return s, nil
}
