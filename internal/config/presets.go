package config

import "sort"

var Presets = map[string]*Config{
	"chain": {
		Sites: 100, Onsite: 0.5, Hopping: 1.0,
		Time: TimeConfig{Start: 0, Stop: 25, Points: 200},
		Workers: 1, ValidateState: true,
	},
	"long": {
		Sites: 400, Onsite: 0.5, Hopping: 1.0,
		Time: TimeConfig{Start: 0, Stop: 50, Points: 1000},
		Workers: 4, BenchWorkers: []int{1, 2, 4, 8, 16},
		ValidateState: true,
	},
	"dimer": {
		Sites: 2, Onsite: 0.0, Hopping: 1.0,
		Time: TimeConfig{Start: 0, Stop: 10, Points: 500},
		Workers: 1, BenchWorkers: []int{1, 2},
		ValidateState: true,
	},
	"single": {
		Sites: 1, Onsite: 0.5, Hopping: 0.0,
		Time: TimeConfig{Start: 0, Stop: 10, Points: 100},
		Workers: 1, BenchWorkers: []int{1},
		ValidateState: true,
	},
}

// GetPreset returns a copy of the named preset, or nil if there is none.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.OnsiteValues = append([]float64(nil), p.OnsiteValues...)
	cfg.HoppingValues = append([]float64(nil), p.HoppingValues...)
	cfg.BenchWorkers = append([]int(nil), p.BenchWorkers...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
