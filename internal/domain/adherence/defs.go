package adherence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMeasures is the compiled-in measure set: the medication-adherence
// triad tracked by the program, in report order.
func DefaultMeasures() []MeasureDef {
	return []MeasureDef{
		{Label: "Statin", Prefix: "statin"},
		{Label: "Diabetes", Prefix: "diabetes"},
		{Label: "Hypertension", Prefix: "hypertension"},
	}
}

type measureFile struct {
	Measures []MeasureDef `yaml:"measures"`
}

// LoadMeasureFile reads an ordered measure list from a YAML file. The file
// replaces the default set wholesale; order in the file is report order.
func LoadMeasureFile(path string) ([]MeasureDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read measures file: %w", err)
	}

	var mf measureFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("parse measures file %s: %w", path, err)
	}

	if err := ValidateDefs(mf.Measures); err != nil {
		return nil, fmt.Errorf("measures file %s: %w", path, err)
	}
	return mf.Measures, nil
}
