package formatting

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// Format converts data to YAML. Keys come out sorted.
func (f *YAMLFormatter) Format(w io.Writer, data json.RawMessage) error {
	out, err := yaml.JSONToYAML(data)
	if err != nil {
		return fmt.Errorf("failed to format YAML: %w", err)
	}

	_, err = w.Write(out)
	return err
}
