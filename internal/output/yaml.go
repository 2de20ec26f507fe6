package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

// Write outputs the data as YAML
func (f *YAMLFormatter) Write(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(exportable(data)); err != nil {
		return err
	}
	return encoder.Close()
}
