package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/tutorqa/sheets-sync/log"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/tutorqa/sheets-sync/config/schema.json"

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}

	return c.Compile(schemaURL)
})

// Load reads and validates a configuration file.
func Load(file string) (*Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration file %v (%w)", file, err)
	}

	config, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration file %v (%w)", file, err)
	}

	log.Debugf("loaded %v jobs from %v", len(config.Jobs), file)

	return config, nil
}

// Parse validates a JSON configuration against the configuration schema and decodes it.
func Parse(b []byte) (*Config, error) {
	schema, err := compiled()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration schema (%w)", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(doc); err != nil {
		return nil, err
	}

	config := Config{}
	if err := json.Unmarshal(b, &config); err != nil {
		return nil, err
	}

	names := map[string]bool{}
	for _, job := range config.Jobs {
		k := strings.ToLower(strings.TrimSpace(job.Name))
		if names[k] {
			return nil, fmt.Errorf("duplicate job name '%v'", job.Name)
		}

		names[k] = true
	}

	return &config, nil
}

// LoadEnv loads environment variables from a .env file. Variables that are already set are
// not overridden. A missing file is not an error unless required is set.
func LoadEnv(file string, required bool) error {
	if file == "" {
		return nil
	}

	if err := godotenv.Load(file); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("unable to load environment from %v (%w)", file, err)
	}

	log.Debugf("loaded environment from %v", file)

	return nil
}

var variable = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expand replaces ${NAME} references with the value of the environment variable. An unset
// variable is an error.
func expand(s string) (string, error) {
	var missing []string

	v := variable.ReplaceAllStringFunc(s, func(m string) string {
		name := variable.FindStringSubmatch(m)[1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}

		missing = append(missing, name)

		return ""
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("environment variable %v not set", strings.Join(missing, ", "))
	}

	return v, nil
}
