package interp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape shared by every format:
//
//	interpretations:
//	  Moon:
//	    Mars: "..."
type document struct {
	Interpretations map[string]map[string]string `yaml:"interpretations" toml:"interpretations" json:"interpretations"`
}

// schemaCUE constrains CUE tables to string leaves two levels deep.
const schemaCUE = `
#Table: {
	interpretations: [string]: [string]: string
}
`

// Load reads a table from path, choosing the decoder by extension:
// .yaml/.yml, .toml or .cue.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading interpretations: %w", err)
	}

	var doc document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".cue":
		if doc, err = decodeCUE(path, data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported interpretations format %q (want .yaml, .yml, .toml or .cue)", ext)
	}

	return FromMap(doc.Interpretations)
}

func decodeCUE(path string, data []byte) (document, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Table"))
	if err := schema.Err(); err != nil {
		return document{}, fmt.Errorf("compiling table schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return document{}, fmt.Errorf("building CUE value: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return document{}, fmt.Errorf("validating %s: %w", path, err)
	}

	var doc document
	tables := unified.LookupPath(cue.ParsePath("interpretations"))
	if !tables.Exists() {
		return doc, nil
	}
	if err := tables.Decode(&doc.Interpretations); err != nil {
		return document{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return doc, nil
}
