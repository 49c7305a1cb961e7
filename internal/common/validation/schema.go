package validation

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	apperrors "labportal/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names for the payloads sent to the backend.
const (
	SchemaCreateForm        = "create-form"
	SchemaSubmitApplication = "submit-application"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*gojsonschema.Schema{}
)

func compiled(name string) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if s, ok := schemaCache[name]; ok {
		return s, nil
	}
	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	schemaCache[name] = s
	return s, nil
}

// ValidatePayload checks a payload (any JSON-marshalable value) against the
// named embedded schema and returns a SCHEMA_VIOLATION error listing every
// failed constraint.
func ValidatePayload(name string, payload interface{}) error {
	schema, err := compiled(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return apperrors.NewSchemaViolationError(strings.Join(errs, "; ")).
		WithMetadata("schema", name)
}
