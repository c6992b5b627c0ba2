package todo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaSource string

const schemaURL = "tasks.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the JSON Schema describing a list snapshot.
func Schema() string {
	return schemaSource
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location, e.g. tasks[2].id
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SkipSchema disables JSON Schema validation and runs only the
	// structural checks.
	SkipSchema bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Validate checks a snapshot. The schema covers field shapes; the
// structural pass covers what the schema cannot express, such as ids
// being unique across tasks.
func (l *List) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if !opts.SkipSchema {
		l.validateWithSchema(result)
	}
	l.validateStructure(result)

	return result
}

func (l *List) validateStructure(result *ValidationResult) {
	seen := make(map[string]int, l.Len())
	for i, task := range l.Tasks() {
		path := fmt.Sprintf("tasks[%d]", i)
		if task.IsZero() {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("missing required field"),
			})
			continue
		}
		if first, ok := seen[task.ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %q, first used at tasks[%d]", task.ID, first),
			})
			continue
		}
		seen[task.ID] = i
	}
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

func (l *List) validateWithSchema(result *ValidationResult) {
	sch, err := compiledSchema()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema: %v", err))
		return
	}
	result.UsedSchema = true

	data, err := json.Marshal(l)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to marshal list for validation: %w", err),
		})
		return
	}

	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to unmarshal list for validation: %w", err),
		})
		return
	}

	if err := sch.Validate(obj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: instancePath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// instancePath turns a JSON Pointer such as "/tasks/2/id" into the dotted
// form used in ValidationError.Path ("tasks[2].id").
func instancePath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		if part == "" {
			continue
		}
		part = strings.NewReplacer("~1", "/", "~0", "~").Replace(part)
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
