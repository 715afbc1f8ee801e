package tool

import (
	"fmt"
	"reflect"

	"github.com/casualjim/genwire/pkg/reflectx"
	"github.com/casualjim/genwire/pkg/stdx"
	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Definition declares a function the model may call.
//
// The parameter schema comes from Schema when set. Otherwise it is derived
// from the signature of Function, one property per argument, named after
// Parameters ("param0" -> "city") or positionally.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]string
	Function    any
	Schema      *jsonschema.Schema
}

var functionReflector = jsonschema.Reflector{
	AllowAdditionalProperties: true,
	DoNotReference:            true,
}

// ToNameAndSchema returns the declared name and the JSON schema of the
// function parameters.
func (td Definition) ToNameAndSchema() (string, *jsonschema.Schema) {
	if td.Schema != nil {
		return td.Name, td.Schema
	}
	return functionSchema(&functionReflector, td)
}

func functionSchema(reflector *jsonschema.Reflector, f Definition) (string, *jsonschema.Schema) {
	name := f.Name
	if name == "" {
		name = reflectx.FunctionName(f.Function)
	}

	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}
	if !reflectx.IsFunction(f.Function) {
		return name, schema
	}

	typ := reflect.TypeOf(f.Function)
	var required []string
	for i := range typ.NumIn() {
		paramName := fmt.Sprintf("param%d", i)
		if p, ok := f.Parameters[paramName]; ok {
			paramName = p
		}

		propSchema := reflector.ReflectFromType(typ.In(i))
		propSchema.Version = ""
		schema.Properties.Set(paramName, propSchema)
		required = append(required, paramName)
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return name, schema
}

// Option configures a Definition.
type Option = opts.Option[Definition]

// Must is New that panics on error.
func Must(f any, options ...Option) Definition {
	return stdx.Must1(New(f, options...))
}

// New creates a Definition whose parameters follow the signature of f.
// The name defaults to the name of the function.
func New(f any, options ...Option) (Definition, error) {
	if !reflectx.IsFunction(f) {
		return Definition{}, fmt.Errorf("provided value is not a function")
	}

	var def Definition
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	if def.Name == "" {
		def.Name = reflectx.FunctionName(f)
	}

	def.Function = f
	return def, nil
}

// Declare creates a Definition whose parameter schema is reflected from the
// struct type T, so json tags and jsonschema tags drive the declaration.
func Declare[T any](name string, options ...Option) (Definition, error) {
	def := Definition{Name: name}
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}

	var zero T
	schema := functionReflector.Reflect(&zero)
	schema.Version = ""
	schema.ID = ""
	def.Schema = schema
	return def, nil
}

// Name sets the declared function name.
var Name = opts.ForName[Definition, string]("Name")

// Description sets the description shown to the model.
var Description = opts.ForName[Definition, string]("Description")

// Parameters names the arguments of a Function-derived schema, in order.
func Parameters(parameters ...string) opts.Option[Definition] {
	return opts.Type[Definition](func(o *Definition) error {
		o.Parameters = make(map[string]string, len(parameters))
		for i, p := range parameters {
			o.Parameters[fmt.Sprintf("param%d", i)] = p
		}
		return nil
	})
}
