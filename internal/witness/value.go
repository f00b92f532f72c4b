package witness

import (
	"fmt"

	language "github.com/wiregraph/wiregraph/internal/language"
)

// requiredArguments synthesizes literal values for a field's required
// arguments. Optional arguments are skipped for brevity.
func requiredArguments(schema *language.Schema, field *language.FieldDefinition) (language.ArgumentList, error) {
	var args language.ArgumentList
	for _, def := range field.Arguments {
		if !def.Type.NonNull || def.DefaultValue != nil {
			continue
		}
		value, err := GenerateValue(schema, def.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %q of field %q: %w", def.Name, field.Name, err)
		}
		args = append(args, &language.Argument{Name: def.Name, Value: value})
	}
	return args, nil
}

// GenerateValue produces a non-null example literal for the given type,
// regardless of its nullability: scalars get fixed stand-ins, enums their
// first declared value, input objects an object of only their required
// fields, and lists of any wrapping an empty list.
func GenerateValue(schema *language.Schema, t *language.Type) (*language.Value, error) {
	if t.Elem != nil {
		return &language.Value{Kind: language.ListValue}, nil
	}

	switch t.NamedType {
	case "Int":
		return &language.Value{Kind: language.IntValue, Raw: "0"}, nil
	case "Float":
		return &language.Value{Kind: language.FloatValue, Raw: "3.14"}, nil
	case "Boolean":
		return &language.Value{Kind: language.BooleanValue, Raw: "true"}, nil
	case "String":
		return &language.Value{Kind: language.StringValue, Raw: "A string value"}, nil
	case "ID":
		return &language.Value{Kind: language.StringValue, Raw: "<any id>"}, nil
	}

	def := schema.Types[t.NamedType]
	if def == nil {
		return nil, fmt.Errorf("unknown type %q", t.NamedType)
	}
	switch def.Kind {
	case language.Scalar:
		return &language.Value{Kind: language.StringValue, Raw: "<some value>"}, nil
	case language.Enum:
		if len(def.EnumValues) == 0 {
			return nil, fmt.Errorf("enum %q has no values", def.Name)
		}
		return &language.Value{Kind: language.EnumValue, Raw: def.EnumValues[0].Name}, nil
	case language.InputObject:
		value := &language.Value{Kind: language.ObjectValue}
		for _, f := range def.Fields {
			if !f.Type.NonNull || f.DefaultValue != nil {
				continue
			}
			inner, err := GenerateValue(schema, f.Type)
			if err != nil {
				return nil, fmt.Errorf("input field %q of %q: %w", f.Name, def.Name, err)
			}
			value.Children = append(value.Children, &language.ChildValue{Name: f.Name, Value: inner})
		}
		return value, nil
	default:
		return nil, fmt.Errorf("cannot synthesize a value for %s type %q", def.Kind, def.Name)
	}
}
