package language

import "github.com/vektah/gqlparser/v2/ast"

type (
	QueryDocument          = ast.QueryDocument
	SchemaDocument         = ast.SchemaDocument
	Schema                 = ast.Schema
	OperationDefinition    = ast.OperationDefinition
	SelectionSet           = ast.SelectionSet
	Selection              = ast.Selection
	Field                  = ast.Field
	InlineFragment         = ast.InlineFragment
	FragmentDefinition     = ast.FragmentDefinition
	FragmentDefinitionList = ast.FragmentDefinitionList
	FragmentSpread         = ast.FragmentSpread
	Directive              = ast.Directive
	DirectiveList          = ast.DirectiveList
	ArgumentList           = ast.ArgumentList
	Argument               = ast.Argument
	Value                  = ast.Value
	ChildValue             = ast.ChildValue
	FieldDefinition        = ast.FieldDefinition
	ArgumentDefinition     = ast.ArgumentDefinition
	EnumValueDefinition    = ast.EnumValueDefinition
	Type                   = ast.Type
	Definition             = ast.Definition
	DefinitionList         = ast.DefinitionList
	Position               = ast.Position
	Source                 = ast.Source
)

type DefinitionKind = ast.DefinitionKind

type Operation = ast.Operation

type ValueKind = ast.ValueKind

const (
	Query        Operation = ast.Query
	Mutation     Operation = ast.Mutation
	Subscription Operation = ast.Subscription

	Object      DefinitionKind = ast.Object
	Interface   DefinitionKind = ast.Interface
	Union       DefinitionKind = ast.Union
	Scalar      DefinitionKind = ast.Scalar
	Enum        DefinitionKind = ast.Enum
	InputObject DefinitionKind = ast.InputObject

	Variable     ValueKind = ast.Variable
	IntValue     ValueKind = ast.IntValue
	FloatValue   ValueKind = ast.FloatValue
	StringValue  ValueKind = ast.StringValue
	BlockValue   ValueKind = ast.BlockValue
	BooleanValue ValueKind = ast.BooleanValue
	NullValue    ValueKind = ast.NullValue
	EnumValue    ValueKind = ast.EnumValue
	ListValue    ValueKind = ast.ListValue
	ObjectValue  ValueKind = ast.ObjectValue
)

// NamedType builds an unwrapped reference to the named type.
func NamedType(name string) *Type { return ast.NamedType(name, nil) }

// IsCompositeType reports whether def is selectable (object, interface or union).
func IsCompositeType(def *Definition) bool {
	if def == nil {
		return false
	}
	switch def.Kind {
	case Object, Interface, Union:
		return true
	default:
		return false
	}
}

// IsAbstractType reports whether def is an interface or union type.
func IsAbstractType(def *Definition) bool {
	if def == nil {
		return false
	}
	return def.Kind == Interface || def.Kind == Union
}

// IsLeafType reports whether def is a scalar or enum type.
func IsLeafType(def *Definition) bool {
	if def == nil {
		return false
	}
	return def.Kind == Scalar || def.Kind == Enum
}

// RuntimeTypes returns the concrete object types possible at runtime for def:
// the type itself for objects, the possible types for interfaces and unions.
func RuntimeTypes(schema *Schema, def *Definition) map[string]bool {
	out := map[string]bool{}
	if def == nil {
		return out
	}
	if def.Kind == Object {
		out[def.Name] = true
		return out
	}
	for _, possible := range schema.PossibleTypes[def.Name] {
		if possible.Kind == Object {
			out[possible.Name] = true
		}
	}
	return out
}
