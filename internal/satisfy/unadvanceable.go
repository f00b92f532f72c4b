package satisfy

import "fmt"

// ReasonKind classifies why a candidate subgraph path failed to extend.
type ReasonKind int

const (
	// ReasonNoField: the subgraph has no resolvable field of that name.
	ReasonNoField ReasonKind = iota
	// ReasonExternalField: the field exists but is declared @external and
	// not provided along the walk.
	ReasonExternalField
	// ReasonNoType: the subgraph does not define the downcast target type.
	ReasonNoType
	// ReasonNoDowncast: the type exists but the runtime narrowing is not
	// possible in the subgraph.
	ReasonNoDowncast
	// ReasonUnsatisfiedRequires: the field's @requires selection cannot be
	// resolved from the walk so far.
	ReasonUnsatisfiedRequires
	// ReasonNoUsableKey: another subgraph resolves the field but cannot be
	// entered because the entity has no satisfiable key there.
	ReasonNoUsableKey
)

// Unadvanceable records why one candidate path in one subgraph could not
// match a supergraph edge. Immutable after creation; rendering dedups.
type Unadvanceable struct {
	Subgraph string
	Kind     ReasonKind
	Details  string
}

type Unadvanceables []Unadvanceable

// Reason constructors. The detail strings are part of the user-facing
// message contract; keep them stable.

func reasonNoField(subgraph, typeName, fieldName string) Unadvanceable {
	return Unadvanceable{
		Subgraph: subgraph,
		Kind:     ReasonNoField,
		Details:  fmt.Sprintf("cannot find field %q", typeName+"."+fieldName),
	}
}

func reasonExternalField(subgraph, typeName, fieldName string) Unadvanceable {
	return Unadvanceable{
		Subgraph: subgraph,
		Kind:     ReasonExternalField,
		Details:  fmt.Sprintf("field %q is not resolvable because marked @external", typeName+"."+fieldName),
	}
}

func reasonNoType(subgraph, typeName string) Unadvanceable {
	return Unadvanceable{
		Subgraph: subgraph,
		Kind:     ReasonNoType,
		Details:  fmt.Sprintf("cannot find type %q", typeName),
	}
}

func reasonNoDowncast(subgraph, fromType, toType string) Unadvanceable {
	return Unadvanceable{
		Subgraph: subgraph,
		Kind:     ReasonNoDowncast,
		Details:  fmt.Sprintf("cannot rebase type %q onto runtime type %q", fromType, toType),
	}
}

func reasonUnsatisfiedRequires(subgraph, typeName, fieldName, why string) Unadvanceable {
	details := fmt.Sprintf("cannot satisfy @requires conditions on field %q", typeName+"."+fieldName)
	if why != "" {
		details += " (" + why + ")"
	}
	return Unadvanceable{
		Subgraph: subgraph,
		Kind:     ReasonUnsatisfiedRequires,
		Details:  details,
	}
}

func reasonNoUsableKey(fromSubgraph, toSubgraph, typeName, fieldName string) Unadvanceable {
	return Unadvanceable{
		Subgraph: fromSubgraph,
		Kind:     ReasonNoUsableKey,
		Details: fmt.Sprintf(
			"cannot move to subgraph %q, which has field %q, because type %q has no usable key in subgraph %q",
			toSubgraph, typeName+"."+fieldName, typeName, toSubgraph,
		),
	}
}
