package reference

import (
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// Conformance renders the constraints under which a relationship holds, such
// as "Element conforms to Equatable and Index is Int." It returns nil when
// there are no constraints.
func Conformance(constraints []semantic.Constraint) *render.Conformance {
	if len(constraints) == 0 {
		return nil
	}
	var inline []render.Inline
	for i, c := range constraints {
		switch {
		case i == 0:
		case i == len(constraints)-1 && len(constraints) == 2:
			inline = append(inline, render.Text(" and "))
		case i == len(constraints)-1:
			inline = append(inline, render.Text(", and "))
		default:
			inline = append(inline, render.Text(", "))
		}
		inline = append(inline, render.Code(c.LHS), render.Text(relation(c.Kind)), render.Code(c.RHS))
	}
	inline = append(inline, render.Text("."))
	return &render.Conformance{
		AvailabilityPrefix: []render.Inline{render.Text("Available when")},
		ConformancePrefix:  []render.Inline{render.Text("Conforms when")},
		Constraints:        inline,
	}
}

func relation(k semantic.ConstraintKind) string {
	switch k {
	case semantic.SuperclassConstraint:
		return " inherits "
	case semantic.SameTypeConstraint:
		return " is "
	}
	return " conforms to "
}
