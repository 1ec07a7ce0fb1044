package render

import (
	"strings"

	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

// PatchOperation is one JSON-patch operation applied for a trait.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// VariantOverride is the set of patches that turn the default page into the
// page for Traits.
type VariantOverride struct {
	Traits []variant.Trait  `json:"traits"`
	Patch  []PatchOperation `json:"patch"`
}

type overrides struct {
	order   []variant.Trait
	byTrait map[variant.Trait][]PatchOperation
}

func addOverrides[T any](o *overrides, path string, c variant.Collection[T]) {
	for _, ov := range c.Overrides() {
		if o.byTrait == nil {
			o.byTrait = make(map[variant.Trait][]PatchOperation)
		}
		if _, ok := o.byTrait[ov.Trait]; !ok {
			o.order = append(o.order, ov.Trait)
		}
		o.byTrait[ov.Trait] = append(o.byTrait[ov.Trait], PatchOperation{Op: "replace", Path: path, Value: ov.Value})
	}
}

func (o *overrides) list() []VariantOverride {
	if len(o.order) == 0 {
		return nil
	}
	out := make([]VariantOverride, 0, len(o.order))
	for _, t := range o.order {
		out = append(out, VariantOverride{Traits: []variant.Trait{t}, Patch: o.byTrait[t]})
	}
	return out
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// PointerEscape escapes one JSON-pointer path component.
func PointerEscape(s string) string {
	return pointerEscaper.Replace(s)
}
