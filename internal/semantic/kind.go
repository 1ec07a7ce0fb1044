package semantic

// SymbolKind is a language-neutral symbol kind identifier such as "func" or
// "struct".
type SymbolKind string

const (
	KindModule         SymbolKind = "module"
	KindClass          SymbolKind = "class"
	KindStruct         SymbolKind = "struct"
	KindEnum           SymbolKind = "enum"
	KindEnumCase       SymbolKind = "enum.case"
	KindProtocol       SymbolKind = "protocol"
	KindAssociatedType SymbolKind = "associatedtype"
	KindTypeAlias      SymbolKind = "typealias"
	KindInit           SymbolKind = "init"
	KindDeinit         SymbolKind = "deinit"
	KindMethod         SymbolKind = "method"
	KindTypeMethod     SymbolKind = "type.method"
	KindProperty       SymbolKind = "property"
	KindTypeProperty   SymbolKind = "type.property"
	KindSubscript      SymbolKind = "subscript"
	KindTypeSubscript  SymbolKind = "type.subscript"
	KindFunc           SymbolKind = "func"
	KindOperator       SymbolKind = "op"
	KindVar            SymbolKind = "var"
	KindMacro          SymbolKind = "macro"
	KindExtension      SymbolKind = "extension"
	KindDictionary     SymbolKind = "dictionary"
	KindDictionaryKey  SymbolKind = "dictionaryKey"
	KindHTTPRequest    SymbolKind = "httpRequest"
	KindUnknown        SymbolKind = "unknown"
)

type kindInfo struct {
	name   string
	plural string
}

var kindNames = map[SymbolKind]kindInfo{
	KindModule:         {"Framework", "Frameworks"},
	KindClass:          {"Class", "Classes"},
	KindStruct:         {"Structure", "Structures"},
	KindEnum:           {"Enumeration", "Enumerations"},
	KindEnumCase:       {"Case", "Enumeration Cases"},
	KindProtocol:       {"Protocol", "Protocols"},
	KindAssociatedType: {"Associated Type", "Associated Types"},
	KindTypeAlias:      {"Type Alias", "Type Aliases"},
	KindInit:           {"Initializer", "Initializers"},
	KindDeinit:         {"Deinitializer", "Deinitializers"},
	KindMethod:         {"Instance Method", "Instance Methods"},
	KindTypeMethod:     {"Type Method", "Type Methods"},
	KindProperty:       {"Instance Property", "Instance Properties"},
	KindTypeProperty:   {"Type Property", "Type Properties"},
	KindSubscript:      {"Instance Subscript", "Subscripts"},
	KindTypeSubscript:  {"Type Subscript", "Type Subscripts"},
	KindFunc:           {"Function", "Functions"},
	KindOperator:       {"Operator", "Operators"},
	KindVar:            {"Global Variable", "Variables"},
	KindMacro:          {"Macro", "Macros"},
	KindExtension:      {"Extension", "Extensions"},
	KindDictionary:     {"Object", "Objects"},
	KindDictionaryKey:  {"Property", "Properties"},
	KindHTTPRequest:    {"Web Service Endpoint", "Endpoints"},
}

// DisplayName is the singular heading shown above a symbol's title.
func (k SymbolKind) DisplayName() string {
	if info, ok := kindNames[k]; ok {
		return info.name
	}
	return "Symbol"
}

// GroupTitle is the plural title used for automatically curated groups.
func (k SymbolKind) GroupTitle() string {
	if info, ok := kindNames[k]; ok {
		return info.plural
	}
	return "Symbols"
}

// IsModule reports whether k is a module.
func (k SymbolKind) IsModule() bool { return k == KindModule }
