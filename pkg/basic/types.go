package basic

// ValueType is the closed set of value types a variable or expression node
// can take. Every expression node resolves to exactly one of these during
// inference; there is no "unknown" survivor past code generation.
type ValueType int

const (
	TypeNone ValueType = iota
	TypeInteger
	TypeReal
	TypeString
)

func (t ValueType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeString:
		return "string"
	}
	return "none"
}

// Width reports the data-area reservation for a scalar of this type:
// dw for integers, 5 bytes for reals, a 256-byte buffer for strings, which
// are NUL-terminated and carry no length byte.
func (t ValueType) Width() int {
	switch t {
	case TypeInteger:
		return 2
	case TypeReal:
		return 5
	case TypeString:
		return 256
	}
	return 0
}

// suffixType maps a declaration suffix to its type. Identifiers without a
// suffix default to real, matching Locomotive BASIC.
func suffixType(name string) ValueType {
	if name == "" {
		return TypeReal
	}
	switch name[len(name)-1] {
	case '%':
		return TypeInteger
	case '!':
		return TypeReal
	case '$':
		return TypeString
	}
	return TypeReal
}

// baseName strips the type suffix from an identifier, leaving the name that
// keys the variable namespace: A%, A! and A all denote the same variable A.
func baseName(name string) string {
	if name == "" {
		return name
	}
	switch name[len(name)-1] {
	case '%', '!', '$':
		return name[:len(name)-1]
	}
	return name
}
