package model

// Method identifies how a forecast was produced.
type Method int

const (
	// MethodLinear means only the least squares trend was used.
	MethodLinear Method = iota
	// MethodBlended means the linear trend was averaged with the Newton
	// interpolating polynomial.
	MethodBlended
)

func (m Method) String() string {
	switch m {
	case MethodLinear:
		return "linear"
	case MethodBlended:
		return "blended"
	default:
		return "unknown"
	}
}
