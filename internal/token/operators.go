package token

// operators maps every operator byte of the alphabet to its kind.
var operators = map[byte]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'%': Percent,
	'<': Lt,
	'>': Gt,
	'=': Eq,
	'?': Question,
	'@': At,
	'|': Pipe,
	'$': Dollar,
	's': Store,
	'l': Load,
	'r': Repeat,
	'S': StackSize,
	'p': Print,
	'f': PrintAll,
	'c': Clear,
	'q': Quit,
}

// LookupOperator returns the operator kind for b.
func LookupOperator(b byte) (Kind, bool) {
	k, ok := operators[b]
	return k, ok
}

// Alphabet returns every operator byte in a stable order.
func Alphabet() string {
	return "+-*/%<>=?@|$slrSpfcq"
}
