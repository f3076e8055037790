package problemgen

// AreDuplicate reports whether a and b ask the same thing: same operation
// and the same operands in the same order. 3 + 5 and 5 + 3 are distinct.
func AreDuplicate(a, b Question) bool {
	return a.Operation == b.Operation &&
		a.Operand1 == b.Operand1 &&
		a.Operand2 == b.Operand2
}

// IsDuplicate reports whether q duplicates any question in list.
func IsDuplicate(q Question, list []Question) bool {
	for _, other := range list {
		if AreDuplicate(q, other) {
			return true
		}
	}
	return false
}
