package xlsw

import "strconv"

// CellRef encodes a zero-based (row, col) pair as an A1-style cell
// reference. Columns use bijective base-26 letters: there is no "zero"
// digit, so column 25 is "Z" and column 26 is "AA".
func CellRef(row, col int) string {
	return colLetters(col) + strconv.Itoa(row+1)
}

// CellRefAbs is the absolute-reference variant of CellRef ("$B$7").
func CellRefAbs(row, col int) string {
	return "$" + colLetters(col) + "$" + strconv.Itoa(row+1)
}

func colLetters(col int) string {
	var b [8]byte
	i := len(b)
	for n := col; n >= 0; n = n/26 - 1 {
		i--
		b[i] = byte('A' + n%26)
	}
	return string(b[i:])
}

// ParseCellRef decodes an A1-style reference (absolute markers allowed)
// back into a zero-based (row, col) pair.
func ParseCellRef(ref string) (row, col int, ok bool) {
	i := 0
	if i < len(ref) && ref[i] == '$' {
		i++
	}
	start := i
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A') + 1
		i++
	}
	if i == start {
		return 0, 0, false
	}
	if i < len(ref) && ref[i] == '$' {
		i++
	}
	n, err := strconv.Atoi(ref[i:])
	if err != nil || n < 1 {
		return 0, 0, false
	}
	return n - 1, col - 1, true
}
