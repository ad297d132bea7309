package workspace

// NaturalLess compares two strings in human order: each string splits into
// alternating runs of digits and non-digits, digit runs compare as
// integers and the rest as plain strings. "utt2.wav" sorts before
// "utt10.wav".
func NaturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		aRun, aDigits, aRest := nextRun(a)
		bRun, bDigits, bRest := nextRun(b)

		switch {
		case aDigits && bDigits:
			if c := compareDigitRuns(aRun, bRun); c != 0 {
				return c < 0
			}
		default:
			if aRun != bRun {
				return aRun < bRun
			}
		}
		a, b = aRest, bRest
	}
	return len(a) < len(b)
}

// nextRun splits off the leading run of digits or non-digits.
func nextRun(s string) (run string, digits bool, rest string) {
	digits = isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], digits, s[i:]
}

// compareDigitRuns compares two digit runs numerically without overflow:
// after stripping leading zeros, the longer run is the larger number and
// equal-length runs compare lexicographically.
func compareDigitRuns(a, b string) int {
	at := trimLeadingZeros(a)
	bt := trimLeadingZeros(b)
	if len(at) != len(bt) {
		return len(at) - len(bt)
	}
	switch {
	case at < bt:
		return -1
	case at > bt:
		return 1
	}
	return 0
}

func trimLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
