package knowledge

import "unicode"

// PasswordStrength scores a password on a 0–10 scale: length (up to 4),
// character diversity (up to 3) and character-class coverage among
// upper/lower/digit/other (up to 3). Deterministic and side-effect free.
func PasswordStrength(password string) float64 {
	runes := []rune(password)
	if len(runes) == 0 {
		return 0
	}

	length := float64(len(runes))
	score := min(length/3, 4)

	unique := make(map[rune]bool, len(runes))
	for _, r := range runes {
		unique[r] = true
	}
	score += min(float64(len(unique))/length*3, 3)

	var hasUpper, hasLower, hasDigit, hasOther bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasOther = true
		}
	}
	classes := 0
	for _, b := range []bool{hasUpper, hasLower, hasDigit, hasOther} {
		if b {
			classes++
		}
	}
	score += min(float64(classes), 3)

	return min(score, 10)
}

// AveragePasswordStrength averages PasswordStrength over the non-empty
// passwords; 0 when there are none.
func AveragePasswordStrength(passwords []string) float64 {
	sum, n := 0.0, 0
	for _, pw := range passwords {
		if pw == "" {
			continue
		}
		sum += PasswordStrength(pw)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
