package enum

import (
	"strings"
	"unicode"
)

// ToConstantName приводит произвольную строку к канонному токену-константе:
// "CamelCase" -> "CAMEL_CASE", "with.punctuation" -> "WITH_PUNCTUATION".
// Пунктуация и дефисы становятся разделителями, CamelCase режется по границе
// регистра, серии разделителей схлопываются. Пустой результат -> ok=false
// (имя непредставимо как константа — вызывающий решает: скип или ошибка).
// Чистая функция, без I/O.
func ToConstantName(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(s) + 4)
	prevLower := false // предыдущая руна — строчная буква или цифра
	prevSep := true    // не даём разделителю встать первым и не дублируем

	for _, r := range s {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			// явные разделители
			if !prevSep {
				b.WriteByte('_')
				prevSep = true
			}
			prevLower = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// граница CamelCase: строчная/цифра перед заглавной
			if unicode.IsUpper(r) && prevLower && !prevSep {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToUpper(r))
			prevSep = false
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		default:
			// прочая пунктуация — тоже разделитель
			if !prevSep {
				b.WriteByte('_')
				prevSep = true
			}
			prevLower = false
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "", false
	}
	return out, true
}
