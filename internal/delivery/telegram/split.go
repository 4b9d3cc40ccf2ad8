package telegram

import "unicode"

// DefaultMaxMessageLength Telegram 4096 chegarasidan biroz kichik
const DefaultMaxMessageLength = 4000

// SplitMessage uzun javobni maxLength belgidan oshmaydigan qismlarga bo'lish.
// Avval yangi qator, keyin bo'sh joy bo'yicha bo'linadi, topilmasa qattiq kesiladi.
// Har bir keyingi qismning boshidagi bo'shliqlar olib tashlanadi.
func SplitMessage(text string, maxLength int) []string {
	runes := []rune(text)
	if maxLength <= 0 || len(runes) <= maxLength {
		return []string{text}
	}

	var parts []string
	for len(runes) > maxLength {
		cut := breakIndex(runes, maxLength)
		parts = append(parts, string(runes[:cut]))
		runes = trimLeftSpace(runes[cut:])
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}

	return parts
}

// breakIndex [0, maxLength) oynasida eng o'ngdagi bo'linish nuqtasi.
// 0 indeks hisobga olinmaydi, aks holda bo'sh qism chiqadi.
func breakIndex(runes []rune, maxLength int) int {
	window := runes[:maxLength]
	if i := lastIndex(window, '\n'); i > 0 {
		return i
	}
	if i := lastIndex(window, ' '); i > 0 {
		return i
	}
	return maxLength
}

func lastIndex(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

func trimLeftSpace(runes []rune) []rune {
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return runes[i:]
}
