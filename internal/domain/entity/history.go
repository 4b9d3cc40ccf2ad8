package entity

import "unicode/utf8"

// HistorySeparator yuklangan hujjatlar orasidagi ajratgich
const HistorySeparator = "\n\n"

// GlobalScope barcha foydalanuvchilar uchun umumiy tarix kaliti
const GlobalScope int64 = 0

// JoinHistory mavjud tarixga yangi matnni qo'shish
func JoinHistory(current, text string) string {
	if current == "" {
		return text
	}
	return current + HistorySeparator + text
}

// CharCount belgilar soni (baytlar emas)
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// PreviewHistory tarixni limit belgigacha qisqartirish
func PreviewHistory(content string, limit int) string {
	if limit < 0 || CharCount(content) <= limit {
		return content
	}
	return string([]rune(content)[:limit]) + "..."
}
