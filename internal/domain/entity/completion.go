package entity

// FailureKind completion natijasining turi
type FailureKind string

const (
	KindOK         FailureKind = "ok"
	KindHTTPStatus FailureKind = "http_status"
	KindConnection FailureKind = "connection"
	KindTimeout    FailureKind = "timeout"
	KindUnexpected FailureKind = "unexpected"
)

// Foydalanuvchiga ko'rsatiladigan xato matnlari
const (
	ReplyHTTPStatus = "⚠️ Ошибка API: Проверь API ключ и баланс"
	ReplyConnection = "⚠️ Ошибка соединения с API. Проверь интернет."
	ReplyTimeout    = "⚠️ Превышено время ожидания ответа от API."
	ReplyUnexpected = "⚠️ Произошла непредвиденная ошибка. Попробуй позже."
)

// CompletionResult AI javobi yoki xato turi
type CompletionResult struct {
	Text string
	Kind FailureKind
	// Err asl xato, faqat loglash uchun
	Err error
}

// Success muvaffaqiyatli natija
func Success(text string) CompletionResult {
	return CompletionResult{Text: text, Kind: KindOK}
}

// Failure xato natija
func Failure(kind FailureKind, err error) CompletionResult {
	return CompletionResult{Kind: kind, Err: err}
}

// OK natija muvaffaqiyatli ekanligini tekshirish
func (r CompletionResult) OK() bool {
	return r.Kind == KindOK
}

// Reply foydalanuvchiga yuboriladigan matn
func (r CompletionResult) Reply() string {
	switch r.Kind {
	case KindOK:
		return r.Text
	case KindHTTPStatus:
		return ReplyHTTPStatus
	case KindConnection:
		return ReplyConnection
	case KindTimeout:
		return ReplyTimeout
	default:
		return ReplyUnexpected
	}
}
