package entity

import "fmt"

// Rol nomlari completion API formatida
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage completion so'rovidagi bitta xabar
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest AI ga yuboriladigan so'rov
type CompletionRequest struct {
	SystemPrompt string
	History      string
	UserMessage  string
}

const historyContextTemplate = `
Учти этот контекст из предыдущих диалогов с пользователем:
%s

Отвечай в схожем стиле и учитывай историю общения.
`

// Messages so'rovdan tartiblangan xabarlar ro'yxatini yig'ish
func (r CompletionRequest) Messages() []ChatMessage {
	messages := []ChatMessage{{Role: RoleSystem, Content: r.SystemPrompt}}

	// Tarix bo'lsa, ikkinchi system xabar sifatida qo'shamiz
	if r.History != "" {
		messages = append(messages, ChatMessage{
			Role:    RoleSystem,
			Content: fmt.Sprintf(historyContextTemplate, r.History),
		})
	}

	return append(messages, ChatMessage{Role: RoleUser, Content: r.UserMessage})
}
