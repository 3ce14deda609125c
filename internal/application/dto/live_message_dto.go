package dto

// Типы сообщений live-сессии
const (
	CommandSelectCategory = "select_category"
	CommandToggleMenu     = "toggle_menu"
	CommandSelectLink     = "select_link"

	MessageReveal   = "reveal"
	MessageMenu     = "menu"
	MessageOverlay  = "overlay"
	MessageNavigate = "navigate"
	MessageError    = "error"
)

// LiveCommandDTO приходит от браузера
type LiveCommandDTO struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// LiveMessageDTO отправляется в браузер; HTML заменяет соответствующий фрагмент
type LiveMessageDTO struct {
	Type     string `json:"type"`
	HTML     string `json:"html,omitempty"`
	Open     *bool  `json:"open,omitempty"`
	Anchor   string `json:"anchor,omitempty"`
	Category string `json:"category,omitempty"`
	Error    string `json:"error,omitempty"`
}
