package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	RedirectTo string            `json:"redirect_to,omitempty"`
	Action     string            `json:"action,omitempty"`
}

// MessageResponse respuesta simple con un mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse envoltorio de listados.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewList construye la respuesta; nunca serializa items como null.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}

// ClientErrorReport error de renderizado que envía el navegador a /api/log-error.
type ClientErrorReport struct {
	Error struct {
		Message string `json:"message"`
		Name    string `json:"name"`
		Stack   string `json:"stack"`
	} `json:"error"`
	ErrorInfo struct {
		ComponentStack string `json:"componentStack"`
	} `json:"errorInfo"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
}
