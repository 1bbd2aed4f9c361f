package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// NextIDResponse siguiente identificador disponible para formularios del SPA.
type NextIDResponse struct {
	NextID int64 `json:"next_id"`
}
