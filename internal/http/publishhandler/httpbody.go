package publishhandler

import "encoding/json"

type PublishBody struct {
	Channel string          `json:"channel" binding:"required" example:"inbox"`
	Event   string          `json:"event"   binding:"required" example:"update pm inbox"`
	Room    string          `json:"room"    binding:"required" example:"42"`
	Secret  string          `json:"secret"  binding:"required"`
	Message json.RawMessage `json:"message,omitempty"`
} // @name PublishRequest

type ErrorResponse struct {
	Error string `json:"error"`
}
