package response

import (
	"encoding/json"
	"net/http"
	"time"

	domainerr "github.com/empdesk/empdesk/domain/error"
)

type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Problem is the body of every error response. Code repeats the HTTP status.
type Problem struct {
	Code      int       `json:"code"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// WriteJSON writes body as JSON with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// Success writes the success envelope.
func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, Envelope{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// Error writes a problem body. detail must be safe to show a client.
func Error(w http.ResponseWriter, statusCode int, detail string) {
	WriteJSON(w, statusCode, Problem{
		Code:      statusCode,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}

// FromError serves err with the status and public detail of its AppError.
// Anything else is a 500 with a generic detail.
func FromError(w http.ResponseWriter, err error) {
	Error(w, domainerr.GetHTTPStatusCode(err), domainerr.PublicDetail(err))
}
