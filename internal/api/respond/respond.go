// Package respond writes the API envelope every endpoint shares.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/arnavdeep/vidtube-be/internal/apperr"
)

// Envelope is the shape of every response, success or failure. Clients
// branch on Success alone.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// JSON writes a success envelope. Data-less responses still carry an empty
// data object so the shape never varies.
func JSON(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	if data == nil {
		data = struct{}{}
	}
	write(w, Envelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	})
}

// Fail writes a failure envelope with an explicit status and message.
func Fail(w http.ResponseWriter, statusCode int, message string) {
	write(w, Envelope{
		StatusCode: statusCode,
		Message:    message,
		Success:    false,
	})
}

// Error writes the failure envelope for a classified error. Unclassified
// errors surface as a generic 500.
func Error(w http.ResponseWriter, err error) {
	Fail(w, apperr.StatusCode(err), apperr.Message(err))
}

func write(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode)
	json.NewEncoder(w).Encode(env)
}
