package utils

import (
	"encoding/json"
	"net/http"
)

// Default messages for the non-auth error bodies
const (
	MessageBadRequest       = "bad request"
	MessageNotFound         = "resource not found"
	MessageMethodNotAllowed = "method not allowed"
	MessageUnprocessable    = "unprocessable"
	MessageInternalError    = "internal server error"
)

// ErrorResponse is the failure body: {"success": false, "error": <status>, "message": ...}
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   int         `json:"error"`
	Message interface{} `json:"message"`
}

// AuthErrorMessage is the message of an authorization failure
type AuthErrorMessage struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response whose body is fields plus "success": true
func WriteSuccess(w http.ResponseWriter, fields map[string]interface{}) error {
	body := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	return WriteJSON(w, http.StatusOK, body)
}

// WriteError writes a failure body; an empty message uses the status default
func WriteError(w http.ResponseWriter, status int, message string) error {
	if message == "" {
		message = defaultMessage(status)
	}
	return WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
	})
}

// WriteAuthError writes an authorization failure with its machine code and description
func WriteAuthError(w http.ResponseWriter, status int, code, description string) error {
	if status == 0 {
		status = http.StatusUnauthorized
	}
	return WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   status,
		Message: AuthErrorMessage{Code: code, Description: description},
	})
}

// WriteBadRequest writes a 400 response
func WriteBadRequest(w http.ResponseWriter) error {
	return WriteError(w, http.StatusBadRequest, MessageBadRequest)
}

// WriteNotFound writes a 404 response
func WriteNotFound(w http.ResponseWriter) error {
	return WriteError(w, http.StatusNotFound, MessageNotFound)
}

// WriteMethodNotAllowed writes a 405 response
func WriteMethodNotAllowed(w http.ResponseWriter) error {
	return WriteError(w, http.StatusMethodNotAllowed, MessageMethodNotAllowed)
}

// WriteUnprocessable writes a 422 response
func WriteUnprocessable(w http.ResponseWriter) error {
	return WriteError(w, http.StatusUnprocessableEntity, MessageUnprocessable)
}

// WriteInternalServerError writes a 500 response
func WriteInternalServerError(w http.ResponseWriter) error {
	return WriteError(w, http.StatusInternalServerError, MessageInternalError)
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return MessageBadRequest
	case http.StatusNotFound:
		return MessageNotFound
	case http.StatusMethodNotAllowed:
		return MessageMethodNotAllowed
	case http.StatusUnprocessableEntity:
		return MessageUnprocessable
	case http.StatusInternalServerError:
		return MessageInternalError
	default:
		return http.StatusText(status)
	}
}
