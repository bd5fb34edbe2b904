package utils

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Success           bool   `json:"success"`
	Msg               string `json:"msg,omitempty"`
	Count             *int   `json:"count,omitempty"`
	Data              any    `json:"data,omitempty"`
	Errors            any    `json:"errors,omitempty"`
	ExistingBookingID string `json:"existingBookingId,omitempty"`
}

// WriteJSON writes the envelope with a custom status code
func WriteJSON(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, code int, success bool, msg string, data, errors any) {
	WriteJSON(w, code, Response{
		Success: success,
		Msg:     msg,
		Data:    data,
		Errors:  errors,
	})
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, msg string, data any) {
	ResponseJSON(w, http.StatusOK, true, msg, data, nil)
}

// returns 200 OK with the item count of a list
func ResponseList(w http.ResponseWriter, count int, data any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Count: &count, Data: data})
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, msg string, data any) {
	ResponseJSON(w, http.StatusCreated, true, msg, data, nil)
}

// ------------- Error responses -------------

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, msg string, errors any) {
	ResponseJSON(w, http.StatusBadRequest, false, msg, nil, errors)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, msg string) {
	ResponseJSON(w, http.StatusUnauthorized, false, msg, nil, nil)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, msg string) {
	ResponseJSON(w, http.StatusNotFound, false, msg, nil, nil)
}

// returns 409 Conflict, pointing the client at the booking that already holds the slot
func ResponseConflict(w http.ResponseWriter, msg, existingBookingID string) {
	WriteJSON(w, http.StatusConflict, Response{
		Success:           false,
		Msg:               msg,
		ExistingBookingID: existingBookingID,
	})
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, msg string) {
	ResponseJSON(w, http.StatusInternalServerError, false, msg, nil, nil)
}
