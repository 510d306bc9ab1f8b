package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == target
}

// decodeJSON проверяет Content-Type и читает тело запроса
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) *BusinessError {
	if !checkContentType(r, "application/json") {
		return NewBusinessError("UNSUPPORTED_MEDIA_TYPE", "Content-Type должен быть application/json")
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &BusinessError{Code: "BAD_REQUEST", Message: "Неверное тело запроса: " + err.Error(), Err: err}
	}
	return nil
}

func parseID(r *http.Request) (uuid.UUID, *BusinessError) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, NewBusinessError("BAD_REQUEST", "Не удалось получить id", ToDetail("field", "id"))
	}
	if id == uuid.Nil {
		return uuid.Nil, NewBusinessError("BAD_REQUEST", "id не может быть пустым", ToDetail("field", "id"))
	}
	return id, nil
}
