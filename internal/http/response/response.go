package response

import (
	"encoding/json"
	"net/http"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func Error(w http.ResponseWriter, err error) {
	code := common.CodeOf(err)
	body := errorBody{Error: err.Error(), Code: string(code)}
	var coded *common.Error
	if e, ok := err.(*common.Error); ok {
		coded = e
	}
	if coded != nil {
		body.Error = coded.Message
		body.Fields = coded.Fields
	}
	JSON(w, statusOf(code), body)
}

func statusOf(code common.Code) int {
	switch code {
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeConflict, common.CodeInvalidTransition:
		return http.StatusConflict
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	case common.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
