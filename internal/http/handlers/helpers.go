package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}

func decodeBody(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}
