package middleware

import (
	"context"
	"net/http"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/http/response"
)

type contextKey string

const (
	contextUserIDKey    contextKey = "user_id"
	contextRequestIDKey contextKey = "request_id"
)

// Identity resolves the acting user from the X-User-ID header set by the
// authenticating edge in front of this service. Session handling proper is
// out of scope here.
type Identity struct{}

func NewIdentity() *Identity {
	return &Identity{}
}

func (m *Identity) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User-ID")
		if header == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing user identity", nil))
			return
		}
		userID, err := common.ParseUUID(header)
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid user identity", err))
			return
		}
		ctx := context.WithValue(r.Context(), contextUserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserIDFromContext(ctx context.Context) (common.UUID, bool) {
	userID, ok := ctx.Value(contextUserIDKey).(common.UUID)
	return userID, ok
}
