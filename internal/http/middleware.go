package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"rbi-data/internal/domain"
	"rbi-data/internal/service"
)

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing authorization header")
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return token, nil
}

// requireAuth validates the bearer token and returns its claims. On failure
// it writes 401 with the token-expired code the frontend interceptor expects
// and returns ok=false.
func requireAuth(w http.ResponseWriter, r *http.Request, auth service.AuthService) (*service.AccessClaims, bool) {
	token, err := bearerToken(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, TokenExpired(err.Error()))
		return nil, false
	}
	claims, err := auth.ParseToken(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, TokenExpired("invalid or expired token"))
		return nil, false
	}
	return claims, true
}

// requireWriteRole rejects read-only roles on mutating routes.
func requireWriteRole(w http.ResponseWriter, claims *service.AccessClaims) bool {
	switch claims.Role {
	case domain.RoleSystemAdmin, domain.RoleLGUAdmin, domain.RoleEncoder:
		return true
	}
	writeJSON(w, http.StatusForbidden, Fail("role does not permit modifications"))
	return false
}

// requireAdminRole restricts tenant and user administration.
func requireAdminRole(w http.ResponseWriter, claims *service.AccessClaims) bool {
	switch claims.Role {
	case domain.RoleSystemAdmin, domain.RoleLGUAdmin:
		return true
	}
	writeJSON(w, http.StatusForbidden, Fail("administrator role required"))
	return false
}
