package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-client/internal/authstore"
	"github.com/stemsi/exstem-client/internal/model"
	"github.com/stemsi/exstem-client/internal/response"
	"github.com/stemsi/exstem-client/internal/roles"
	"github.com/stemsi/exstem-client/internal/service"
)

const (
	// ContextKeyCredentials is the Gin context key for the signed-in credentials.
	ContextKeyCredentials = "credentials"
	// FieldRedirectTo names the error field that tells the UI where to go.
	FieldRedirectTo = "redirect_to"
)

// RequireRole lets the request through when stored credentials are
// authenticated and, if roles are given, hold one of them. Otherwise the
// request is aborted with the page the UI should open instead.
func RequireRole(auth *service.AuthService, allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		dec, creds, err := auth.Guard(c.Request.Context(), allowed...)
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		if !dec.Allow {
			fields := map[string]string{FieldRedirectTo: dec.RedirectTo}
			switch {
			case dec.RedirectTo != roles.PathLogin:
				response.AbortFailWithFields(c, http.StatusForbidden, response.ErrForbidden, fields)
			case creds != nil && creds.Token != "":
				response.AbortFailWithFields(c, http.StatusUnauthorized, response.ErrSessionExpired, fields)
			default:
				response.AbortFailWithFields(c, http.StatusUnauthorized, response.ErrNotSignedIn, fields)
			}
			return
		}

		c.Set(ContextKeyCredentials, creds)
		c.Next()
	}
}

// GetCredentials returns the credentials RequireRole attached, or nil.
func GetCredentials(c *gin.Context) *authstore.Credentials {
	v, ok := c.Get(ContextKeyCredentials)
	if !ok {
		return nil
	}
	creds, _ := v.(*authstore.Credentials)
	return creds
}
