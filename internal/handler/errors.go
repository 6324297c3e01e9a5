package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-client/internal/apiclient"
	"github.com/stemsi/exstem-client/internal/response"
)

// failUpstream answers for an error returned by the exam server. fallback
// is the code used when the server rejected the request for its own reasons.
func failUpstream(c *gin.Context, err error, fallback response.ErrCode) {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		response.FailWithDetail(c, http.StatusBadGateway, response.ErrUpstream, err.Error())
		return
	}

	switch {
	case apiclient.IsUnauthorized(err):
		response.FailWithDetail(c, http.StatusUnauthorized, response.ErrSessionExpired, apiErr.Message)
	case apiclient.IsNotFound(err):
		response.FailWithDetail(c, http.StatusNotFound, response.ErrNotFound, apiErr.Message)
	case apiErr.Status >= 500:
		response.FailWithDetail(c, http.StatusBadGateway, fallback, apiErr.Message)
	default:
		response.FailWithDetail(c, http.StatusUnprocessableEntity, fallback, apiErr.Message)
	}
}
