package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/youth-activities-api/internal/middleware"
	"github.com/noah-isme/youth-activities-api/internal/models"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
	"github.com/noah-isme/youth-activities-api/pkg/response"
)

// requirePrincipal returns the authenticated caller or writes a 401.
func requirePrincipal(c *gin.Context) *models.Principal {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil
	}
	return principal
}
