package webui

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/micromarket/storefront/internal/backend"
	favports "github.com/micromarket/storefront/internal/domains/favorites/ports"
)

// toggleFavorite is the JSON endpoint behind the heart buttons. The page
// script applies the returned isFavorite verbatim and sends the user to
// /login on 401.
func (s *Server) toggleFavorite(c *gin.Context) {
	isFavorite, err := s.favorites.Toggle(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"isFavorite": isFavorite})
	case errors.Is(err, favports.ErrAuthRequired), errors.Is(err, backend.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "please log in to favorite products"})
	default:
		status := http.StatusBadGateway
		message := "could not update favorite"
		var apiErr *backend.Error
		if errors.As(err, &apiErr) {
			status = apiErr.Status
			if apiErr.Message != "" {
				message = apiErr.Message
			}
		}
		c.JSON(status, gin.H{"message": message})
	}
}
