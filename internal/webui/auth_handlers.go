package webui

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/micromarket/storefront/internal/backend"
)

func (s *Server) loginPage(c *gin.Context) {
	if s.session.IsAuthenticated() {
		c.Redirect(http.StatusSeeOther, "/products")
		return
	}
	c.HTML(http.StatusOK, "login", s.view(gin.H{}))
}

func (s *Server) login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.HTML(http.StatusBadRequest, "login", s.view(gin.H{
			"Error": "Email and password are required.",
			"Email": email,
		}))
		return
	}
	token, err := s.backend.Login(c.Request.Context(), email, password)
	if err != nil {
		var apiErr *backend.Error
		if errors.As(err, &apiErr) {
			c.HTML(http.StatusUnauthorized, "login", s.view(gin.H{
				"Error": apiErr.Message,
				"Email": email,
			}))
			return
		}
		s.renderError(c, err)
		return
	}
	if err := s.session.Login(token); err != nil {
		s.logger.Error("failed to establish session", slog.String("error", err.Error()))
		c.HTML(http.StatusInternalServerError, "login", s.view(gin.H{
			"Error": "Could not store your session. Please try again.",
			"Email": email,
		}))
		return
	}
	c.Redirect(http.StatusSeeOther, "/products")
}

func (s *Server) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register", s.view(gin.H{}))
}

func (s *Server) register(c *gin.Context) {
	reg := backend.Registration{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		c.HTML(http.StatusBadRequest, "register", s.view(gin.H{
			"Error": "All fields are required.",
			"Name":  reg.Name,
			"Email": reg.Email,
		}))
		return
	}
	if err := s.backend.Register(c.Request.Context(), reg); err != nil {
		var apiErr *backend.Error
		if errors.As(err, &apiErr) {
			c.HTML(apiErr.Status, "register", s.view(gin.H{
				"Error": apiErr.Message,
				"Name":  reg.Name,
				"Email": reg.Email,
			}))
			return
		}
		s.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) logout(c *gin.Context) {
	s.session.Logout()
	c.Redirect(http.StatusSeeOther, "/login")
}
