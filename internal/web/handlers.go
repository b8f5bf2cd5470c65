package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/movers-solution/movers/internal/access"
	"github.com/movers-solution/movers/internal/backend"
	"github.com/movers-solution/movers/internal/home"
	"github.com/movers-solution/movers/internal/navigation"
)

// LoginForm is the body of POST /login
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// RegisterForm is the body of POST /register
type RegisterForm struct {
	Username string `form:"username" binding:"required,min=3,max=32,username"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	Role     string `form:"role" binding:"required,oneof=user mover"`
}

func (s *Server) homePage(c *gin.Context) {
	data := s.page(c, "Home")
	data.Home = home.Page()
	c.HTML(http.StatusOK, "home.html", data)
}

func (s *Server) loginPage(c *gin.Context) {
	if currentSession(c).IsAuthenticated() {
		c.Redirect(http.StatusSeeOther, navigation.HomePath)
		return
	}
	c.HTML(http.StatusOK, "login.html", s.page(c, "Login"))
}

func (s *Server) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderForm(c, "login.html", "Login", http.StatusBadRequest,
			"Please enter a valid email and password.", formValues{Email: form.Email})
		return
	}

	sess, err := s.backend.Login(c.Request.Context(), strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		values := formValues{Email: form.Email}
		if errors.Is(err, backend.ErrInvalidCredentials) || errors.Is(err, backend.ErrNoSession) {
			s.logger.Info().Str("email", form.Email).Msg("Login rejected")
			s.renderForm(c, "login.html", "Login", http.StatusUnauthorized, "Invalid email or password.", values)
			return
		}
		s.logger.Error().Err(err).Str("email", form.Email).Msg("Failed to log in")
		s.renderForm(c, "login.html", "Login", http.StatusBadGateway, "Login is unavailable right now. Please try again.", values)
		return
	}

	if err := s.sessions.Set(c.Request.Context(), sessionKey(c), sess); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store session")
		s.renderForm(c, "login.html", "Login", http.StatusInternalServerError, "Could not start your session. Please try again.", formValues{Email: form.Email})
		return
	}

	s.logger.Info().Str("user_id", sess.UserID()).Str("role", string(sess.Role)).Msg("User logged in")
	c.Redirect(http.StatusSeeOther, navigation.HomePath)
}

func (s *Server) registerPage(c *gin.Context) {
	if currentSession(c).IsAuthenticated() {
		c.Redirect(http.StatusSeeOther, navigation.HomePath)
		return
	}
	data := s.page(c, "Register")
	data.Form.Role = "user"
	c.HTML(http.StatusOK, "register.html", data)
}

func (s *Server) register(c *gin.Context) {
	var form RegisterForm
	bindErr := c.ShouldBind(&form)
	values := formValues{Username: form.Username, Email: form.Email, Role: form.Role}
	if bindErr != nil {
		s.renderForm(c, "register.html", "Register", http.StatusBadRequest,
			"Please fill in every field. Passwords need at least 6 characters.", values)
		return
	}

	sess, err := s.backend.Signup(c.Request.Context(), backend.SignupRequest{
		Username: strings.TrimSpace(form.Username),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Role:     form.Role,
	})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			status := http.StatusBadRequest
			if errors.Is(err, backend.ErrConflict) {
				status = http.StatusConflict
			}
			s.renderForm(c, "register.html", "Register", status, apiErr.Message, values)
			return
		}
		s.logger.Error().Err(err).Msg("Failed to register")
		s.renderForm(c, "register.html", "Register", http.StatusBadGateway, "Registration is unavailable right now. Please try again.", values)
		return
	}

	if err := s.sessions.Set(c.Request.Context(), sessionKey(c), sess); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store session")
		s.renderForm(c, "register.html", "Register", http.StatusInternalServerError, "Could not start your session. Please try again.", values)
		return
	}

	s.logger.Info().Str("user_id", sess.UserID()).Str("role", string(sess.Role)).Msg("User registered")
	c.Redirect(http.StatusSeeOther, navigation.HomePath)
}

func (s *Server) renderForm(c *gin.Context, name, title string, status int, message string, values formValues) {
	data := s.page(c, title)
	data.Banner = &banner{Kind: bannerError, Message: message}
	data.Form = values
	c.HTML(status, name, data)
}

// logout ends the backend session. Only a confirmed logout clears the
// client's session and redirects home; failures re-render the page the
// client was on with the session unchanged.
func (s *Server) logout(c *gin.Context) {
	res := s.nav.Logout(c.Request.Context(), sessionKey(c))

	switch res.Outcome {
	case backend.Success:
		c.Redirect(http.StatusSeeOther, res.Redirect)
	case backend.Recoverable:
		s.renderCurrent(c, http.StatusBadGateway, &banner{
			Kind:    bannerRetry,
			Message: "We could not log you out. Please try again.",
		})
	default:
		s.renderCurrent(c, http.StatusInternalServerError, &banner{
			Kind:    bannerError,
			Message: "Logout failed. Please reload the page.",
		})
	}
}

// renderCurrent re-renders the page named by the "from" form field,
// falling back to the home page
func (s *Server) renderCurrent(c *gin.Context, status int, b *banner) {
	from := c.PostForm("from")
	sess := currentSession(c)

	for _, route := range access.GatedRoutes() {
		if route.Path == from && s.nav.Policy().Allows(sess, route.ID) {
			data := s.page(c, route.Label)
			data.Path = route.Path
			data.Route = route
			data.Banner = b
			c.HTML(status, "page.html", data)
			return
		}
	}

	data := s.page(c, "Home")
	data.Path = navigation.HomePath
	data.Home = home.Page()
	data.Banner = b
	c.HTML(status, "home.html", data)
}

func (s *Server) gatedPage(route access.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := s.page(c, route.Label)
		data.Route = route
		c.HTML(http.StatusOK, "page.html", data)
	}
}

func (s *Server) notFound(c *gin.Context) {
	s.renderError(c, http.StatusNotFound, "Not Found", "The page you are looking for does not exist.")
}
