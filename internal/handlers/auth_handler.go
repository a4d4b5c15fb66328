package handlers

import (
	"log"

	"mars/internal/middleware"
	"mars/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	authService  *services.AuthService
	validate     *validator.Validate
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		validate:     services.NewValidator(),
		cookieSecure: cookieSecure,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/logout", h.HandleLogout)
}

// RegisterRequest represents the registration form.
type RegisterRequest struct {
	Surname       string `json:"surname" form:"surname" validate:"required"`
	Name          string `json:"name" form:"name" validate:"required"`
	Age           int    `json:"age" form:"age" validate:"required,gt=0"`
	Position      string `json:"position" form:"position" validate:"required"`
	Speciality    string `json:"speciality" form:"speciality" validate:"required"`
	Address       string `json:"address" form:"address" validate:"required"`
	Email         string `json:"email" form:"email" validate:"required,email"`
	Password      string `json:"password" form:"password" validate:"required"`
	PasswordAgain string `json:"password_again" form:"password_again" validate:"required"`
}

// HandleRegister creates a colonist and logs them in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := services.ValidateStruct(h.validate, req); err != nil {
		return respondError(c, err, "Could not register user")
	}

	profile := services.Profile{
		Surname:    req.Surname,
		Name:       req.Name,
		Age:        req.Age,
		Position:   req.Position,
		Speciality: req.Speciality,
		Address:    req.Address,
		Email:      req.Email,
	}
	session, err := h.authService.Register(c.UserContext(), profile, req.Password, req.PasswordAgain)
	if err != nil {
		log.Printf("Error registering user %s: %v", req.Email, err)
		return respondError(c, err, "Could not register user")
	}

	h.setSessionCookie(c, session)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    session.User.Profile(),
		"token":   session.Token,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email      string `json:"email" form:"email" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

// HandleLogin authenticates a colonist and sets the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := services.ValidateStruct(h.validate, req); err != nil {
		return respondError(c, err, "Could not log in")
	}

	session, err := h.authService.Login(c.UserContext(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return respondError(c, err, "Could not log in")
	}

	h.setSessionCookie(c, session)
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    session.User.Profile(),
		"token":   session.Token,
	})
}

// HandleLogout revokes the session and clears the cookie. Anonymous callers are fine.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.SessionToken(c)); err != nil {
		return respondError(c, err, "Could not log out")
	}
	c.ClearCookie(middleware.SessionCookie)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// setSessionCookie only gives the cookie an expiry for "remember me" logins,
// so other sessions end with the browser session.
func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, session *services.Session) {
	cookie := &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if session.Remember {
		cookie.Expires = session.ExpiresAt
	}
	c.Cookie(cookie)
}
