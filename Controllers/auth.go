package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"TaskTracker/Models"
	"TaskTracker/Services"
	"TaskTracker/apperrors"
)

// AuthController serves signup and signin. Outcomes are plain-text messages;
// the status code tells them apart.
type AuthController struct {
	Auth *Services.AuthService
}

func NewAuthController(auth *Services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// SignUp registers a new employee
// POST /auth/signup
func (a *AuthController) SignUp(c *fiber.Ctx) error {
	var req Models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if _, err := a.Auth.Register(c.UserContext(), req); err != nil {
		if apperrors.KindOf(err) == apperrors.KindAlreadyExists {
			return c.Status(fiber.StatusConflict).SendString(Services.MsgAlreadyExists)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).SendString(Services.MsgRegistered)
}

// SignIn checks credentials and returns the session token as text
// POST /auth/signin
func (a *AuthController) SignIn(c *fiber.Ctx) error {
	var req Models.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := a.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch apperrors.KindOf(err) {
		case apperrors.KindNotFound:
			return c.Status(fiber.StatusNotFound).SendString(Services.MsgUserNotFound)
		case apperrors.KindInvalidCredentials:
			return c.Status(fiber.StatusUnauthorized).SendString(Services.MsgWrongPassword)
		default:
			return respondError(c, err)
		}
	}

	return c.SendString(result.Token)
}
