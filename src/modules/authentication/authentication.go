package authentication

import (
	"errors"
	"time"

	"JobBoard/src/core/config"
	"JobBoard/src/core/database"
	"JobBoard/src/core/helpers"
	"JobBoard/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("an account with this email already exists")

type signUpInput struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"required,oneof=employer job_seeker"`
}

type signInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// IssueToken generates the HS256 JWT for an authenticated user. The role
// claim is what the route guards check.
func IssueToken(userID, role, email string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["sub"] = userID
	claims["role"] = role
	claims["email"] = email
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(30 * 24 * time.Hour).Unix()

	secretKey := config.Config("JWT_SECRET")
	return token.SignedString([]byte(secretKey))
}

// SignUp handles user registration.
func SignUp(c *fiber.Ctx) error {
	db := database.DB

	body := new(signUpInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleValidationError(c, "Invalid signup payload", helpers.ValidationFields(err))
	}

	var count int64
	if err := db.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", body.Email).Count(&count).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to check email", err)
	}
	if count > 0 {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Email already registered", ErrEmailTaken)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to hash password", err)
	}

	user := models.User{
		ID:        uuid.New(),
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Password:  string(hashedPwd),
		Role:      body.Role,
	}
	if result := db.Create(&user); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create user account", result.Error)
	}

	token, err := IssueToken(user.ID.String(), user.Role, user.Email)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Account created successfully", fiber.Map{"token": token, "user": user})
}

// SignIn handles user authentication. The same message covers a wrong
// email and a wrong password.
func SignIn(c *fiber.Ctx) error {
	db := database.DB

	body := new(signInInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleValidationError(c, "Invalid signin payload", helpers.ValidationFields(err))
	}

	user := new(models.User)
	if result := db.Where("LOWER(email) = LOWER(?)", body.Email).First(user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid login credentials", nil)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch user", result.Error)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid login credentials", nil)
	}

	token, err := IssueToken(user.ID.String(), user.Role, user.Email)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Sign-in successful", fiber.Map{"token": token, "user": user})
}
