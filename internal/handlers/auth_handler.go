package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/config"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/validators"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// ======================================================
// REQUESTS
// ======================================================

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone"`
	UserType  string `json:"user_type" binding:"required,oneof=patient doctor"`

	// Doctor-only fields
	Specialization  string  `json:"specialization"`
	Bio             string  `json:"bio"`
	ExperienceYears int     `json:"experience_years"`
	ConsultationFee float64 `json:"consultation_fee"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ======================================================
// REGISTER
// ======================================================

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid registration data.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsValidEmail(email) {
		httperr.BadRequest(c, "invalid_email", "Invalid email address.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process password.")
		return
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		UserType:     req.UserType,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if req.UserType == models.UserTypeDoctor {
			profile := models.DoctorProfile{
				UserID:             user.ID,
				Specialization:     req.Specialization,
				Bio:                req.Bio,
				ExperienceYears:    req.ExperienceYears,
				ConsultationFee:    req.ConsultationFee,
				VerificationStatus: models.VerificationPending,
			}
			return tx.Create(&profile).Error
		}
		return nil
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_registered", "An account with this email already exists.")
			return
		}
		httperr.Internal(c, "failed_to_register", "Could not create account.")
		return
	}

	token, err := h.issueToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_issue_token", "Could not issue token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// ======================================================
// LOGIN
// ======================================================

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid login data.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "failed_to_login", "Could not log in.")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.issueToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_issue_token", "Could not issue token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"userType": user.UserType,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}

	if user.UserType == models.UserTypeDoctor {
		var profile models.DoctorProfile
		if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			claims["doctorProfileId"] = profile.ID
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
