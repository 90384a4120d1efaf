package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/maximahome/garage/internal/config"
)

const tokenTTL = 24 * time.Hour

// AuthHandler issues and checks the back-office session tokens.
type AuthHandler struct {
	email  string
	hash   []byte
	secret []byte
	logger *zap.Logger
}

// NewAuthHandler prepares the credential check. A configured plain password
// is hashed once here so the comparison path is always bcrypt.
func NewAuthHandler(cfg config.AuthConfig, logger *zap.Logger) (*AuthHandler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = generated
	}

	return &AuthHandler{
		email:  cfg.AdminEmail,
		hash:   hash,
		secret: []byte(cfg.JWTSecret),
		logger: logger,
	}, nil
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the admin credentials and returns a signed session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ایمیل و رمز عبور الزامی است"})
		return
	}

	if req.Email != h.email || bcrypt.CompareHashAndPassword(h.hash, []byte(req.Password)) != nil {
		h.logger.Warn("failed login attempt", zap.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "ایمیل یا رمز عبور اشتباه است"})
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   req.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	})

	signed, err := token.SignedString(h.secret)
	if err != nil {
		h.logger.Error("failed signing token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "خطای داخلی سرور"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}

// Middleware rejects requests without a valid bearer token.
func (h *AuthHandler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "ابتدا وارد شوید"})
			return
		}

		token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return h.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "نشست شما منقضی شده است"})
			return
		}

		c.Next()
	}
}
