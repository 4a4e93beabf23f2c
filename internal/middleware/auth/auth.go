package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Popolzen/ossconvert/internal/config"
)

const (
	cookieName   = "session"
	cookieMaxAge = 3600 * 24 * 30
)

// validateCookie проверяет подпись сессионной куки
func validateCookie(cookieValue, key string) bool {
	parts := strings.Split(cookieValue, ".")
	if len(parts) != 2 {
		return false
	}
	sessionID, signature := parts[0], parts[1]

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(sessionID))
	expectedSignature := mac.Sum(nil)

	// Декодируем полученную подпись из base64
	receivedSignature, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	// Сравниваем байты HMAC
	return hmac.Equal(receivedSignature, expectedSignature)
}

// signSession подписывает идентификатор сессии с использованием HMAC-SHA256
func signSession(sessionID, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(sessionID))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return sessionID + "." + signature
}

// SessionMiddleware пропускает только запросы с валидной сессионной кукой.
// API отвечает JSON-ошибкой, редиректов на страницу логина нет.
func SessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err != nil || !validateCookie(cookie, cfg.GetSessionKey()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "Требуется авторизация"})
			return
		}
		c.Next()
	}
}

// LoginHandler проверяет пароль и выдает подписанную сессионную куку.
// Пароль принимается и в JSON, и в form-данных.
func LoginHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Password string `json:"password" form:"password"`
		}
		if err := c.ShouldBind(&req); err != nil || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "Нужен пароль"})
			return
		}

		if req.Password != cfg.GetAuthPassword() {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "Неверный пароль"})
			return
		}

		sessionID := uuid.New().String()
		c.SetCookie(cookieName, signSession(sessionID, cfg.GetSessionKey()), cookieMaxAge, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"code": 200})
	}
}

// LogoutHandler сбрасывает сессионную куку
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(cookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"code": 200})
	}
}
