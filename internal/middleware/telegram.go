package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"lashstudio/internal/domain"
	"lashstudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const userKey = "tg_user"

// ValidateInitData verifies Telegram Mini App initData: the hash is
// HMAC-SHA256 over the sorted key=value pairs with a secret derived
// from the bot token, and auth_date must not be older than maxAge.
// See https://core.telegram.org/bots/webapps#validating-data-received-via-the-mini-app
func ValidateInitData(initData, botToken string, maxAge time.Duration, now time.Time) (*domain.TelegramUser, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, false
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, false
	}

	if authDateStr := values.Get("auth_date"); authDateStr != "" {
		if authDate, err := strconv.ParseInt(authDateStr, 10, 64); err == nil {
			if now.Unix()-authDate > int64(maxAge.Seconds()) {
				return nil, false
			}
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	dataCheckString := strings.Join(pairs, "\n")

	// secret = HMAC-SHA256("WebAppData", botToken)
	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(botToken))
	secret := secretMac.Sum(nil)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(dataCheckString))
	computed := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(computed), []byte(hash)) {
		return nil, false
	}

	var user domain.TelegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return nil, false
	}
	return &user, true
}

// TelegramAuth validates the `Authorization: tma <initData>` header
// and stores the verified user in the context.
func TelegramAuth(botToken string, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.AbortError(c, http.StatusUnauthorized, response.CodeUnauthorized, "Missing Authorization header")
			return
		}

		initData, ok := strings.CutPrefix(h, "tma ")
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid Authorization header")
			return
		}

		user, ok := ValidateInitData(initData, botToken, maxAge, time.Now())
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid Telegram auth")
			return
		}

		c.Set(userKey, *user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// User returns the verified Telegram user set by TelegramAuth.
func User(c *gin.Context) (domain.TelegramUser, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return domain.TelegramUser{}, false
	}
	u, ok := v.(domain.TelegramUser)
	return u, ok
}
