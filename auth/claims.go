// claims.go — разбор и проверка JWT сессии.
// Токен выдаётся API при /auth/login; при настроенном TC_JWKS_URL подпись
// проверяется локально через JWKS endpoint API (фоновое обновление ключей),
// иначе claims только разбираются — источником истины остаётся /auth/verify.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims — claims токена сессии репозитория.
type SessionClaims struct {
	jwt.RegisteredClaims
	// IDUser — идентификатор пользователя.
	IDUser int `json:"idUser"`
	// Name — полное имя.
	Name string `json:"name"`
	// Email — электронная почта.
	Email string `json:"email"`
	// Rol — роль пользователя (admin, director, supervisor, revisor, user).
	Rol string `json:"rol"`
}

// HasAnyRole проверяет, совпадает ли роль с одной из указанных.
func (c *SessionClaims) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.Rol == r {
			return true
		}
	}
	return false
}

// Verifier — разбор токена сессии с опциональной проверкой подписи.
type Verifier struct {
	jwks   keyfunc.Keyfunc
	leeway time.Duration
	logger *slog.Logger
}

// NewVerifier создаёт Verifier.
// jwksURL — URL JWKS endpoint API (пустая строка — подпись не проверяется).
// refreshInterval — интервал фонового обновления JWKS-ключей.
// leeway — допустимое отклонение времени при проверке exp/nbf.
func NewVerifier(
	jwksURL string,
	httpClient *http.Client,
	refreshInterval time.Duration,
	leeway time.Duration,
	logger *slog.Logger,
) (*Verifier, error) {
	v := &Verifier{
		leeway: leeway,
		logger: logger.With(slog.String("component", "jwt_verifier")),
	}

	if jwksURL == "" {
		return v, nil
	}

	// JWKS Storage с фоновым обновлением.
	// NoErrorReturnFirstHTTPReq — стартуем даже если API ещё недоступен.
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    httpClient,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{
		Storage: storage,
	})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}

	v.jwks = k
	return v, nil
}

// Parse разбирает токен сессии в SessionClaims.
// С настроенным JWKS дополнительно проверяется подпись и срок действия.
func (v *Verifier) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	if v.jwks == nil {
		// Без JWKS — только разбор: валидность подтверждает /auth/verify
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
			return nil, fmt.Errorf("разбор токена сессии: %w", err)
		}
		return claims, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc,
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("проверка токена сессии: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("токен сессии недействителен")
	}
	return claims, nil
}
