// Пакет auth — сессия пользователя и авторизация клиентского модуля.
// Оборачивает /auth/register, /auth/login, /auth/verify, /auth/logout;
// держит текущего пользователя в памяти и отвечает на вопросы политики
// через Session.Authorize.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bigkaa/tesisteca/client-module/apiclient"
	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

// Session — состояние аутентификации текущего пользователя.
// Безопасна для конкурентного использования.
type Session struct {
	api      *apiclient.Client
	verifier *Verifier
	policy   Policy
	logger   *slog.Logger

	mu            sync.RWMutex
	user          *model.User
	authenticated bool
}

// NewSession создаёт сессию.
// verifier может быть nil — тогда токен не разбирается локально.
func NewSession(api *apiclient.Client, verifier *Verifier, policy Policy, logger *slog.Logger) *Session {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Session{
		api:      api,
		verifier: verifier,
		policy:   policy,
		logger:   logger.With(slog.String("component", "auth_session")),
	}
}

// authResponse — проводной формат ответов /auth/*.
// login в старых ревизиях API возвращает пользователя прямо в корне тела,
// в новых — {success, user, token}; обе формы принимаются.
type authResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	Message string          `json:"message"`
	User    json.RawMessage `json:"user"`
}

// decodeUser извлекает пользователя из ответа /auth/*.
func decodeUser(raw json.RawMessage, envelope *authResponse) (*model.User, error) {
	user := &model.User{}
	if len(envelope.User) > 0 {
		if err := json.Unmarshal(envelope.User, user); err != nil {
			return nil, fmt.Errorf("декодирование пользователя: %w", err)
		}
		return user, nil
	}
	if err := json.Unmarshal(raw, user); err != nil {
		return nil, fmt.Errorf("декодирование пользователя: %w", err)
	}
	return user, nil
}

// Register отправляет форму регистрации.
// Сессию не открывает: после регистрации требуется Login.
func (s *Session) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	var raw json.RawMessage
	if err := s.api.Post(ctx, "/auth/register", reg, &raw); err != nil {
		return nil, fmt.Errorf("регистрация: %w", err)
	}

	var envelope authResponse
	_ = json.Unmarshal(raw, &envelope)

	user, err := decodeUser(raw, &envelope)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Пользователь зарегистрирован", slog.Int("id_user", user.IDUser))
	return user, nil
}

// Login выполняет вход. Сессионная cookie сохраняется в jar клиента;
// если сервер вернул токен — он сохраняется для Bearer-авторизации
// и (при настроенном JWKS) проверяется локально.
func (s *Session) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	var raw json.RawMessage
	if err := s.api.Post(ctx, "/auth/login", creds, &raw); err != nil {
		return nil, fmt.Errorf("вход: %w", err)
	}

	var envelope authResponse
	_ = json.Unmarshal(raw, &envelope)

	user, err := decodeUser(raw, &envelope)
	if err != nil {
		return nil, err
	}

	if envelope.Token != "" {
		if s.verifier != nil {
			claims, err := s.verifier.Parse(envelope.Token)
			if err != nil {
				return nil, fmt.Errorf("токен из ответа login: %w", err)
			}
			// Роль из токена надёжнее тела ответа
			if claims.Rol != "" {
				user.Rol = claims.Rol
			}
		}
		s.api.SetToken(envelope.Token)
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()

	s.logger.Info("Сессия открыта",
		slog.Int("id_user", user.IDUser),
		slog.String("rol", user.Rol),
	)
	return user, nil
}

// Verify проверяет сессию на сервере (/auth/verify) и обновляет
// текущего пользователя. Неуспех закрывает локальную сессию.
func (s *Session) Verify(ctx context.Context) (*model.User, error) {
	var raw json.RawMessage
	err := s.api.Get(ctx, "/auth/verify", nil, &raw)

	var envelope authResponse
	if err == nil {
		_ = json.Unmarshal(raw, &envelope)
	}

	if err != nil || !envelope.Success {
		s.mu.Lock()
		s.user = nil
		s.authenticated = false
		s.mu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("проверка сессии: %w", err)
		}
		return nil, ErrNotAuthenticated
	}

	user, err := decodeUser(raw, &envelope)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()
	return user, nil
}

// Logout завершает сессию на сервере и локально.
// Локальное состояние сбрасывается даже при сетевой ошибке.
func (s *Session) Logout(ctx context.Context) error {
	err := s.api.Post(ctx, "/auth/logout", nil, nil)

	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()
	s.api.SetToken("")

	if err != nil {
		return fmt.Errorf("выход: %w", err)
	}
	s.logger.Info("Сессия закрыта")
	return nil
}

// CurrentUser возвращает текущего пользователя (nil — сессии нет).
func (s *Session) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated сообщает, открыта ли сессия.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Authorize — единый guard: проверяет способность против политики.
// Публичные способности доступны без сессии; остальные требуют
// аутентификации и допущенной роли.
func (s *Session) Authorize(capability Capability) error {
	if s.policy.Public(capability) {
		return nil
	}

	s.mu.RLock()
	user := s.user
	authenticated := s.authenticated
	s.mu.RUnlock()

	if !authenticated || user == nil {
		return ErrNotAuthenticated
	}
	return s.policy.Allows(capability, user.Rol)
}
