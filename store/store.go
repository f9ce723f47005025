// Пакет store — клиентские хранилища сущностей репозитория.
// Каждое хранилище держит in-memory кэш списка своей коллекции,
// однократно загруженный с API, и мутирует его каноническими сущностями
// из ответов сервера (append / замена по id / удаление по id, без
// пересортировки). Межсущностная консистентность (например, удаление
// факультета, на который ссылаются специальности) клиентом не enforce'ится.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/bigkaa/tesisteca/client-module/apiclient"
)

// Endpoint — описание REST-коллекции сущности.
type Endpoint struct {
	// Path — путь коллекции (например, /categories)
	Path string
	// CollectionKey — ключ списка в JSON-конверте ответа (categories)
	CollectionKey string
	// ItemKey — ключ одиночной сущности в конверте (category)
	ItemKey string
}

// Store — обобщённое хранилище одной коллекции сущностей.
// Безопасно для конкурентного использования; логически конфликтующие
// операции (одновременные create/refresh) не сериализуются — побеждает
// последний пришедший ответ сервера.
type Store[T any] struct {
	api    *apiclient.Client
	ep     Endpoint
	idOf   func(*T) int
	logger *slog.Logger

	// loading — счётчик запросов в полёте (общий флаг на хранилище,
	// без пооперационной гранулярности и без дедупликации)
	loading atomic.Int32

	mu     sync.RWMutex
	items  []T
	loaded bool
}

// New создаёт хранилище коллекции ep.
// idOf извлекает идентификатор сущности (для замены/удаления в кэше).
func New[T any](api *apiclient.Client, ep Endpoint, idOf func(*T) int, logger *slog.Logger) *Store[T] {
	return &Store[T]{
		api:    api,
		ep:     ep,
		idOf:   idOf,
		logger: logger.With(slog.String("component", "store"), slog.String("collection", ep.CollectionKey)),
	}
}

// Loading сообщает, есть ли запрос хранилища в полёте.
func (s *Store[T]) Loading() bool {
	return s.loading.Load() > 0
}

// List возвращает кэшированный список; при холодном кэше или force
// загружает коллекцию с API и замещает кэш целиком.
// Сетевая ошибка НЕ возвращается: она логируется, а вызывающий получает
// текущий кэш (возможно пустой). Известный пробел исходного контракта,
// воспроизводится сознательно; типизированный доступ к ошибке — Refresh.
func (s *Store[T]) List(ctx context.Context, force bool) []T {
	s.mu.RLock()
	if s.loaded && !force {
		items := copySlice(s.items)
		s.mu.RUnlock()
		return items
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("Загрузка коллекции не удалась",
			slog.String("path", s.ep.Path),
			slog.String("error", err.Error()),
		)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.items)
}

// Refresh принудительно перечитывает коллекцию с API и замещает кэш.
func (s *Store[T]) Refresh(ctx context.Context) error {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	var raw json.RawMessage
	if err := s.api.Get(ctx, s.ep.Path, nil, &raw); err != nil {
		return fmt.Errorf("загрузка %s: %w", s.ep.Path, err)
	}

	items, err := decodeCollection[T](raw, s.ep.CollectionKey)
	if err != nil {
		return fmt.Errorf("декодирование %s: %w", s.ep.Path, err)
	}

	s.mu.Lock()
	s.items = items
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Invalidate сбрасывает кэш: следующий List перечитает коллекцию.
func (s *Store[T]) Invalidate() {
	s.mu.Lock()
	s.items = nil
	s.loaded = false
	s.mu.Unlock()
}

// Get возвращает сущность из кэша по id (линейный поиск).
func (s *Store[T]) Get(id int) (*T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if s.idOf(&s.items[i]) == id {
			item := s.items[i]
			return &item, true
		}
	}
	return nil, false
}

// Create отправляет форму создания и добавляет каноническую сущность
// из ответа сервера в конец кэша (кэш становится несортированным
// относительно сервера — пересортировка не выполняется).
func (s *Store[T]) Create(ctx context.Context, input any) (*T, error) {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	var raw json.RawMessage
	if err := s.api.Post(ctx, s.ep.Path, input, &raw); err != nil {
		return nil, fmt.Errorf("создание %s: %w", s.ep.ItemKey, err)
	}

	item, err := decodeItem[T](raw, s.ep.ItemKey)
	if err != nil {
		return nil, fmt.Errorf("декодирование созданной сущности %s: %w", s.ep.ItemKey, err)
	}

	s.mu.Lock()
	if s.loaded {
		s.items = append(s.items, *item)
	}
	s.mu.Unlock()
	return item, nil
}

// Update отправляет форму редактирования и замещает сущность в кэше по id.
func (s *Store[T]) Update(ctx context.Context, id int, input any) (*T, error) {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	var raw json.RawMessage
	if err := s.api.Put(ctx, fmt.Sprintf("%s/%d", s.ep.Path, id), input, &raw); err != nil {
		return nil, fmt.Errorf("обновление %s %d: %w", s.ep.ItemKey, id, err)
	}

	item, err := decodeItem[T](raw, s.ep.ItemKey)
	if err != nil {
		return nil, fmt.Errorf("декодирование обновлённой сущности %s: %w", s.ep.ItemKey, err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.idOf(&s.items[i]) == id {
			s.items[i] = *item
			break
		}
	}
	s.mu.Unlock()
	return item, nil
}

// Delete удаляет сущность на сервере и из кэша.
func (s *Store[T]) Delete(ctx context.Context, id int) error {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", s.ep.Path, id), nil); err != nil {
		return fmt.Errorf("удаление %s %d: %w", s.ep.ItemKey, id, err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.idOf(&s.items[i]) == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// --- Декодирование JSON-конвертов ---

// decodeCollection извлекает список из конверта {key: [...]}.
// Ответ без конверта (голый массив) тоже принимается.
func decodeCollection[T any](raw json.RawMessage, key string) ([]T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if inner, ok := envelope[key]; ok {
			var items []T
			if err := json.Unmarshal(inner, &items); err != nil {
				return nil, err
			}
			return items, nil
		}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// decodeItem извлекает сущность из конверта {key: {...}}.
// Ответ без конверта (голый объект) тоже принимается.
func decodeItem[T any](raw json.RawMessage, key string) (*T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if inner, ok := envelope[key]; ok {
			item := new(T)
			if err := json.Unmarshal(inner, item); err != nil {
				return nil, err
			}
			return item, nil
		}
	}

	item := new(T)
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, err
	}
	return item, nil
}

// copySlice возвращает копию среза (кэш не отдаётся наружу напрямую).
func copySlice[T any](src []T) []T {
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// queryBool — url.Values с одним булевым параметром.
func queryBool(key string, val bool) url.Values {
	q := url.Values{}
	if val {
		q.Set(key, "true")
	} else {
		q.Set(key, "false")
	}
	return q
}
