// documents.go — хранилище документов.
// Поверх обобщённого контракта хранилища: обогащение списка документов
// связями resource-user (предвычисленный RelationIndex), LRU-кэш деталей
// с TTL, создание документа как явная сага с компенсацией, условный
// multipart при редактировании, enable/disable с полной перезагрузкой
// списка (простота и консистентность обогащения важнее латентности).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/tesisteca/client-module/apiclient"
	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

// Ошибки хранилища документов.
var (
	// ErrNotFound — документ не найден ни в кэше, ни на сервере.
	ErrNotFound = errors.New("документ не найден")
)

// Метрики саги создания документа.
var (
	createSagaTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tc_document_create_saga_total",
		Help: "Исходы саги создания документа (committed, compensated, compensation_failed).",
	}, []string{"outcome"})
)

// DocumentStore — хранилище документов и их связей с людьми.
// Безопасно для конкурентного использования; конфликтующие операции не
// сериализуются — кэш получает последний пришедший ответ сервера.
type DocumentStore struct {
	api    *apiclient.Client
	detail *DetailCache
	logger *slog.Logger

	loading atomic.Int32

	mu        sync.RWMutex
	docs      []model.EnrichedDocument
	relations []model.Relation
	index     RelationIndex
	loaded    bool
	// includeFile последней загрузки — используется фоновыми перезагрузками
	lastIncludeFile bool
}

// NewDocuments создаёт хранилище документов.
// cacheSize и cacheTTL задают LRU-кэш деталей (TC_CACHE_SIZE, TC_CACHE_TTL).
func NewDocuments(api *apiclient.Client, cacheSize int, cacheTTL time.Duration, logger *slog.Logger) *DocumentStore {
	return &DocumentStore{
		api:    api,
		detail: NewDetailCache(cacheSize, cacheTTL),
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Loading сообщает, есть ли запрос хранилища в полёте.
func (s *DocumentStore) Loading() bool {
	return s.loading.Load() > 0
}

// List возвращает обогащённый список документов.
// Холодный кэш или force загружает /resources и полный список связей
// /resource-user/ одной логической операцией и обогащает каждый документ
// полем RelatedUsers через предвычисленный индекс. Сетевая ошибка
// логируется, вызывающий получает текущий кэш (возможно пустой).
func (s *DocumentStore) List(ctx context.Context, force, includeFile bool) []model.EnrichedDocument {
	s.mu.RLock()
	if s.loaded && !force {
		docs := copySlice(s.docs)
		s.mu.RUnlock()
		return docs
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx, includeFile); err != nil {
		s.logger.Error("Загрузка списка документов не удалась",
			slog.String("error", err.Error()),
		)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.docs)
}

// Refresh принудительно перечитывает документы и связи и перестраивает
// обогащение.
func (s *DocumentStore) Refresh(ctx context.Context, includeFile bool) error {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	docs, err := s.fetchDocuments(ctx, "/resources", includeFile)
	if err != nil {
		return err
	}

	relations, err := s.fetchRelations(ctx)
	if err != nil {
		return err
	}

	index := NewRelationIndex(relations)

	s.mu.Lock()
	s.docs = enrich(docs, index)
	s.relations = relations
	s.index = index
	s.loaded = true
	s.lastIncludeFile = includeFile
	s.mu.Unlock()
	return nil
}

// ByUser возвращает обогащённые документы, связанные с пользователем
// (scope — на сервере). Основной кэш списка не замещается.
func (s *DocumentStore) ByUser(ctx context.Context, idUser int, includeFile bool) ([]model.EnrichedDocument, error) {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	docs, err := s.fetchDocuments(ctx, fmt.Sprintf("/resource-user/user/%d", idUser), includeFile)
	if err != nil {
		return nil, fmt.Errorf("документы пользователя %d: %w", idUser, err)
	}

	index, err := s.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}
	return enrich(docs, index), nil
}

// GetOne возвращает один обогащённый документ.
// Порядок поиска: LRU-кэш деталей → загруженный список → сеть.
// Сетевой результат кэшируется (TTL кэша — настоящая инвалидация).
func (s *DocumentStore) GetOne(ctx context.Context, idResource int, includeFile bool) (*model.EnrichedDocument, error) {
	if doc, ok := s.detail.Get(idResource); ok {
		return doc, nil
	}

	s.mu.RLock()
	for i := range s.docs {
		if s.docs[i].IDResource == idResource {
			doc := s.docs[i]
			s.mu.RUnlock()
			s.detail.Set(idResource, &doc)
			return &doc, nil
		}
	}
	s.mu.RUnlock()

	s.loading.Add(1)
	defer s.loading.Add(-1)

	var raw json.RawMessage
	err := s.api.Get(ctx, fmt.Sprintf("/resources/%d", idResource), queryBool("includeFile", includeFile), &raw)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение документа %d: %w", idResource, err)
	}

	item, err := decodeItem[model.Document](raw, "resource")
	if err != nil {
		return nil, fmt.Errorf("декодирование документа %d: %w", idResource, err)
	}

	index, err := s.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}

	doc := &model.EnrichedDocument{
		Document:     *item,
		RelatedUsers: index.RelatedUsers(idResource),
	}
	s.detail.Set(idResource, doc)
	return doc, nil
}

// Create создаёт документ multipart-запросом (поля формы + файл + обложка).
// Связи с людьми создаёт вызывающий (или CreateWithRoles). Кэш списка
// помечается устаревшим: каноническое состояние придёт со следующим List.
func (s *DocumentStore) Create(ctx context.Context, input model.DocumentInput) (*model.Document, error) {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	var raw json.RawMessage
	err := s.api.PostMultipart(ctx, "/resources", documentFields(input), documentFiles(input), &raw)
	if err != nil {
		return nil, fmt.Errorf("создание документа: %w", err)
	}

	doc, err := decodeItem[model.Document](raw, "resource")
	if err != nil {
		return nil, fmt.Errorf("декодирование созданного документа: %w", err)
	}

	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
	return doc, nil
}

// CreateWithRoles — сага создания документа с назначением людей.
//
// Шаги:
//  1. Создать документ (multipart).
//  2. Создать связи resource-user для выбранных людей КОНКУРЕНТНО
//     и дождаться завершения всех (не fail-fast: важен итог каждой).
//  3. При любой неудаче — компенсация: DELETE /resources/{id}
//     (частично связанный документ не должен пережить сагу).
//  4. При успехе кэш списка остаётся помеченным устаревшим (шаг 1):
//     следующий List перечитает документы и связи целиком.
func (s *DocumentStore) CreateWithRoles(ctx context.Context, input model.DocumentInput, sel model.RoleSelection) (*model.Document, error) {
	doc, err := s.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	ids := sel.UserIDs()
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, idUser := range ids {
		wg.Add(1)
		go func(i, idUser int) {
			defer wg.Done()
			body := model.Relation{IDUser: idUser, IDResource: doc.IDResource}
			if err := s.api.Post(ctx, "/resource-user", body, nil); err != nil {
				errs[i] = fmt.Errorf("связь с пользователем %d: %w", idUser, err)
			}
		}(i, idUser)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("Создание связей не удалось, компенсируем документ",
			slog.Int("id_resource", doc.IDResource),
			slog.String("error", err.Error()),
		)
		if compErr := s.api.Delete(ctx, fmt.Sprintf("/resources/%d", doc.IDResource), nil); compErr != nil {
			createSagaTotal.WithLabelValues("compensation_failed").Inc()
			s.logger.Error("Компенсация не удалась: документ остался без полного состава ролей",
				slog.Int("id_resource", doc.IDResource),
				slog.String("error", compErr.Error()),
			)
			return nil, errors.Join(err, fmt.Errorf("компенсация документа %d: %w", doc.IDResource, compErr))
		}
		createSagaTotal.WithLabelValues("compensated").Inc()
		return nil, fmt.Errorf("создание документа %d откачено: %w", doc.IDResource, err)
	}

	createSagaTotal.WithLabelValues("committed").Inc()
	return doc, nil
}

// Update редактирует документ.
// Если форма несёт файл и/или обложку — multipart PUT, иначе plain JSON.
// Каноническая сущность из ответа замещает кэшированную по id, после чего
// выполняется полная перезагрузка списка (обогащение пересчитывается
// целиком — сознательный размен латентности на консистентность).
func (s *DocumentStore) Update(ctx context.Context, input model.DocumentInput) (*model.Document, error) {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	path := fmt.Sprintf("/resources/%d", input.IDResource)
	var raw json.RawMessage
	var err error
	if input.File != nil || input.Image != nil {
		err = s.api.PutMultipart(ctx, path, documentFields(input), documentFiles(input), &raw)
	} else {
		err = s.api.Put(ctx, path, input, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("обновление документа %d: %w", input.IDResource, err)
	}

	doc, err := decodeItem[model.Document](raw, "resource")
	if err != nil {
		return nil, fmt.Errorf("декодирование обновлённого документа: %w", err)
	}

	s.mu.Lock()
	for i := range s.docs {
		if s.docs[i].IDResource == doc.IDResource {
			related := s.docs[i].RelatedUsers
			s.docs[i] = model.EnrichedDocument{Document: *doc, RelatedUsers: related}
			break
		}
	}
	s.mu.Unlock()

	s.detail.Delete(doc.IDResource)
	s.refreshAfterWrite(ctx)
	return doc, nil
}

// Disable переводит документ в состояние «отключён» (soft-delete).
func (s *DocumentStore) Disable(ctx context.Context, idResource int) error {
	return s.toggle(ctx, idResource, "disable")
}

// Enable возвращает документ в состояние «активен».
func (s *DocumentStore) Enable(ctx context.Context, idResource int) error {
	return s.toggle(ctx, idResource, "enable")
}

// toggle — общий PATCH enable/disable с инвалидацией и перезагрузкой.
// Других переходов у документа нет: Active ⇄ Disabled.
func (s *DocumentStore) toggle(ctx context.Context, idResource int, action string) error {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	if err := s.api.Patch(ctx, fmt.Sprintf("/resources/%d/%s", idResource, action), nil, nil); err != nil {
		return fmt.Errorf("%s документа %d: %w", action, idResource, err)
	}

	s.detail.Delete(idResource)
	s.refreshAfterWrite(ctx)
	return nil
}

// Relations возвращает копию загруженного списка связей.
func (s *DocumentStore) Relations() []model.Relation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.relations)
}

// Roles разбирает роли документа по загруженному индексу связей.
func (s *DocumentStore) Roles(idResource int, users []model.User) model.DocumentRoles {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()
	return ResolveRoles(idResource, index, users)
}

// Invalidate сбрасывает кэш списка и кэш деталей.
func (s *DocumentStore) Invalidate() {
	s.mu.Lock()
	s.docs = nil
	s.relations = nil
	s.index = nil
	s.loaded = false
	s.mu.Unlock()
	s.detail.Purge()
}

// --- Внутреннее ---

// refreshAfterWrite перечитывает список после мутации.
// Ошибка перезагрузки не валит операцию записи — она уже применена
// сервером; кэш остаётся устаревшим и будет перечитан следующим List.
func (s *DocumentStore) refreshAfterWrite(ctx context.Context) {
	s.mu.RLock()
	includeFile := s.lastIncludeFile
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		return
	}
	if err := s.Refresh(ctx, includeFile); err != nil {
		s.logger.Warn("Перезагрузка списка после записи не удалась",
			slog.String("error", err.Error()),
		)
		s.mu.Lock()
		s.loaded = false
		s.mu.Unlock()
	}
}

// fetchDocuments загружает коллекцию документов по указанному пути.
func (s *DocumentStore) fetchDocuments(ctx context.Context, path string, includeFile bool) ([]model.Document, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, path, queryBool("includeFile", includeFile), &raw); err != nil {
		return nil, fmt.Errorf("загрузка %s: %w", path, err)
	}
	docs, err := decodeCollection[model.Document](raw, "resources")
	if err != nil {
		return nil, fmt.Errorf("декодирование %s: %w", path, err)
	}
	return docs, nil
}

// fetchRelations загружает полный список связей resource-user.
func (s *DocumentStore) fetchRelations(ctx context.Context) ([]model.Relation, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, "/resource-user/", nil, &raw); err != nil {
		return nil, fmt.Errorf("загрузка связей: %w", err)
	}
	relations, err := decodeCollection[model.Relation](raw, "resourceUsers")
	if err != nil {
		return nil, fmt.Errorf("декодирование связей: %w", err)
	}
	return relations, nil
}

// ensureIndex возвращает индекс связей, при необходимости загружая их.
func (s *DocumentStore) ensureIndex(ctx context.Context) (RelationIndex, error) {
	s.mu.RLock()
	if s.index != nil {
		index := s.index
		s.mu.RUnlock()
		return index, nil
	}
	s.mu.RUnlock()

	relations, err := s.fetchRelations(ctx)
	if err != nil {
		return nil, err
	}
	index := NewRelationIndex(relations)

	s.mu.Lock()
	s.relations = relations
	s.index = index
	s.mu.Unlock()
	return index, nil
}

// enrich присоединяет к каждому документу idUser его связей.
// RelatedUsers никогда не nil.
func enrich(docs []model.Document, index RelationIndex) []model.EnrichedDocument {
	out := make([]model.EnrichedDocument, len(docs))
	for i, doc := range docs {
		out[i] = model.EnrichedDocument{
			Document:     doc,
			RelatedUsers: index.RelatedUsers(doc.IDResource),
		}
	}
	return out
}

// documentFields собирает текстовые поля multipart-формы документа.
func documentFields(input model.DocumentInput) []apiclient.FormField {
	return []apiclient.FormField{
		{Name: "title", Value: input.Title},
		{Name: "description", Value: input.Description},
		{Name: "datePublication", Value: input.DatePublication.String()},
		{Name: "isActive", Value: strconv.FormatBool(input.IsActive)},
		{Name: "idStudent", Value: strconv.Itoa(input.IDStudent)},
		{Name: "idCategory", Value: strconv.Itoa(input.IDCategory)},
	}
}

// documentFiles собирает файловые части multipart-формы документа.
func documentFiles(input model.DocumentInput) []apiclient.FilePart {
	var parts []apiclient.FilePart
	if input.File != nil {
		parts = append(parts, apiclient.FilePart{
			FieldName:   "file",
			Filename:    input.File.Filename,
			ContentType: input.File.ContentType,
			Reader:      input.File.Reader,
		})
	}
	if input.Image != nil {
		parts = append(parts, apiclient.FilePart{
			FieldName:   "image",
			Filename:    input.Image.Filename,
			ContentType: input.Image.ContentType,
			Reader:      input.Image.Reader,
		})
	}
	return parts
}
