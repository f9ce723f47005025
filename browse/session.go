package browse

import (
	"context"
	"sort"
	"sync"

	"github.com/bigkaa/tesisteca/client-module/domain/model"
	"github.com/bigkaa/tesisteca/client-module/store"
)

// Session — состояние одного сеанса просмотра каталога: выбранные
// фильтры, строка поиска и текущая страница. Смена фильтров или поиска
// возвращает на первую страницу. Безопасна для конкурентного
// использования.
type Session struct {
	docs     *store.DocumentStore
	students *store.Store[model.Student]
	careers  *store.Store[model.Career]
	users    *store.Store[model.User]

	pageSize int
	opts     Options

	mu          sync.Mutex
	filters     Filters
	term        string
	page        int
	includeFile bool
}

// View — результат пересборки каталога для текущего состояния сеанса.
type View struct {
	// Documents — документы текущей страницы
	Documents []model.EnrichedDocument
	// Page — номер страницы после возможного ограничения
	Page int
	// PageCount — всего страниц для отфильтрованного результата
	PageCount int
	// Total — всего документов после фильтров и поиска
	Total int
}

// NewSession создаёт сеанс просмотра поверх хранилищ.
// pageSize и opts приходят из конфигурации (TC_PAGE_SIZE,
// TC_CAREER_FILTER_MODE, TC_PUBLIC_ACTIVE_ONLY).
func NewSession(docs *store.DocumentStore, students *store.Store[model.Student], careers *store.Store[model.Career], users *store.Store[model.User], pageSize int, opts Options) *Session {
	return &Session{
		docs:     docs,
		students: students,
		careers:  careers,
		users:    users,
		pageSize: pageSize,
		opts:     opts,
		page:     1,
	}
}

// SetFilters заменяет выбранные фильтры и возвращает на первую страницу.
func (s *Session) SetFilters(f Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
	s.page = 1
}

// SetSearch заменяет строку поиска и возвращает на первую страницу.
func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term = term
	s.page = 1
}

// SetPage переходит на страницу page. Выход за границы корректируется
// при следующем View.
func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

// SetIncludeFile управляет запросом содержимого файла при загрузке списка.
func (s *Session) SetIncludeFile(include bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.includeFile = include
}

// Filters возвращает текущие фильтры сеанса.
func (s *Session) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// View пересобирает каталог: загружает документы и справочники
// (кэшированные списки, сетевые ошибки уже поглощены хранилищами),
// применяет фильтры и поиск, ограничивает страницу и режет результат.
func (s *Session) View(ctx context.Context) View {
	s.mu.Lock()
	filters := s.filters
	term := s.term
	page := s.page
	includeFile := s.includeFile
	s.mu.Unlock()

	docs := s.docs.List(ctx, false, includeFile)
	students := s.students.List(ctx, false)
	careers := s.careers.List(ctx, false)
	users := s.users.List(ctx, false)

	filtered := Apply(docs, students, careers, users, filters, term, s.opts)

	pageCount := PageCount(len(filtered), s.pageSize)
	page = ClampPage(page, pageCount)

	s.mu.Lock()
	s.page = page
	s.mu.Unlock()

	return View{
		Documents: Page(filtered, page, s.pageSize),
		Page:      page,
		PageCount: pageCount,
		Total:     len(filtered),
	}
}

// Years возвращает отсортированные по убыванию годы публикации
// загруженных документов — источник опций фильтра по году.
func (s *Session) Years(ctx context.Context) []int {
	s.mu.Lock()
	includeFile := s.includeFile
	s.mu.Unlock()

	docs := s.docs.List(ctx, false, includeFile)
	seen := make(map[int]bool, len(docs))
	var years []int
	for i := range docs {
		y := docs[i].Year()
		if y == 0 || seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
