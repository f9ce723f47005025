package browse

import "github.com/bigkaa/tesisteca/client-module/domain/model"

// PageCount возвращает число страниц для total элементов.
// Пустой результат — одна пустая страница, не ноль.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage ограничивает номер страницы диапазоном [1, pageCount].
// Сжатие результата фильтром не должно оставлять пользователя
// на несуществующей странице.
func ClampPage(page, pageCount int) int {
	if page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}

// Page возвращает срез документов для страницы page (нумерация с 1).
func Page(docs []model.EnrichedDocument, page, pageSize int) []model.EnrichedDocument {
	if pageSize <= 0 {
		return docs
	}
	page = ClampPage(page, PageCount(len(docs), pageSize))
	start := (page - 1) * pageSize
	if start >= len(docs) {
		return nil
	}
	end := start + pageSize
	if end > len(docs) {
		end = len(docs)
	}
	return docs[start:end]
}
