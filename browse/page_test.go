package browse

import (
	"testing"

	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

func TestPageCount(t *testing.T) {
	cases := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{"пусто — одна страница", 0, 8, 1},
		{"ровно одна страница", 8, 8, 1},
		{"неполный хвост", 9, 8, 2},
		{"несколько страниц", 25, 8, 4},
		{"нулевой размер страницы", 25, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PageCount(tc.total, tc.pageSize); got != tc.want {
				t.Errorf("PageCount(%d, %d) = %d, ожидали %d", tc.total, tc.pageSize, got, tc.want)
			}
		})
	}
}

func TestClampPage(t *testing.T) {
	if got := ClampPage(0, 3); got != 1 {
		t.Errorf("страница ниже первой должна ограничиваться единицей, получили %d", got)
	}
	if got := ClampPage(5, 3); got != 3 {
		t.Errorf("страница выше последней должна ограничиваться последней, получили %d", got)
	}
	if got := ClampPage(2, 3); got != 2 {
		t.Errorf("страница в диапазоне не должна меняться, получили %d", got)
	}
}

func TestPageSlicing(t *testing.T) {
	docs := make([]model.EnrichedDocument, 10)
	for i := range docs {
		docs[i].IDResource = i + 1
	}

	first := Page(docs, 1, 4)
	if len(first) != 4 || first[0].IDResource != 1 {
		t.Errorf("первая страница: %v", ids(first))
	}

	last := Page(docs, 3, 4)
	if len(last) != 2 || last[0].IDResource != 9 {
		t.Errorf("последняя неполная страница: %v", ids(last))
	}

	clamped := Page(docs, 99, 4)
	if len(clamped) != 2 {
		t.Errorf("запредельная страница ограничивается последней: %v", ids(clamped))
	}
}
