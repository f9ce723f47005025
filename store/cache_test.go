package store

import (
	"testing"
	"time"

	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

func cacheDoc(id int, title string) *model.EnrichedDocument {
	return &model.EnrichedDocument{
		Document:     model.Document{IDResource: id, Title: title},
		RelatedUsers: []int{},
	}
}

func TestDetailCacheSetGet(t *testing.T) {
	c := NewDetailCache(4, time.Minute)

	c.Set(1, cacheDoc(1, "Tesis A"))
	got, ok := c.Get(1)
	if !ok {
		t.Fatal("ожидали hit после Set")
	}
	if got.Title != "Tesis A" {
		t.Errorf("ожидали «Tesis A», получили %q", got.Title)
	}
	if _, ok := c.Get(2); ok {
		t.Error("неизвестный ключ должен давать miss")
	}
}

func TestDetailCacheTTLExpiry(t *testing.T) {
	c := NewDetailCache(4, 50*time.Millisecond)

	c.Set(1, cacheDoc(1, "Tesis A"))
	if _, ok := c.Get(1); !ok {
		t.Fatal("запись должна жить до истечения TTL")
	}

	time.Sleep(100 * time.Millisecond)
	if _, ok := c.Get(1); ok {
		t.Error("запись должна истечь по TTL")
	}
}

func TestDetailCacheEviction(t *testing.T) {
	c := NewDetailCache(2, time.Minute)

	c.Set(1, cacheDoc(1, "A"))
	c.Set(2, cacheDoc(2, "B"))
	c.Set(3, cacheDoc(3, "C"))

	if _, ok := c.Get(1); ok {
		t.Error("самая старая запись должна вытесняться при переполнении")
	}
	if _, ok := c.Get(3); !ok {
		t.Error("свежая запись должна оставаться в кэше")
	}
}

func TestDetailCacheDeleteAndPurge(t *testing.T) {
	c := NewDetailCache(4, time.Minute)

	c.Set(1, cacheDoc(1, "A"))
	c.Set(2, cacheDoc(2, "B"))

	c.Delete(1)
	if _, ok := c.Get(1); ok {
		t.Error("удалённая запись не должна находиться")
	}

	c.Purge()
	if _, ok := c.Get(2); ok {
		t.Error("после Purge кэш должен быть пуст")
	}
}
