// Пакет fileurl — достройка относительных путей файлов и обложек
// до полных URL. API возвращает filePath/imageUrl то относительными,
// то абсолютными; пути /files/... обслуживаются напрямую с origin,
// без API-префикса.
package fileurl

import (
	"net/url"
	"strings"
)

// Complete достраивает путь path до полного URL относительно baseURL
// (базовый URL API, может содержать префикс пути, например /api).
//
//   - пустой путь → пустая строка (нет файла);
//   - абсолютный http(s) URL возвращается как есть;
//   - /files/... присоединяется к origin (scheme://host) БЕЗ префикса
//     API — файловый endpoint живёт вне него;
//   - остальные пути присоединяются к baseURL ровно с одним слэшем.
func Complete(baseURL, path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	base := strings.TrimRight(baseURL, "/")

	if strings.HasPrefix(path, "/files/") {
		return origin(base) + path
	}

	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}

// origin возвращает scheme://host из baseURL, отбрасывая префикс пути.
// При неразборчивом URL возвращает baseURL как есть.
func origin(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return baseURL
	}
	return u.Scheme + "://" + u.Host
}
