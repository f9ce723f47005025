package fileurl

import "testing"

// TestComplete проверяет достройку путей до полных URL.
func TestComplete(t *testing.T) {
	const base = "http://localhost:10000/api"

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "пустой путь",
			path: "",
			want: "",
		},
		{
			name: "абсолютный http URL не меняется",
			path: "http://cdn.example.com/doc.pdf",
			want: "http://cdn.example.com/doc.pdf",
		},
		{
			name: "абсолютный https URL не меняется",
			path: "https://cdn.example.com/cover.png",
			want: "https://cdn.example.com/cover.png",
		},
		{
			name: "путь /files/ идёт на origin без префикса API",
			path: "/files/tesis-42.pdf",
			want: "http://localhost:10000/files/tesis-42.pdf",
		},
		{
			name: "прочий абсолютный путь присоединяется к базе",
			path: "/covers/42.png",
			want: "http://localhost:10000/api/covers/42.png",
		},
		{
			name: "относительный путь получает один слэш",
			path: "covers/42.png",
			want: "http://localhost:10000/api/covers/42.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Complete(base, tt.path)
			if got != tt.want {
				t.Errorf("Complete(%q) = %q, ожидался %q", tt.path, got, tt.want)
			}
		})
	}
}

// TestComplete_TrailingSlash проверяет, что trailing slash базового URL
// не приводит к двойному слэшу.
func TestComplete_TrailingSlash(t *testing.T) {
	got := Complete("http://localhost:10000/api/", "/covers/1.png")
	want := "http://localhost:10000/api/covers/1.png"
	if got != want {
		t.Errorf("Complete = %q, ожидался %q", got, want)
	}
}
