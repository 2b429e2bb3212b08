package webassets

import "testing"

func TestEmbeddedAssets(t *testing.T) {
	files := []string{
		"index.html",
		"dashboard.html",
		"agentes.html",
		"login.html",
		"static/mc.css",
	}
	for _, name := range files {
		data, err := Files.ReadFile(name)
		if err != nil {
			t.Errorf("missing embedded asset %s: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("embedded asset %s is empty", name)
		}
	}
}
