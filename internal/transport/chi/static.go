package chi

import (
	"net/http"
	"path"
)

const indexFile = "/index.html"

// SPAHandler serves files from dir. Paths that do not name a regular file get index.html
// so client-side routes resolve in the browser.
func SPAHandler(dir string) http.Handler {
	root := http.Dir(dir)
	files := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		if p != "/" && p != indexFile && isFile(root, p) {
			files.ServeHTTP(w, r)
			return
		}
		serveIndex(w, r, root)
	})
}

func isFile(root http.FileSystem, name string) bool {
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()
	st, err := f.Stat()
	return err == nil && !st.IsDir()
}

// serveIndex writes index.html directly; http.FileServer would redirect /index.html to /.
func serveIndex(w http.ResponseWriter, r *http.Request, root http.FileSystem) {
	f, err := root.Open(indexFile)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
		return
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
		return
	}
	http.ServeContent(w, r, "index.html", st.ModTime(), f)
}
