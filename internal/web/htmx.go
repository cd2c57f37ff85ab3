package web

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/dusk-indust/usercrud/internal/web/views"
)

// HTMXRequestHeader is the request header htmx sets on its requests.
const HTMXRequestHeader = "HX-Request"

// IsHTMXRequest reports whether the request was initiated by htmx.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(HTMXRequestHeader), "true")
}

// renderView writes the main fragment for htmx requests and the full page
// otherwise.
func renderView(w http.ResponseWriter, r *http.Request, status int, view views.PageView) {
	var component templ.Component
	if IsHTMXRequest(r) {
		component = views.Main(view)
	} else {
		component = views.Page(view)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if IsHTMXRequest(r) && status >= 400 {
		// htmx does not swap 4xx/5xx bodies; the alert is in the fragment.
		w.Header().Set("X-Usercrud-Status", strconv.Itoa(status))
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		log.Printf("web: render %s: %v", r.URL.Path, err)
	}
}
