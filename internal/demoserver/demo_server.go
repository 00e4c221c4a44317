package demoserver

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/nbdata/internal/table"
)

// DemoServer serves small fixed datasets so the fetch and export path can be
// exercised without a real data provider.
//
//	GET /ok             CSV quotes
//	GET /table          the same quotes as an HTML table
//	GET /echo           query parameters and headers echoed back as CSV
//	GET /status/{code}  an empty response with that status
//	GET /error          500
//	anything else       404
type DemoServer struct {
	cfg    Config
	quotes *table.Table
	router chi.Router
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	s := &DemoServer{
		cfg:    cfg,
		quotes: Quotes(),
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// Quotes is the dataset served by /ok and /table.
func Quotes() *table.Table {
	t := table.New("symbol", "close", "volume")
	_ = t.AddRow("ABC", 1.25, 1200)
	_ = t.AddRow("XYZ", 10.5, 300)
	_ = t.AddRow("DEF", 0.75, 0)
	return t
}

func (s *DemoServer) routes() {
	r := s.router
	r.Get("/ok", s.csvHandler)
	r.Get("/table", s.tableHandler)
	r.Get("/echo", s.echoHandler)
	r.Get("/status/{code}", s.statusHandler)
	r.Get("/error", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
}

// Handler returns the router, for use with httptest.
func (s *DemoServer) Handler() http.Handler {
	return s.router
}

// Start starts the demo server and blocks until it stops.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo server starting on http://localhost%s\n", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func writeCSV(w http.ResponseWriter, header []string, records [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	cw := csv.NewWriter(w)
	_ = cw.Write(header)
	_ = cw.WriteAll(records)
}

func (s *DemoServer) csvHandler(w http.ResponseWriter, r *http.Request) {
	writeCSV(w, s.quotes.Columns(), s.quotes.Records())
}

var tableTmpl = template.Must(template.New("table").Parse(`<!DOCTYPE html>
<html>
<head><title>Quotes</title></head>
<body>
<h1>Quotes</h1>
<table class="quotes">
  <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
{{- range .Rows}}
    <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
  </tbody>
</table>
</body>
</html>
`))

func (s *DemoServer) tableHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = tableTmpl.Execute(w, struct {
		Columns []string
		Rows    [][]string
	}{s.quotes.Columns(), s.quotes.Records()})
}

// echoHandler lists query parameters as "param" rows and request headers as
// "header" rows, sorted by key.
func (s *DemoServer) echoHandler(w http.ResponseWriter, r *http.Request) {
	var records [][]string
	for _, k := range sortedKeys(r.URL.Query()) {
		for _, v := range r.URL.Query()[k] {
			records = append(records, []string{"param", k, v})
		}
	}
	for _, k := range sortedKeys(r.Header) {
		for _, v := range r.Header[k] {
			records = append(records, []string{"header", k, v})
		}
	}
	writeCSV(w, []string{"kind", "key", "value"}, records)
}

func (s *DemoServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil || code < 100 || code > 599 {
		http.Error(w, "invalid status code", http.StatusBadRequest)
		return
	}
	w.WriteHeader(code)
}

func sortedKeys[M ~map[string][]string](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
