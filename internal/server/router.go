package server

import (
	"net/http"

	"gorm.io/gorm"

	"contabilitate/internal/handlers"
	"contabilitate/internal/httpx"
	"contabilitate/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok", "service": "contabilitate-api"})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.HandleFunc("/db-test", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1)
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]any{"db": "unreachable"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"db": "connected"})
	})

	svc := services.NewLedger(db)

	ch := handlers.NewCompanyHandler(db, svc)
	mux.HandleFunc("/companies", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ch.List(w, r)
		case http.MethodPost:
			ch.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.HandleFunc("/companies/delete", requirePost(ch.Delete))

	cuh := handlers.NewCustomerHandler(db, svc)
	mux.HandleFunc("/customers", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cuh.List(w, r)
		case http.MethodPost:
			cuh.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.HandleFunc("/customers/delete", requirePost(cuh.Delete))

	ih := handlers.NewInvoiceHandler(db, svc)
	mux.HandleFunc("/invoices", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ih.List(w, r)
		case http.MethodPost:
			ih.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.HandleFunc("/invoices/get", ih.Get)
	mux.HandleFunc("/invoices/delete", requirePost(ih.Delete))
	mux.HandleFunc("/invoices/lines", requirePost(ih.AddLine))
	mux.HandleFunc("/invoices/lines/delete", requirePost(ih.DeleteLine))

	return withCORS(mux)
}

func requirePost(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		next(w, r)
	}
}

// withCORS allows any origin for now; restrict to the web domain in production.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
