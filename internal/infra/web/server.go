package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/infra/metrics"
	"fieldsales-backend/internal/usecase"
)

type Server struct {
	activationUC usecase.ActivationUseCase
	provisionUC  usecase.ProvisionUseCase
	userUC       usecase.UserUseCase
	branchUC     usecase.BranchUseCase
	storeUC      usecase.StoreUseCase
	productUC    usecase.ProductUseCase
	inventoryUC  usecase.InventoryUseCase
	orderUC      usecase.OrderUseCase
	categoryUC   usecase.CategoryUseCase
	companyUC    usecase.CompanyUseCase
	auth         *AuthManager
	log          *zerolog.Logger
}

func NewServer(
	activationUC usecase.ActivationUseCase,
	provisionUC usecase.ProvisionUseCase,
	userUC usecase.UserUseCase,
	branchUC usecase.BranchUseCase,
	storeUC usecase.StoreUseCase,
	productUC usecase.ProductUseCase,
	inventoryUC usecase.InventoryUseCase,
	orderUC usecase.OrderUseCase,
	categoryUC usecase.CategoryUseCase,
	companyUC usecase.CompanyUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		activationUC: activationUC,
		provisionUC:  provisionUC,
		userUC:       userUC,
		branchUC:     branchUC,
		storeUC:      storeUC,
		productUC:    productUC,
		inventoryUC:  inventoryUC,
		orderUC:      orderUC,
		categoryUC:   categoryUC,
		companyUC:    companyUC,
		auth:         auth,
		log:          logger,
	}
}

// Routes builds the full API router.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/activate", s.handleActivate)

		// Any authenticated caller.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/auth/mark-connected", s.handleMarkConnected)
			r.Get("/products", s.handleProductList)
			r.Get("/products/{id}", s.handleProductGet)
			r.Get("/stores", s.handleStoreList)
			r.Get("/stores/{id}", s.handleStoreGet)
			r.Get("/categories", s.handleCategoryList)
			r.Get("/company", s.handleCompanyGet)
		})

		// Collector order taking.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth, s.requireRole(model.RoleCollector, model.RoleAdmin))
			r.Post("/orders", s.handleOrderCreate)
			r.Get("/orders", s.handleOrderList)
			r.Get("/orders/{id}", s.handleOrderGet)
		})

		// Admin back office.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth, s.requireRole(model.RoleAdmin))

			r.Get("/users", s.handleUserList)
			r.Get("/users/{id}", s.handleUserGet)
			r.Patch("/users/{id}", s.handleUserUpdate)

			r.Post("/collectors", s.handleCollectorCreate)
			r.Post("/collectors/{id}/activation-code", s.handleCodeRegenerate)
			r.Get("/collectors/{id}/activation-code", s.handleCodeCurrent)

			r.Get("/branches", s.handleBranchList)
			r.Post("/branches", s.handleBranchCreate)
			r.Get("/branches/{id}", s.handleBranchGet)
			r.Patch("/branches/{id}", s.handleBranchUpdate)
			r.Delete("/branches/{id}", s.handleBranchDelete)

			r.Post("/stores", s.handleStoreCreate)
			r.Patch("/stores/{id}", s.handleStoreUpdate)

			r.Post("/products", s.handleProductCreate)
			r.Patch("/products/{id}", s.handleProductUpdate)

			r.Post("/categories", s.handleCategoryCreate)
			r.Patch("/categories/{id}", s.handleCategoryUpdate)
			r.Delete("/categories/{id}", s.handleCategoryDelete)

			r.Patch("/company", s.handleCompanyUpdate)

			r.Post("/inventory/{productID}/adjust", s.handleInventoryAdjust)
			r.Get("/inventory/{productID}/history", s.handleInventoryHistory)

			r.Patch("/orders/{id}/status", s.handleOrderStatus)
		})
	})

	return r
}

// observe records the request duration against the matched route pattern,
// not the raw path, to keep label cardinality bounded.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(route, r.Method, strconv.Itoa(ww.Status()), time.Since(start))
		s.log.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		// Visibility tracking rides along on every authenticated call.
		s.userUC.TouchLastSeen(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func (s *Server) requireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFrom(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}
