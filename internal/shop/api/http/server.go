package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"naikai-shop/internal/shop/api/http/handle"
	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/app/services"
	"naikai-shop/internal/xpkg/config"
	"naikai-shop/internal/xpkg/logger"
	"naikai-shop/internal/xpkg/tablestore"

	brokermessage "naikai-shop/internal/shop/adapter/broker_message"
	database "naikai-shop/internal/shop/adapter/db"
	"naikai-shop/internal/shop/adapter/statestore"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrServerClosed = errors.New("server closed")

type Server struct {
	mux        *http.ServeMux
	cfg        *config.Config
	srv        *http.Server
	shopParams *core.ShopParams
	mylog      logger.Logger
	db         tablestore.TableStore
	states     core.IStateStore
	mb         core.IPublisher
	ctx        context.Context
	appCtx     context.Context
	mu         sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, shopParams *core.ShopParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:        ctx,
		appCtx:     appCtx,
		cfg:        cfg,
		shopParams: shopParams,
		mylog:      mylog,
		mux:        http.NewServeMux(),
	}
}

// Run connects the backends, registers routes and starts listening.
// It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeDatabase(); err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}

	if err := s.initializeStateStore(); err != nil {
		mylog.Action("state_store_failed").Error("Failed to connect to state store", err)
		return err
	}

	if err := s.initializeRabbitMQ(); err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.shopParams.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With("port", s.shopParams.Port, "backend", s.shopParams.Backend).Info("server is running")
	return s.startHTTPServer()
}

// Handler is the instrumented route table.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.mux, "naikai-shop")
}

// Stop shuts the listener down and releases every backend connection.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	var errs []error
	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			errs = append(errs, fmt.Errorf("mb close: %w", err))
		}
	}

	if s.states != nil {
		if err := s.states.Close(); err != nil {
			s.mylog.Action("state_store_close_failed").Error("Failed to close state store", err)
			errs = append(errs, fmt.Errorf("state store close: %w", err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close database", err)
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeDatabase() error {
	if s.shopParams.Backend == core.BackendMemory {
		s.db = tablestore.NewProvisionedMemoryStore()
		s.mylog.Action("db_connected").Info("Using in-memory table store")
		return nil
	}

	db, err := tablestore.Start(s.appCtx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrDBConn, err)
	}
	s.db = db
	return nil
}

// initializeStateStore uses Redis when an address is configured and process
// memory otherwise.
func (s *Server) initializeStateStore() error {
	if s.cfg.Redis == nil || s.cfg.Redis.Addr == "" {
		s.states = statestore.NewMemoryStore(s.shopParams.StateTTL)
		return nil
	}

	states, err := statestore.NewRedisStore(s.appCtx, s.cfg.Redis, s.shopParams.StateTTL, s.mylog)
	if err != nil {
		return err
	}
	s.states = states
	return nil
}

// initializeRabbitMQ connects the order event publisher. Without a configured
// host, events are dropped.
func (s *Server) initializeRabbitMQ() error {
	if s.cfg.RMQ == nil || s.cfg.RMQ.Host == "" {
		s.mb = brokermessage.Nop{}
		s.mylog.Action("mb_disabled").Info("No message broker configured, order events are not published")
		return nil
	}

	mb, err := brokermessage.New(s.appCtx, s.cfg.RMQ, s.mylog)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrRMQConn, err)
	}
	s.mb = mb
	s.mylog.Action("mb_connected").Info("Successful message broker connection")
	return nil
}

// Configure wires repositories, services and handlers onto the mux.
func (s *Server) Configure() {
	productRepo := database.NewProductRepo(s.db)
	promotionRepo := database.NewPromotionRepo(s.db)
	orderRepo := database.NewOrderRepo(s.db)
	settingsRepo := database.NewSettingsRepo(s.db)

	catalog := services.NewCatalogService(productRepo, promotionRepo, s.mylog)
	catalog.Load(s.appCtx)

	storefront := services.NewStorefrontService(s.states, catalog, orderRepo, s.mb, s.mylog)
	admin := services.NewAdminService(s.states, catalog, orderRepo, productRepo, promotionRepo, settingsRepo, s.mb, s.mylog)

	catalogHandler := handle.NewCatalogHandler(catalog)
	clientHandler := handle.NewClientHandler(storefront, s.mylog)
	adminHandler := handle.NewAdminHandler(admin, s.mylog)

	s.mux.Handle("GET /health", handle.Health())
	s.mux.Handle("GET /catalog", catalogHandler.Catalog())

	s.mux.Handle("POST /clients", clientHandler.Create())
	s.mux.Handle("GET /clients/{id}", clientHandler.Get())
	s.mux.Handle("DELETE /clients/{id}", clientHandler.Delete())
	s.mux.Handle("POST /clients/{id}/navigate", clientHandler.Navigate())
	s.mux.Handle("POST /clients/{id}/back", clientHandler.Back())
	s.mux.Handle("POST /clients/{id}/tab", clientHandler.Tab())
	s.mux.Handle("POST /clients/{id}/login", clientHandler.Login())
	s.mux.Handle("POST /clients/{id}/register", clientHandler.Register())
	s.mux.Handle("POST /clients/{id}/auth-view", clientHandler.AuthView())
	s.mux.Handle("POST /clients/{id}/logout", clientHandler.Logout())
	s.mux.Handle("POST /clients/{id}/products/{pid}/select", clientHandler.SelectProduct())
	s.mux.Handle("POST /clients/{id}/cart/items", clientHandler.AddItem())
	s.mux.Handle("DELETE /clients/{id}/cart/items/{cartId}", clientHandler.RemoveItem())
	s.mux.Handle("POST /clients/{id}/cart/open", clientHandler.OpenCart())
	s.mux.Handle("POST /clients/{id}/checkout", clientHandler.Checkout())
	s.mux.Handle("POST /clients/{id}/orders", clientHandler.PlaceOrder())
	s.mux.Handle("GET /clients/{id}/orders", clientHandler.Orders())

	s.mux.Handle("GET /clients/{id}/admin/dataset", adminHandler.Dataset())
	s.mux.Handle("GET /clients/{id}/admin/dashboard", adminHandler.Dashboard())
	s.mux.Handle("POST /clients/{id}/admin/orders/{oid}/status", adminHandler.ChangeStatus())
	s.mux.Handle("POST /clients/{id}/admin/products", adminHandler.AddProduct())
	s.mux.Handle("DELETE /clients/{id}/admin/products/{pid}", adminHandler.DeleteProduct())
	s.mux.Handle("POST /clients/{id}/admin/promotions", adminHandler.AddPromotion())
	s.mux.Handle("DELETE /clients/{id}/admin/promotions/{pid}", adminHandler.DeletePromotion())
	s.mux.Handle("PUT /clients/{id}/admin/qr", adminHandler.UploadQR())
	s.mux.Handle("GET /clients/{id}/admin/connection", adminHandler.Connection())
	s.mux.Handle("GET /clients/{id}/admin/schema", adminHandler.Schema())
}
