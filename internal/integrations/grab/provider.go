package grab

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"pharma-pos/pkg/config"
)

// ProviderInterface — исходящие вызовы партнёрского API GrabMart.
// Ретраев здесь нет сознательно: cancel и mark — не идемпотентные вызовы,
// повторять их без dedupe-ключа нельзя.
type ProviderInterface interface {
	MarkOrderReady(ctx context.Context, grabOrderID string) error
	CheckCancellable(ctx context.Context, grabOrderID string) (*CancellableResponse, error)
	CancelOrder(ctx context.Context, grabOrderID, merchantID, cancelCode string) error
	ListMartCategories(ctx context.Context) (*CategoriesResponse, error)
}

// Provider — фасад партнёрского API Grab.
type Provider struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	logger       *zap.Logger

	// Кэш OAuth-токена (client credentials)
	token       string
	tokenExpiry time.Time
	tokenMutex  sync.RWMutex
}

func New(cfg config.GrabConfig, logger *zap.Logger) ProviderInterface {
	return &Provider{
		httpClient:   &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       logger.Named("grab_provider"),
	}
}
