package di

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/bazaar-client/internal/api"
	"github.com/prohmpiriya/bazaar-client/internal/service"
	"github.com/prohmpiriya/bazaar-client/internal/session"
	"github.com/prohmpiriya/bazaar-client/internal/tokenstore"
	"github.com/prohmpiriya/bazaar-client/pkg/config"
	"github.com/prohmpiriya/bazaar-client/pkg/logger"
	"github.com/prohmpiriya/bazaar-client/pkg/redis"
	"go.uber.org/zap"
)

// Container holds all dependencies of the client
type Container struct {
	// Infrastructure
	Logger *logger.Logger
	Redis  *redis.Client // nil unless the redis token store is selected
	Store  tokenstore.Store
	API    *api.Client

	// Services
	AuthService         service.AuthService
	ProductService      service.ProductService
	CategoryService     service.CategoryService
	CartService         service.CartService
	OrderService        service.OrderService
	WishlistService     service.WishlistService
	ReviewService       service.ReviewService
	SellerService       service.SellerService
	SubscriptionService service.SubscriptionService
	AdminService        service.AdminService

	// Sessions
	Auth *session.Auth
	Cart *session.Cart
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config *config.Config
	Logger *logger.Logger
	// Store overrides the configured token store
	Store tokenstore.Store
	// APIOptions are passed through to api.New
	APIOptions []api.Option
}

// NewContainer wires the client. The sessions start in Initializing; call
// Auth.Restore before use.
func NewContainer(ctx context.Context, cfg *ContainerConfig) (*Container, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	c := &Container{Logger: cfg.Logger}
	if c.Logger == nil {
		c.Logger = logger.NewNop()
	}

	// Initialize token store
	c.Store = cfg.Store
	if c.Store == nil {
		store, err := c.newStore(ctx, cfg.Config)
		if err != nil {
			return nil, err
		}
		c.Store = store
	}

	// Initialize API client
	apiCfg := cfg.Config.API
	opts := append([]api.Option{api.WithLogger(c.Logger)}, cfg.APIOptions...)
	client, err := api.New(api.Config{
		BaseURL:       apiCfg.BaseURL,
		Timeout:       apiCfg.Timeout,
		RetryMax:      apiCfg.RetryMax,
		RetryInterval: apiCfg.RetryInterval,
		UserAgent:     cfg.Config.App.Name + "/" + cfg.Config.App.Version,
	}, c.Store, opts...)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.API = client

	// Initialize services
	c.AuthService = service.NewAuthService(c.API)
	c.ProductService = service.NewProductService(c.API)
	c.CategoryService = service.NewCategoryService(c.API)
	c.CartService = service.NewCartService(c.API)
	c.OrderService = service.NewOrderService(c.API)
	c.WishlistService = service.NewWishlistService(c.API)
	c.ReviewService = service.NewReviewService(c.API)
	c.SellerService = service.NewSellerService(c.API)
	c.SubscriptionService = service.NewSubscriptionService(c.API)
	c.AdminService = service.NewAdminService(c.API)

	// Initialize sessions
	c.Auth = session.NewAuth(c.AuthService, c.Store, c.Logger)
	c.Cart = session.NewCart(c.CartService, c.Auth, c.Logger)

	// A 401 anywhere ends the session
	c.API.OnUnauthorized(c.Auth.Invalidate)

	return c, nil
}

func (c *Container) newStore(ctx context.Context, cfg *config.Config) (tokenstore.Store, error) {
	switch cfg.TokenStore.Backend {
	case config.TokenStoreMemory:
		return tokenstore.NewMemoryStore(), nil
	case config.TokenStoreRedis:
		client, err := redis.NewClient(ctx, &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			DialTimeout:   cfg.Redis.DialTimeout,
			MaxRetries:    redis.DefaultConfig().MaxRetries,
			RetryInterval: redis.DefaultConfig().RetryInterval,
		})
		if err != nil {
			return nil, fmt.Errorf("token store: %w", err)
		}
		c.Redis = client
		return tokenstore.NewRedisStore(client, cfg.Redis.KeyPrefix, c.Logger), nil
	default:
		key, err := cfg.TokenStore.Key()
		if err != nil {
			return nil, err
		}
		return tokenstore.NewFileStore(cfg.TokenStore.File, key, c.Logger), nil
	}
}

// Close releases infrastructure connections
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("close redis", zap.Error(err))
		}
		c.Redis = nil
	}
}
