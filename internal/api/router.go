package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kvadrat/estate_go_server/config"
	"github.com/kvadrat/estate_go_server/internal/api/handler"
	"github.com/kvadrat/estate_go_server/internal/api/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	adHandler           *handler.AdHandler
	subscriptionHandler *handler.SubscriptionHandler
	paymentHandler      *handler.PaymentHandler
	planHandler         *handler.PlanHandler
	websocketHandler    *handler.WebSocketHandler
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	adHandler *handler.AdHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	paymentHandler *handler.PaymentHandler,
	planHandler *handler.PlanHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		adHandler:           adHandler,
		subscriptionHandler: subscriptionHandler,
		paymentHandler:      paymentHandler,
		planHandler:         planHandler,
		websocketHandler:    websocketHandler,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket lifecycle feed
		api.GET("/ws", r.websocketHandler.Handle)

		// Public - auth
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// Public - plan catalog
		api.GET("/plans", r.planHandler.List)

		// Public - gateway callback; authenticated by signature at the
		// gateway boundary, not by a user token.
		api.POST("/payments/webhook", r.paymentHandler.Webhook)

		// Authenticated
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.GET("/auth/profile", r.authHandler.Profile)

			ads := authenticated.Group("/ads")
			{
				ads.POST("", r.adHandler.Create)
				ads.GET("", r.adHandler.List)
				ads.GET("/:id", r.adHandler.Get)
				ads.PUT("/:id", r.adHandler.Update)
				ads.DELETE("/:id", r.adHandler.Delete)
				ads.POST("/:id/transition", r.adHandler.Transition)
				ads.POST("/:id/restore", r.adHandler.Restore)
				ads.POST("/:id/photo", r.adHandler.UploadPhoto)
			}

			subscriptions := authenticated.Group("/subscriptions")
			{
				subscriptions.POST("", r.subscriptionHandler.Create)
				subscriptions.GET("", r.subscriptionHandler.List)
				subscriptions.GET("/current", r.subscriptionHandler.Current)
				subscriptions.POST("/:id/cancel", r.subscriptionHandler.Cancel)
			}

			payments := authenticated.Group("/payments")
			{
				payments.GET("", r.paymentHandler.List)
				payments.GET("/:id", r.paymentHandler.Get)
				payments.POST("/ad-unlock", r.paymentHandler.InitiateAdUnlock)
			}
		}
	}

	return engine
}
