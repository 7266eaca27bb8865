package routes

import (
	"log/slog"
	"strconv"
	"time"

	"foodbridge-api-server/internal/api/handlers"
	"foodbridge-api-server/internal/api/middleware"
	"foodbridge-api-server/internal/maps"
	"foodbridge-api-server/internal/observability"
	"foodbridge-api-server/internal/s3"
	"foodbridge-api-server/internal/socket"
	"foodbridge-api-server/internal/store"
	"foodbridge-api-server/internal/workflow"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stores bundles the entity repositories handed to the router.
type Stores struct {
	Listings      store.ListingStore
	Collections   store.CollectionStore
	Notifications store.NotificationStore
	Users         store.UserStore
}

// SetupRouter wires handlers, middleware, and route groups.
func SetupRouter(
	stores Stores,
	wf *workflow.Service,
	mapsClient *maps.Client,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware())
	router.Use(cors.Default())

	userHandler := &handlers.UserHandler{Users: stores.Users, Maps: mapsClient, TokenTTL: tokenTTL}
	listingHandler := &handlers.ListingHandler{Listings: stores.Listings, Users: stores.Users, Workflow: wf, Maps: mapsClient}
	collectionHandler := &handlers.CollectionHandler{Collections: stores.Collections, Workflow: wf, S3Uploader: s3Uploader}
	notificationHandler := &handlers.NotificationHandler{Notifications: stores.Notifications}
	adminHandler := &handlers.AdminHandler{Users: stores.Users, Listings: stores.Listings}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub, Logger: logger}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
		}

		// Everything below requires a valid session.
		authed := apiV1.Group("/")
		authed.Use(middleware.Authenticate())
		{
			users := authed.Group("/users")
			{
				users.GET("/me", userHandler.GetMe)
				users.PUT("/me", userHandler.UpdateMe)
				users.PUT("/me/profile", userHandler.CompleteProfile)
			}

			listings := authed.Group("/listings")
			{
				listings.GET("/", listingHandler.ListListings)
				listings.GET("/:id", listingHandler.GetListing)
				listings.GET("/:id/distance", listingHandler.GetListingDistance)

				hotelOnly := listings.Group("/")
				hotelOnly.Use(middleware.Authorize("hotel"))
				{
					hotelOnly.POST("/", listingHandler.CreateListing)
					hotelOnly.GET("/mine", listingHandler.ListMyListings)
					hotelOnly.PUT("/:id", listingHandler.UpdateListing)
					hotelOnly.DELETE("/:id", listingHandler.DeleteListing)
				}

				claimants := listings.Group("/")
				claimants.Use(middleware.Authorize("ngo", "volunteer"))
				{
					claimants.POST("/:id/claim", listingHandler.ClaimListing)
				}
			}

			collections := authed.Group("/collections")
			{
				collections.GET("/", collectionHandler.ListMyCollections)
				collections.GET("/:id", collectionHandler.GetCollection)
				collections.POST("/:id/cancel", collectionHandler.CancelCollection)

				claimantActions := collections.Group("/")
				claimantActions.Use(middleware.Authorize("ngo", "volunteer"))
				{
					claimantActions.POST("/:id/pickup", collectionHandler.ConfirmPickup)
					claimantActions.POST("/:id/deliver", collectionHandler.ConfirmDelivery)
				}
			}

			notifications := authed.Group("/notifications")
			{
				notifications.GET("/", notificationHandler.ListNotifications)
				notifications.POST("/:id/read", notificationHandler.MarkRead)
				notifications.DELETE("/:id", notificationHandler.DeleteNotification)
			}

			admin := authed.Group("/admin")
			admin.Use(middleware.Authorize("admin"))
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.GET("/stats", adminHandler.GetStats)
			}
		}
	}

	return router
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := strconv.Itoa(c.Writer.Status())
		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
