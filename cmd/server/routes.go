package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/handlers"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	methodHandler   *handlers.PaymentMethodHandler
	makerHandler    *handlers.MakerHandler
	orderHandler    *handlers.OrderHandler
	oracleHandler   *handlers.OracleHandler
	treasuryHandler *handlers.TreasuryHandler
	assetHandler    *handlers.AssetHandler
	signatureAuth   gin.HandlerFunc
	jwtAuth         gin.HandlerFunc
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", d.authHandler.Login)
		}

		// Asset conventions (public)
		v1.GET("/assets/native", d.assetHandler.NativeAsset)

		// Payment method routes
		methods := v1.Group("/payment-methods")
		{
			methods.GET("", d.methodHandler.ListMethods)
			methods.GET("/:idx", d.methodHandler.GetMethod)
			methods.POST("", d.signatureAuth, d.methodHandler.AddMethod)
		}

		// Maker routes
		makers := v1.Group("/makers")
		{
			makers.GET("", d.makerHandler.ListMakers)
			makers.GET("/:id", d.makerHandler.GetMaker)
			makers.POST("", d.signatureAuth, d.makerHandler.Register)
		}

		// Order routes
		orders := v1.Group("/orders")
		{
			orders.GET("", d.orderHandler.ListOrders)
			orders.GET("/:id", d.orderHandler.GetOrder)
			orders.POST("", d.signatureAuth, middleware.IdempotencyMiddleware(), d.orderHandler.CreateOrder)
			orders.POST("/:id/confirm-payment", d.signatureAuth, d.orderHandler.ConfirmPayment)
			orders.POST("/:id/cancel", d.signatureAuth, d.orderHandler.CancelOrder)
		}

		// Oracle callback route, signature-authenticated: the bridge
		// checks the signer against the request's bound oracle address
		oracle := v1.Group("/oracle")
		oracle.Use(d.signatureAuth)
		{
			oracle.POST("/fulfillments", d.oracleHandler.Fulfill)
		}

		// Admin routes (JWT, owner role)
		admin := v1.Group("/admin")
		admin.Use(d.jwtAuth, middleware.RequireOwner())
		{
			admin.GET("/treasury/balance", d.treasuryHandler.FeeBalance)
			admin.POST("/treasury/withdraw", d.treasuryHandler.Withdraw)
			admin.POST("/oracle-requests/reissue", d.oracleHandler.Reissue)
		}
	}
}
