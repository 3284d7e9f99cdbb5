package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	accountapp "github.com/rmaia/farmadelivery/internal/account/app"
	cartapp "github.com/rmaia/farmadelivery/internal/cart/app"
	catalogapp "github.com/rmaia/farmadelivery/internal/catalog/app"
	checkoutapp "github.com/rmaia/farmadelivery/internal/checkout/app"
	orderapp "github.com/rmaia/farmadelivery/internal/order/app"
	"github.com/rmaia/farmadelivery/pkg/metrics"
)

type Deps struct {
	Accounts *accountapp.Service
	Catalog  *catalogapp.Service
	Cart     *cartapp.Service
	Checkout *checkoutapp.Service
	Orders   *orderapp.Service
	Metrics  *metrics.Metrics
	Log      *slog.Logger
}

type Server struct {
	deps   Deps
	engine *gin.Engine
}

func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{deps: deps, engine: engine}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := s.engine.Group("/v1")
	v1.Use(s.measure())

	v1.POST("/accounts", s.registerAccount)
	v1.GET("/accounts/:id", s.getAccount)

	v1.POST("/establishments/:id/entries", s.createEntry)
	v1.GET("/establishments/:id/entries", s.listEntries)
	v1.PATCH("/entries/:id/price", s.changePrice)

	v1.GET("/clients/:id/cart", s.getCart)
	v1.POST("/clients/:id/cart/items", s.addCartItem)
	v1.PATCH("/clients/:id/cart/items/:entryID", s.setCartItemQuantity)
	v1.DELETE("/clients/:id/cart/items/:entryID", s.removeCartItem)
	v1.POST("/clients/:id/checkout", s.checkout)

	v1.POST("/webhooks/payment", s.paymentWebhook)
	v1.POST("/webhooks/delivery", s.deliveryWebhook)

	v1.GET("/establishments/:id/orders", s.listEstablishmentOrders)
	v1.GET("/orders/:id", s.getOrder)
	v1.GET("/orders/:id/display", s.getOrderDisplay)
}

// measure records request counts and latency per route.
func (s *Server) measure() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.deps.Metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		s.deps.Metrics.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		s.deps.Metrics.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status, code := httpStatusFromErr(err)
	if status >= http.StatusInternalServerError {
		s.deps.Log.Error("request failed", slog.Any("err", err), slog.String("path", c.FullPath()))
	}
	c.JSON(status, gin.H{"code": code, "message": err.Error()})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": "invalid id in path"})
		return 0, false
	}
	return id, true
}
