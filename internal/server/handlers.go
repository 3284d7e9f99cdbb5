package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/rmaia/farmadelivery/internal/account/domain"
	catalogdomain "github.com/rmaia/farmadelivery/internal/catalog/domain"
	orderdomain "github.com/rmaia/farmadelivery/internal/order/domain"
)

type registerAccountRequest struct {
	Kind  string `json:"kind" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`

	Client *struct {
		Phone           string `json:"phone"`
		DeliveryAddress string `json:"delivery_address"`
	} `json:"client"`

	Establishment *struct {
		CNPJ              string `json:"cnpj"`
		DeliveryFee       int64  `json:"delivery_fee"`
		FreeDeliveryAbove int64  `json:"free_delivery_above"`
		PaymentTimeout    string `json:"payment_timeout"`
	} `json:"establishment"`
}

func (s *Server) registerAccount(c *gin.Context) {
	var req registerAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": err.Error()})
		return
	}

	acc := accountdomain.Account{
		Kind:  accountdomain.Kind(req.Kind),
		Name:  req.Name,
		Email: req.Email,
	}
	if req.Client != nil {
		acc.Client = &accountdomain.Client{
			Phone:           req.Client.Phone,
			DeliveryAddress: req.Client.DeliveryAddress,
		}
	}
	if req.Establishment != nil {
		est := &accountdomain.Establishment{
			CNPJ: req.Establishment.CNPJ,
			Fees: accountdomain.FeePolicy{
				DeliveryFeeAmount:       req.Establishment.DeliveryFee,
				FreeDeliveryAboveAmount: req.Establishment.FreeDeliveryAbove,
			},
		}
		if req.Establishment.PaymentTimeout != "" {
			d, err := time.ParseDuration(req.Establishment.PaymentTimeout)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": "invalid payment_timeout"})
				return
			}
			est.PaymentTimeout = d
		}
		acc.Establishment = est
	}

	created, err := s.deps.Accounts.Register(c.Request.Context(), acc)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) getAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	acc, err := s.deps.Accounts.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

type createEntryRequest struct {
	ProductID      int64  `json:"product_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Price          int64  `json:"price"`
	ReferencePrice *int64 `json:"reference_price"`
	Stock          int32  `json:"stock"`
}

func (s *Server) createEntry(c *gin.Context) {
	establishmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": err.Error()})
		return
	}

	entry, err := s.deps.Catalog.CreateEntry(c.Request.Context(), catalogdomain.Entry{
		EstablishmentID: establishmentID,
		ProductID:       req.ProductID,
		Name:            req.Name,
		PriceAmount:     req.Price,
		ReferenceAmount: req.ReferencePrice,
		Stock:           req.Stock,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) listEntries(c *gin.Context) {
	establishmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	cursor, _ := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)

	entries, next, err := s.deps.Catalog.ListEntries(c.Request.Context(), establishmentID, limit, cursor)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "next_cursor": next})
}

type changePriceRequest struct {
	Price int64 `json:"price" binding:"required"`
}

func (s *Server) changePrice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req changePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": err.Error()})
		return
	}

	entry, err := s.deps.Catalog.ChangePrice(c.Request.Context(), id, req.Price)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) getCart(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	cart, err := s.deps.Cart.GetOrCreate(c.Request.Context(), clientID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "subtotal": cart.SubtotalAmount()})
}

type addCartItemRequest struct {
	EntryID  int64 `json:"entry_id" binding:"required"`
	Quantity int32 `json:"quantity" binding:"required"`
}

func (s *Server) addCartItem(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": err.Error()})
		return
	}

	cart, err := s.deps.Cart.AddItem(c.Request.Context(), clientID, req.EntryID, req.Quantity)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "subtotal": cart.SubtotalAmount()})
}

type setQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

func (s *Server) setCartItemQuantity(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(c, "entryID")
	if !ok {
		return
	}
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": err.Error()})
		return
	}

	cart, err := s.deps.Cart.SetQuantity(c.Request.Context(), clientID, entryID, req.Quantity)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "subtotal": cart.SubtotalAmount()})
}

func (s *Server) removeCartItem(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(c, "entryID")
	if !ok {
		return
	}

	cart, err := s.deps.Cart.RemoveItem(c.Request.Context(), clientID, entryID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "subtotal": cart.SubtotalAmount()})
}

type checkoutRequest struct {
	PrescriptionIDs []int64 `json:"prescription_ids"`
}

func (s *Server) checkout(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req checkoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": err.Error()})
			return
		}
	}

	receipt, err := s.deps.Checkout.Checkout(c.Request.Context(), clientID, req.PrescriptionIDs)
	if err != nil {
		s.countCheckout("rejected")
		s.fail(c, err)
		return
	}
	s.countCheckout("ok")
	c.JSON(http.StatusCreated, receipt)
}

type paymentWebhookRequest struct {
	OrderID int64  `json:"order_id" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// paymentWebhook receives the gateway's asynchronous payment outcome.
// A redelivered webhook finds the order already transitioned and no-ops.
func (s *Server) paymentWebhook(c *gin.Context) {
	var req paymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": err.Error()})
		return
	}

	var (
		order orderdomain.Order
		err   error
	)
	switch req.Status {
	case "confirmed":
		order, err = s.deps.Orders.ConfirmPayment(c.Request.Context(), req.OrderID)
	case "failed", "cancelled":
		order, err = s.deps.Orders.Cancel(c.Request.Context(), req.OrderID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": "unknown payment status"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.countTransition(order.Status)
	c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "status": order.Status})
}

type deliveryWebhookRequest struct {
	OrderID int64  `json:"order_id" binding:"required"`
	Event   string `json:"event" binding:"required"`
}

func (s *Server) deliveryWebhook(c *gin.Context) {
	var req deliveryWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": err.Error()})
		return
	}

	var (
		order orderdomain.Order
		err   error
	)
	switch req.Event {
	case "dispatched":
		order, err = s.deps.Orders.Dispatch(c.Request.Context(), req.OrderID)
	case "delivered":
		order, err = s.deps.Orders.Deliver(c.Request.Context(), req.OrderID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "message": "unknown delivery event"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.countTransition(order.Status)
	c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "status": order.Status})
}

func (s *Server) listEstablishmentOrders(c *gin.Context) {
	establishmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	status := orderdomain.Status(c.Query("status"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	orders, err := s.deps.Orders.ListByEstablishment(c.Request.Context(), establishmentID, status, limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	now := time.Now().UTC()
	records := make([]orderdomain.DisplayRecord, 0, len(orders))
	for _, o := range orders {
		records = append(records, orderdomain.ToDisplayRecord(o, now))
	}
	c.JSON(http.StatusOK, gin.H{"orders": records})
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := s.deps.Orders.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) getOrderDisplay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := s.deps.Orders.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orderdomain.ToDisplayRecord(order, time.Now().UTC()))
}

func (s *Server) countCheckout(result string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.Checkouts.WithLabelValues(result).Inc()
	}
}

func (s *Server) countTransition(to orderdomain.Status) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.Transitions.WithLabelValues(string(to)).Inc()
	}
}
