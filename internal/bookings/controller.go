package bookings

import (
	"errors"
	"net/http"

	"theaterbook/internal/coupons"
	"theaterbook/internal/payments"
	"theaterbook/internal/shared/middleware"
	"theaterbook/internal/shared/utils/response"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service     Service
	coordinator *Coordinator
	window      *timewindow.Window
}

func NewController(service Service, coordinator *Coordinator, window *timewindow.Window) *Controller {
	return &Controller{service: service, coordinator: coordinator, window: window}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, timewindow.ErrInvalidDate),
		errors.Is(err, timewindow.ErrInvalidSlotDefinition),
		errors.Is(err, coupons.ErrCouponRejected),
		errors.Is(err, ErrPaymentVerificationFailed):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, theaters.ErrTheaterNotFound),
		errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, coupons.ErrCouponNotFound),
		errors.Is(err, payments.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSlotAlreadyBooked), errors.Is(err, ErrSlotUnavailable):
		return http.StatusConflict
	case errors.Is(err, payments.ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func caller(ctx *gin.Context) Caller {
	id, _ := middleware.CurrentUserID(ctx)
	return Caller{UserID: id, Admin: middleware.IsAdmin(ctx)}
}

func (c *Controller) slotTarget(theaterID, slotID string) (uuid.UUID, uuid.UUID, error) {
	tid, err := parseID(theaterID, "theater")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	sid, err := parseID(slotID, "slot")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return tid, sid, nil
}

// CreateOrder opens a gateway order for a slot checkout.
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	theaterID, slotID, err := c.slotTarget(req.TheaterID, req.SlotID)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Invalid request data", nil, err.Error())
		return
	}
	date, err := c.window.ParseDate(req.Date)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Invalid request data", nil, err.Error())
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	res, err := c.coordinator.CreateOrder(ctx.Request.Context(), OrderRequest{
		UserID:    userID,
		TheaterID: theaterID,
		SlotID:    slotID,
		Date:      date,
		Amount:    req.Amount,
		Receipt:   req.Receipt,
	})
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create order", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Order created successfully", res, nil)
}

// VerifyPayment checks a payment signature for an order.
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	var req VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	userID, ok := middleware.CurrentUserID(ctx)
	uid, err := uuid.Parse(userID)
	if !ok || err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not found in context", nil, nil)
		return
	}
	res, err := c.coordinator.VerifyPayment(ctx.Request.Context(), VerifyRequest{
		UserID:    uid,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Payment verification failed", res, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment verified successfully", res, nil)
}

// CreateBooking completes a checkout and books the slot.
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	userID, ok := middleware.CurrentUserID(ctx)
	uid, err := uuid.Parse(userID)
	if !ok || err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not found in context", nil, nil)
		return
	}
	theaterID, slotID, err := c.slotTarget(req.TheaterID, req.SlotID)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Invalid request data", nil, err.Error())
		return
	}
	date, err := c.window.ParseDate(req.Date)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Invalid request data", nil, err.Error())
		return
	}

	conf, err := c.coordinator.CompleteBooking(ctx.Request.Context(), CompleteRequest{
		UserID:    uid,
		TheaterID: theaterID,
		SlotID:    slotID,
		Date:      date,
		DeviceID:  req.DeviceID,
		Coupon:    req.CouponCode,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		Details: Booking{
			FullName:        req.FullName,
			NumberOfPeople:  req.NumberOfPeople,
			PhoneNumber:     req.PhoneNumber,
			WhatsappNumber:  req.WhatsappNumber,
			Email:           req.Email,
			AddDecorations:  req.AddDecorations,
			Nickname:        req.Nickname,
			PartnerNickname: req.PartnerNickname,
			Occasion:        req.Occasion,
			IsEggless:       req.IsEggless,
			CakeText:        req.CakeText,
			SelectedCakes:   req.SelectedCakes,
			AddOns:          req.AddOns,
			PaymentAmount:   req.PaymentAmount,
			TotalAmount:     req.TotalAmount,
		},
	})
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create booking", conf, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", conf, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	b, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"), caller(ctx))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get booking", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", b, nil)
}

func (c *Controller) ListByUser(ctx *gin.Context) {
	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	res, err := c.service.ListByUser(ctx.Request.Context(), ctx.Param("userId"), caller(ctx), query)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get user bookings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "User bookings retrieved successfully", res, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	res, err := c.service.List(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to list bookings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", res, nil)
}

func (c *Controller) ListByTheater(ctx *gin.Context) {
	res, err := c.service.ListByTheater(ctx.Request.Context(), ctx.Param("theaterId"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get theater bookings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Theater bookings retrieved successfully", res, nil)
}

func (c *Controller) ListByBranch(ctx *gin.Context) {
	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	res, err := c.service.ListByBranch(ctx.Request.Context(), ctx.Param("branchId"), query)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get branch bookings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Branch bookings retrieved successfully", res, nil)
}

func (c *Controller) MarkRead(ctx *gin.Context) {
	if err := c.service.MarkRead(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to mark booking as read", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking marked as read", nil, nil)
}

func (c *Controller) ListPayments(ctx *gin.Context) {
	var query PaymentListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	res, err := c.service.ListPayments(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to fetch payments", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", res, nil)
}

func (c *Controller) GetPayment(ctx *gin.Context) {
	res, err := c.service.GetPayment(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to fetch payment", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment retrieved successfully", res, nil)
}
