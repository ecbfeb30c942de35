package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/musclemeter/musclemeter/internal/payment"
	redisrepo "github.com/musclemeter/musclemeter/internal/repository/redis"
	"github.com/musclemeter/musclemeter/internal/service"
	"github.com/musclemeter/musclemeter/internal/service/account"
	"github.com/musclemeter/musclemeter/internal/service/booking"
	"github.com/musclemeter/musclemeter/internal/service/catalog"
	"github.com/musclemeter/musclemeter/internal/service/discovery"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		LoggingMiddleware(logger),
		RequestIDMiddleware(),
		CORS(),
		PrincipalMiddleware(svcs.Account),
	)
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Discovery
	r.GET("/gyms", handleExplore(svcs))
	r.GET("/gyms/:id", handleGymDetail(svcs))

	// Checkout + bookings
	r.POST("/gyms/:id/plans/:plan_id/checkout", handleCheckout(svcs, idem, limiter))
	r.GET("/bookings/:id", handleGetBooking(svcs))
	r.GET("/bookings/:id/pass", handleGetPass(svcs))

	// Customer profile
	r.GET("/me/bookings", handleMyBookings(svcs))
	r.POST("/me/location", handleUpdateLocation(svcs))

	// Owner API
	owner := r.Group("/owner")
	{
		owner.POST("/gyms", handleCreateGym(svcs))
		owner.POST("/gyms/:id/plans", handleAddPlan(svcs))
		owner.GET("/stats", handleOwnerStats(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Explore gyms near a location
// @Param    lat  query  number  false  "Origin latitude"
// @Param    lon  query  number  false  "Origin longitude"
// @Success  200  {array}   domain.RankedGym
// @Router   /gyms [get]
func handleExplore(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := parseOrigin(c)

		ranked, err := svcs.Discovery.Explore(c.Request.Context(), origin)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s; ranked order depends on the caller's
		// location, which is part of the URL, so shared caches stay correct.
		writeJSONWithCache(c, http.StatusOK, ranked, "public, max-age=60", true)
	}
}

// @Summary  Gym detail with plans
// @Param    id   path   int     true   "Gym ID"
// @Param    lat  query  number  false  "Origin latitude"
// @Param    lon  query  number  false  "Origin longitude"
// @Success  200  {object}  map[string]any
// @Failure  404  {object}  ErrorResponse
// @Router   /gyms/{id} [get]
func handleGymDetail(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		gymID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		origin := parseOrigin(c)

		entry, plans, err := svcs.Discovery.GymDetail(c.Request.Context(), gymID, origin)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, gin.H{
			"gym":      entry.Gym,
			"distance": entry.Distance,
			"plans":    plans,
		}, "public, max-age=60", true)
	}
}

// @Summary  Purchase a plan (idempotent)
// @Param    id       path    int  true  "Gym ID"
// @Param    plan_id  path    int  true  "Plan ID"
// @Param    req      body    CheckoutRequest true "simulated card fields"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.Booking
// @Failure  400 {object} ErrorResponse "card validation"
// @Failure  403 {object} ErrorResponse "not a customer"
// @Failure  409 {object} ErrorResponse "gym inactive / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /gyms/{id}/plans/{plan_id}/checkout [post]
func handleCheckout(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter *redisrepo.SlidingWindowLimiter,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		gymID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		planID, ok := parseInt64Param(c, "plan_id")
		if !ok {
			return
		}

		principal := currentPrincipal(c)
		if principal == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if limiter != nil {
			allowed, _, retry, err := limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP())
			if err != nil {
				respondErr(c, err)
				return
			}
			if !allowed {
				c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
				return
			}
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemCheckout(gymID, planID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		card := payment.Card{
			Number: req.CardNumber,
			Expiry: req.CardExpiry,
			CVV:    req.CardCVV,
			Holder: req.CardName,
		}

		b, err := svcs.Booking.Create(c.Request.Context(), principal.ID, gymID, planID, card)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			payload, _ := json.Marshal(b)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(payload))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, b)
	}
}

// @Summary  Get booking
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Success  200 {object} domain.Booking
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /bookings/{id} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, ok := fetchAuthorizedBooking(c, svcs)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, b)
	}
}

// @Summary  Get booking pass (QR PNG)
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Produce  png
// @Success  200 {string} binary
// @Failure  404 {object} ErrorResponse
// @Router   /bookings/{id}/pass [get]
func handleGetPass(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, ok := fetchAuthorizedBooking(c, svcs)
		if !ok {
			return
		}

		gym, err := svcs.Booking.GymFor(c.Request.Context(), b)
		if err != nil {
			respondErr(c, err)
			return
		}

		img, err := svcs.Pass.Render(b, gym.Name)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.Data(http.StatusOK, "image/png", img)
	}
}

// @Summary  List my bookings
// @Success  200 {array} domain.Booking
// @Failure  401 {object} ErrorResponse
// @Router   /me/bookings [get]
func handleMyBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := currentPrincipal(c)
		if principal == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}

		bookings, err := svcs.Booking.ListForCustomer(c.Request.Context(), principal.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, bookings)
	}
}

// @Summary  Update my last known location
// @Param    req body UpdateLocationRequest true "payload"
// @Success  200 {object} map[string]string
// @Failure  400 {object} ErrorResponse
// @Router   /me/location [post]
func handleUpdateLocation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := currentPrincipal(c)
		if principal == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}

		var req UpdateLocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		err := svcs.Account.UpdateLocation(
			c.Request.Context(),
			principal,
			domain.Coordinate{Lat: req.Latitude, Lon: req.Longitude},
			req.City,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// @Summary  Register a gym with initial plans
// @Param    req body CreateGymRequest true "payload"
// @Success  201 {object} CreateGymResponse
// @Failure  400 {object} ErrorResponse
// @Failure  403 {object} ErrorResponse
// @Router   /owner/gyms [post]
func handleCreateGym(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := currentPrincipal(c)
		if principal == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}

		var req CreateGymRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		plans := make([]domain.Plan, 0, len(req.Plans))
		for _, in := range req.Plans {
			p, err := planFromInput(in)
			if err != nil {
				badRequest(c, err.Error())
				return
			}
			plans = append(plans, p)
		}

		gym := domain.Gym{
			Name:        req.Name,
			Description: req.Description,
			Address:     req.Address,
			City:        req.City,
			Location:    domain.Coordinate{Lat: req.Latitude, Lon: req.Longitude},
			Phone:       req.Phone,
			Email:       req.Email,
			OpensAt:     req.OpensAt,
			ClosesAt:    req.ClosesAt,
		}

		id, err := svcs.Catalog.CreateGym(c.Request.Context(), principal, gym, plans)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreateGymResponse{GymID: id})
	}
}

// @Summary  Add a plan to a gym
// @Param    id  path  int  true  "Gym ID"
// @Param    req body PlanInput true "payload"
// @Success  201 {object} CreatePlanResponse
// @Failure  403 {object} ErrorResponse
// @Router   /owner/gyms/{id}/plans [post]
func handleAddPlan(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		gymID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		principal := currentPrincipal(c)
		if principal == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}

		var req PlanInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		plan, err := planFromInput(req)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		id, err := svcs.Catalog.AddPlan(c.Request.Context(), principal, gymID, plan)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreatePlanResponse{PlanID: id})
	}
}

// @Summary  Owner dashboard aggregates
// @Success  200 {object} domain.OwnerStats
// @Failure  401 {object} ErrorResponse
// @Router   /owner/stats [get]
func handleOwnerStats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := currentPrincipal(c)
		if principal == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}
		if !principal.HasRole(domain.RoleOwner) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "owner role required"})
			return
		}

		stats, err := svcs.Catalog.OwnerStats(c.Request.Context(), principal.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, stats, "private, max-age=15", true)
	}
}

// --- Helpers ---

// fetchAuthorizedBooking loads the booking and applies the advisory owner
// verdict: anonymous viewers pass, authenticated strangers get 403.
func fetchAuthorizedBooking(c *gin.Context, svcs *service.Services) (*domain.Booking, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid booking id")
		return nil, false
	}

	b, err := svcs.Booking.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return nil, false
	}

	allowed, err := svcs.Booking.VerifyOwner(c.Request.Context(), b, currentPrincipal(c))
	if err != nil {
		respondErr(c, err)
		return nil, false
	}
	if !allowed {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})
		return nil, false
	}

	return b, true
}

func planFromInput(in PlanInput) (domain.Plan, error) {
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return domain.Plan{}, errors.New("invalid price: " + in.Price)
	}

	return domain.Plan{
		Name:     in.Name,
		Duration: domain.PlanDuration(in.Duration),
		Price:    price,
		Features: in.Features,
		Popular:  in.Popular,
	}, nil
}

func parseOrigin(c *gin.Context) *domain.Coordinate {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil
	}

	return &domain.Coordinate{Lat: lat, Lon: lon}
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var cardErr *payment.ValidationError
	if errors.As(err, &cardErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "card validation failed",
			Fields: cardErr.Fields,
		})
		return
	}

	switch {
	// discovery service
	case errors.Is(err, discovery.ErrGymNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "gym not found"})
		return
	// booking service
	case errors.Is(err, booking.ErrGymNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "gym not found"})
		return
	case errors.Is(err, booking.ErrGymInactive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "gym is inactive"})
		return
	case errors.Is(err, booking.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "plan not found"})
		return
	case errors.Is(err, booking.ErrNotACustomer):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "customer role required"})
		return
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		return
	case errors.Is(err, payment.ErrInvalidCard):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "card validation failed"})
		return
	// catalog service
	case errors.Is(err, catalog.ErrNotAnOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "owner role required"})
		return
	case errors.Is(err, catalog.ErrNotGymOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "gym belongs to another owner"})
		return
	case errors.Is(err, catalog.ErrGymNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "gym not found"})
		return
	case errors.Is(err, catalog.ErrInvalidLocation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, catalog.ErrInvalidPlan):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	// account service
	case errors.Is(err, account.ErrPrincipalNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "principal not found"})
		return
	case errors.Is(err, account.ErrNotACustomer):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "customer role required"})
		return
	case errors.Is(err, account.ErrInvalidLocation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
