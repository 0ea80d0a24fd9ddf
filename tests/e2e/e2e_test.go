package e2e

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"lashstudio/internal/database"
	"lashstudio/internal/domain"
	"lashstudio/internal/middleware"
	"lashstudio/internal/modules/availability"
	"lashstudio/internal/modules/booking"
	"lashstudio/internal/modules/catalog"
	"lashstudio/internal/modules/payment"
	"lashstudio/internal/modules/schedule"
	"lashstudio/internal/notification"
	"lashstudio/internal/repository"
	"lashstudio/internal/timegrid"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testBotToken = "12345:test-bot-token"
	adminTgID    = int64(1000)
	clientTgID   = int64(777)
)

type TestResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Suite struct {
	router      *gin.Engine
	db          *gorm.DB
	paymentSvc  *payment.Service
	serviceRepo *repository.ServiceRepository
	slotRepo    *repository.SlotRepository
	mainSvcID   int64
}

func setupSuite(t *testing.T) *Suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	serviceRepo := repository.NewServiceRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// fake Telegram Bot API, accepts every sendMessage
	tgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":true}`)
	}))
	t.Cleanup(tgServer.Close)

	// fake YooKassa, returns a redirect payment for every create
	payServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"pay-e2e","status":"pending","confirmation":{"confirmation_url":"https://pay.example/e2e"}}`)
	}))
	t.Cleanup(payServer.Close)

	notifier := notification.NewSenderWithBase(testBotToken, adminTgID, tgServer.URL)
	gateway := payment.NewGatewayWithBase("shop", "secret", "https://app.example", payServer.URL)

	catalogHandler := catalog.NewHandler(catalog.NewService(serviceRepo))
	availabilityHandler := availability.NewHandler(availability.NewService(slotRepo, serviceRepo, 3))
	scheduleHandler := schedule.NewHandler(schedule.NewService(slotRepo))
	bookingHandler := booking.NewHandler(
		booking.NewService(bookingRepo, serviceRepo, gateway, notifier, 24*time.Hour), adminTgID)
	paymentSvc := payment.NewService(bookingRepo, serviceRepo, notifier, 15*time.Minute)
	paymentHandler := payment.NewHandler(paymentSvc)

	r := gin.New()
	api := r.Group("/api")
	{
		catalogHandler.RegisterRoutes(api)
		availabilityHandler.RegisterRoutes(api)
		paymentHandler.RegisterRoutes(api)

		client := api.Group("/")
		client.Use(middleware.TelegramAuth(testBotToken, 24*time.Hour))
		bookingHandler.RegisterRoutes(client)

		admin := api.Group("/admin")
		admin.Use(middleware.TelegramAuth(testBotToken, 24*time.Hour), middleware.AdminOnly(adminTgID))
		catalogHandler.RegisterAdminRoutes(admin)
		scheduleHandler.RegisterAdminRoutes(admin)
		bookingHandler.RegisterAdminRoutes(admin)
	}

	s := &Suite{
		router:      r,
		db:          db,
		paymentSvc:  paymentSvc,
		serviceRepo: serviceRepo,
		slotRepo:    slotRepo,
	}
	s.seed(t)
	return s
}

func (s *Suite) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	main := &domain.Service{
		Name:        "Наращивание ресниц",
		Price:       250000,
		DurationMin: 120,
		IsActive:    true,
		SortOrder:   1,
		Class:       domain.ServiceMain,
	}
	require.NoError(t, s.serviceRepo.Create(ctx, main))
	s.mainSvcID = main.ID

	addon := &domain.Service{
		Name:        "Наращивание нижних",
		Price:       50000,
		DurationMin: 20,
		IsActive:    true,
		SortOrder:   2,
		Class:       domain.ServiceAddon,
	}
	require.NoError(t, s.serviceRepo.Create(ctx, addon))

	date := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	require.NoError(t, s.slotRepo.CreateRanges(ctx, date, timegrid.HourRange(12, 20)))
}

func (s *Suite) bookingDate() string {
	return time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
}

// signInitData builds valid Telegram Mini App initData for the user.
func signInitData(user domain.TelegramUser, authDate time.Time) string {
	userJSON, _ := json.Marshal(user)
	values := url.Values{}
	values.Set("user", string(userJSON))
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("query_id", "AAtest")

	pairs := []string{
		"auth_date=" + values.Get("auth_date"),
		"query_id=" + values.Get("query_id"),
		"user=" + values.Get("user"),
	}
	dataCheckString := pairs[0] + "\n" + pairs[1] + "\n" + pairs[2]

	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(testBotToken))
	mac := hmac.New(sha256.New, secretMac.Sum(nil))
	mac.Write([]byte(dataCheckString))
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))

	return values.Encode()
}

func (s *Suite) request(t *testing.T, method, path string, body interface{}, tgID int64) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "127.0.0.1:52000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tgID != 0 {
		user := domain.TelegramUser{ID: tgID, FirstName: "Test", Username: "test"}
		req.Header.Set("Authorization", "tma "+signInitData(user, time.Now()))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var res TestResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	}
	return w, res
}

func TestAuth_MissingAndInvalid(t *testing.T) {
	s := setupSuite(t)

	w, res := s.request(t, http.MethodGet, "/api/bookings/my", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", res.Error.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/my", nil)
	req.Header.Set("Authorization", "tma tampered=1&hash=deadbeef")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_StaleInitDataRejected(t *testing.T) {
	s := setupSuite(t)

	user := domain.TelegramUser{ID: clientTgID, FirstName: "Test"}
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/my", nil)
	req.Header.Set("Authorization", "tma "+signInitData(user, time.Now().Add(-48*time.Hour)))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_ForbiddenForRegularClient(t *testing.T) {
	s := setupSuite(t)

	w, res := s.request(t, http.MethodGet, "/api/admin/bookings", nil, clientTgID)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", res.Error.Code)
}

func TestCatalog_PublicListing(t *testing.T) {
	s := setupSuite(t)

	w, res := s.request(t, http.MethodGet, "/api/services", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)

	var services []domain.Service
	require.NoError(t, json.Unmarshal(res.Data, &services))
	require.Len(t, services, 1) // addon is not listed
	assert.Equal(t, "Наращивание ресниц", services[0].Name)

	w, res = s.request(t, http.MethodGet, "/api/addon-info", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	var addon struct {
		Available bool   `json:"available"`
		Price     int64  `json:"price"`
		Name      string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &addon))
	assert.True(t, addon.Available)
	assert.Equal(t, int64(50000), addon.Price)
}

func TestBookingRoundTrip_PaymentWebhookConfirm(t *testing.T) {
	s := setupSuite(t)
	date := s.bookingDate()

	// the rendered availability offers 14:00
	w, res := s.request(t, http.MethodGet,
		fmt.Sprintf("/api/available-times?date=%s&service_id=%d", date, s.mainSvcID), nil, 0)
	require.Equal(t, http.StatusOK, w.Code)

	// book it
	w, res = s.request(t, http.MethodPost, "/api/bookings", map[string]interface{}{
		"service_id": s.mainSvcID,
		"date":       date,
		"start_time": "14:00",
	}, clientTgID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Booking    domain.Booking `json:"booking"`
		PaymentURL string         `json:"payment_url"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &created))
	assert.Equal(t, domain.BookingPendingPayment, created.Booking.Status)
	assert.Equal(t, "https://pay.example/e2e", created.PaymentURL)
	assert.Equal(t, "16:00", created.Booking.EndTime)

	// polling shows pending
	w, res = s.request(t, http.MethodGet,
		fmt.Sprintf("/api/bookings/%d/status", created.Booking.ID), nil, clientTgID)
	require.Equal(t, http.StatusOK, w.Code)
	var st struct {
		Status domain.BookingStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &st))
	assert.Equal(t, domain.BookingPendingPayment, st.Status)

	// the booked run vanished from availability
	w, res = s.request(t, http.MethodGet,
		fmt.Sprintf("/api/available-times?date=%s&service_id=%d", date, s.mainSvcID), nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	var times struct {
		Times []timegrid.Range `json:"times"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &times))
	for _, b := range times.Times {
		assert.NotEqual(t, "14:00", b.Start)
		assert.NotEqual(t, "15:00", b.Start)
	}

	// provider's webhook confirms the payment
	webhook := map[string]interface{}{
		"event": "payment.succeeded",
		"object": map[string]interface{}{
			"id":     "pay-e2e",
			"status": "succeeded",
			"amount": map[string]string{"value": "2500.00", "currency": "RUB"},
			"metadata": map[string]string{
				"booking_id": strconv.FormatInt(created.Booking.ID, 10),
			},
		},
	}
	w, _ = s.request(t, http.MethodPost, "/api/payments/webhook", webhook, 0)
	require.Equal(t, http.StatusOK, w.Code)

	// replay changes nothing
	w, _ = s.request(t, http.MethodPost, "/api/payments/webhook", webhook, 0)
	require.Equal(t, http.StatusOK, w.Code)

	w, res = s.request(t, http.MethodGet,
		fmt.Sprintf("/api/bookings/%d/status", created.Booking.ID), nil, clientTgID)
	require.Equal(t, http.StatusOK, w.Code)
	var st2 struct {
		Status        domain.BookingStatus `json:"status"`
		PaymentStatus domain.PaymentStatus `json:"payment_status"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &st2))
	assert.Equal(t, domain.BookingConfirmed, st2.Status)
	assert.Equal(t, domain.PaymentPaid, st2.PaymentStatus)

	// it now shows in the client's list
	w, res = s.request(t, http.MethodGet, "/api/bookings/my", nil, clientTgID)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []domain.BookingDetail
	require.NoError(t, json.Unmarshal(res.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Наращивание ресниц", mine[0].ServiceName)

	// cancel with 10 days of lead time refunds in full
	w, res = s.request(t, http.MethodDelete,
		fmt.Sprintf("/api/bookings/%d", created.Booking.ID), nil, clientTgID)
	require.Equal(t, http.StatusOK, w.Code)
	var cancel struct {
		Refund struct {
			Full bool `json:"full"`
		} `json:"refund"`
		Refunded bool `json:"refunded"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &cancel))
	assert.True(t, cancel.Refund.Full)
	assert.True(t, cancel.Refunded)

	// and the slots are bookable again
	w, res = s.request(t, http.MethodGet,
		fmt.Sprintf("/api/available-times?date=%s&service_id=%d", date, s.mainSvcID), nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(res.Data, &times))
	found := false
	for _, b := range times.Times {
		if b.Start == "14:00" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBooking_ConflictOnTakenRun(t *testing.T) {
	s := setupSuite(t)
	date := s.bookingDate()

	body := map[string]interface{}{
		"service_id": s.mainSvcID,
		"date":       date,
		"start_time": "14:00",
	}
	w, _ := s.request(t, http.MethodPost, "/api/bookings", body, clientTgID)
	require.Equal(t, http.StatusCreated, w.Code)

	w, res := s.request(t, http.MethodPost, "/api/bookings", body, clientTgID)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SLOT_UNAVAILABLE", res.Error.Code)
}

func TestBooking_CancelForeignBookingForbidden(t *testing.T) {
	s := setupSuite(t)
	date := s.bookingDate()

	w, res := s.request(t, http.MethodPost, "/api/bookings", map[string]interface{}{
		"service_id": s.mainSvcID,
		"date":       date,
		"start_time": "12:00",
	}, clientTgID)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Booking domain.Booking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &created))

	w, res = s.request(t, http.MethodDelete,
		fmt.Sprintf("/api/bookings/%d", created.Booking.ID), nil, int64(4242))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", res.Error.Code)
}

func TestSweep_ExpiresStaleBookingAndFreesSlots(t *testing.T) {
	s := setupSuite(t)
	date := s.bookingDate()

	w, res := s.request(t, http.MethodPost, "/api/bookings", map[string]interface{}{
		"service_id": s.mainSvcID,
		"date":       date,
		"start_time": "14:00",
	}, clientTgID)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Booking domain.Booking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &created))

	// age the booking past the pending timeout
	require.NoError(t, s.db.Exec(
		"UPDATE bookings SET created_at = ? WHERE id = ?",
		time.Now().UTC().Add(-20*time.Minute), created.Booking.ID).Error)

	expired, err := s.paymentSvc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	w, res = s.request(t, http.MethodGet,
		fmt.Sprintf("/api/bookings/%d/status", created.Booking.ID), nil, clientTgID)
	require.Equal(t, http.StatusOK, w.Code)
	var st struct {
		Status domain.BookingStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &st))
	assert.Equal(t, domain.BookingExpired, st.Status)

	// the run is free again
	body := map[string]interface{}{
		"service_id": s.mainSvcID,
		"date":       date,
		"start_time": "14:00",
	}
	w, _ = s.request(t, http.MethodPost, "/api/bookings", body, clientTgID)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestWebhook_UntrustedSourceRejected(t *testing.T) {
	s := setupSuite(t)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook",
		bytes.NewBufferString(`{"event":"payment.succeeded"}`))
	req.RemoteAddr = "203.0.113.50:443"
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdmin_ScheduleManagement(t *testing.T) {
	s := setupSuite(t)
	date := time.Now().UTC().AddDate(0, 0, 20).Format("2006-01-02")

	w, res := s.request(t, http.MethodPost, "/api/admin/openday", map[string]interface{}{
		"date": date,
	}, adminTgID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var opened struct {
		Created int `json:"created"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &opened))
	assert.Equal(t, 8, opened.Created) // 12:00..20:00

	// repeat is idempotent
	w, res = s.request(t, http.MethodPost, "/api/admin/openday", map[string]interface{}{
		"date": date,
	}, adminTgID)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(res.Data, &opened))
	assert.Zero(t, opened.Created)

	w, res = s.request(t, http.MethodGet, "/api/admin/slots?date="+date, nil, adminTgID)
	require.Equal(t, http.StatusOK, w.Code)
	var slots []domain.Slot
	require.NoError(t, json.Unmarshal(res.Data, &slots))
	require.Len(t, slots, 8)

	w, _ = s.request(t, http.MethodDelete,
		fmt.Sprintf("/api/admin/slots/%d", slots[0].ID), nil, adminTgID)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_CatalogManagement(t *testing.T) {
	s := setupSuite(t)

	w, res := s.request(t, http.MethodPost, "/api/admin/services", map[string]interface{}{
		"name":         "Коррекция",
		"description":  "Коррекция наращивания",
		"price":        150000,
		"duration_min": 60,
		"sort_order":   3,
	}, adminTgID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.Service
	require.NoError(t, json.Unmarshal(res.Data, &created))
	assert.Equal(t, domain.ServiceMain, created.Class)

	w, res = s.request(t, http.MethodPut,
		fmt.Sprintf("/api/admin/services/%d", created.ID), map[string]interface{}{
			"is_active": false,
		}, adminTgID)
	require.Equal(t, http.StatusOK, w.Code)
	var updated domain.Service
	require.NoError(t, json.Unmarshal(res.Data, &updated))
	assert.False(t, updated.IsActive)

	// deactivated service drops out of the public catalog
	w, res = s.request(t, http.MethodGet, "/api/services", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	var public []domain.Service
	require.NoError(t, json.Unmarshal(res.Data, &public))
	for _, svc := range public {
		assert.NotEqual(t, created.ID, svc.ID)
	}
}
