package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	bookingapp "github.com/quotebook/backend/internal/application/booking"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func newBookingRouter(repo *MockBookingRepository) *gin.Engine {
	h := NewBookingHandler(bookingapp.NewBookingService(repo, zap.NewNop()))

	r := gin.New()
	r.GET("/admin/bookings", h.List)
	r.GET("/admin/bookings/:id", h.GetByID)
	r.POST("/admin/bookings/:id/confirm", h.Confirm)
	r.POST("/admin/bookings/:id/complete", h.Complete)
	r.POST("/admin/bookings/:id/cancel", h.Cancel)
	r.POST("/admin/bookings/:id/reschedule", h.Reschedule)
	r.POST("/admin/bookings/:id/payment", h.UpdatePayment)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestBookingHandler_Confirm(t *testing.T) {
	repo := new(MockBookingRepository)
	b := pendingBooking(t)
	repo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	repo.On("Save", mock.Anything, b).Return(nil)

	w := serve(newBookingRouter(repo), http.MethodPost, "/admin/bookings/"+b.ID.String()+"/confirm", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, string(booking.StatusConfirmed), gjson.Get(w.Body.String(), "data.status").String())
	assert.True(t, gjson.Get(w.Body.String(), "data.confirmed_at").Exists())
	repo.AssertExpectations(t)
}

func TestBookingHandler_CompleteRequiresConfirmation(t *testing.T) {
	repo := new(MockBookingRepository)
	b := pendingBooking(t)
	repo.On("FindByID", mock.Anything, b.ID).Return(b, nil)

	w := serve(newBookingRouter(repo), http.MethodPost, "/admin/bookings/"+b.ID.String()+"/complete", "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, gjson.Get(w.Body.String(), "error.code").String())
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBookingHandler_Cancel(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		repo := new(MockBookingRepository)

		w := serve(newBookingRouter(repo), http.MethodPost, "/admin/bookings/"+uuid.NewString()+"/cancel", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "reason", gjson.Get(w.Body.String(), "error.details.0.field").String())
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("cancels with the reason recorded", func(t *testing.T) {
		repo := new(MockBookingRepository)
		b := pendingBooking(t)
		repo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		repo.On("Save", mock.Anything, b).Return(nil)

		w := serve(newBookingRouter(repo), http.MethodPost, "/admin/bookings/"+b.ID.String()+"/cancel", `{"reason":"customer moved"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "cancelled", gjson.Get(w.Body.String(), "data.status").String())
		assert.Equal(t, "customer moved", gjson.Get(w.Body.String(), "data.cancellation_reason").String())
	})
}

func TestBookingHandler_Reschedule(t *testing.T) {
	repo := new(MockBookingRepository)
	b := pendingBooking(t)
	repo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	repo.On("Save", mock.Anything, b).Return(nil)
	when := time.Now().Add(10 * 24 * time.Hour).UTC().Truncate(time.Second)

	w := serve(newBookingRouter(repo), http.MethodPost, "/admin/bookings/"+b.ID.String()+"/reschedule",
		`{"scheduled_at":"`+when.Format(time.RFC3339)+`"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got, err := time.Parse(time.RFC3339, gjson.Get(w.Body.String(), "data.scheduled_at").String())
	require.NoError(t, err)
	assert.True(t, when.Equal(got))
}

func TestBookingHandler_UpdatePayment(t *testing.T) {
	t.Run("unknown status is a validation error", func(t *testing.T) {
		repo := new(MockBookingRepository)

		w := serve(newBookingRouter(repo), http.MethodPost, "/admin/bookings/"+uuid.NewString()+"/payment",
			`{"payment_status":"lost"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, gjson.Get(w.Body.String(), "error.code").String())
	})

	t.Run("records a deposit", func(t *testing.T) {
		repo := new(MockBookingRepository)
		b := pendingBooking(t)
		repo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		repo.On("Save", mock.Anything, b).Return(nil)

		w := serve(newBookingRouter(repo), http.MethodPost, "/admin/bookings/"+b.ID.String()+"/payment",
			`{"payment_status":"deposit_paid"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "deposit_paid", gjson.Get(w.Body.String(), "data.payment_status").String())
		assert.Equal(t, "160", gjson.Get(w.Body.String(), "data.balance_due").String())
	})
}

func TestBookingHandler_GetByIDNotFound(t *testing.T) {
	repo := new(MockBookingRepository)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	w := serve(newBookingRouter(repo), http.MethodGet, "/admin/bookings/"+id.String(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_List(t *testing.T) {
	repo := new(MockBookingRepository)
	b := pendingBooking(t)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.Filters["status"] == "pending"
	})).Return([]booking.Booking{*b}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	w := serve(newBookingRouter(repo), http.MethodGet, "/admin/bookings?status=pending", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, b.BookingNumber, gjson.Get(w.Body.String(), "data.0.booking_number").String())
	assert.Equal(t, int64(20), gjson.Get(w.Body.String(), "meta.page_size").Int())
}
