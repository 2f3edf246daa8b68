// internal/interfaces/http/handlers/sale_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/erp-backend/internal/config"
)

func newOrderContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestPlaceOrderRequiresCustomerDetails(t *testing.T) {
	h := NewSaleHandler(nil, &config.Config{})

	// Neither name nor email anywhere
	c, w := newOrderContext(t, `{"product_id":1,"quantity":2}`)
	h.PlaceOrder(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Customer name and email are required")
}

func TestPlaceOrderRequiresNameEvenWithTokenEmail(t *testing.T) {
	h := NewSaleHandler(nil, &config.Config{})

	// The token backfills the email but the name is still missing
	c, w := newOrderContext(t, `{"product_id":1,"quantity":2}`)
	c.Set("user_id", uint(7))
	c.Set("user_email", "client@example.com")
	h.PlaceOrder(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Customer name and email are required")
}

func TestPlaceOrderRequiresEmail(t *testing.T) {
	h := NewSaleHandler(nil, &config.Config{})

	c, w := newOrderContext(t, `{"product_id":1,"quantity":2,"customer_name":"Ada Client"}`)
	h.PlaceOrder(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Customer name and email are required")
}
