package shipping

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// ExternalError is a carrier API failure. Orders stay unshipped when one is
// returned; callers retry with backoff.
type ExternalError struct {
	Op     string
	Status int
	Body   string
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("shiprocket %s failed with status %d: %s", e.Op, e.Status, e.Body)
}

// Client talks to the Shiprocket external API. The auth token is fetched
// lazily and cached until it stops working.
type Client struct {
	http     *resty.Client
	email    string
	password string

	mu    sync.Mutex
	token string
}

func NewClient(baseURL, email, password string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15*time.Second).
			SetHeader("Content-Type", "application/json"),
		email:    email,
		password: password,
	}
}

// NewClientFromEnv builds a client from SHIPROCKET_* variables.
func NewClientFromEnv() (*Client, error) {
	email := os.Getenv("SHIPROCKET_EMAIL")
	password := os.Getenv("SHIPROCKET_PASSWORD")
	baseURL := os.Getenv("SHIPROCKET_API_URL")
	if baseURL == "" {
		baseURL = "https://apiv2.shiprocket.in/v1/external"
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("shiprocket credentials missing")
	}
	return NewClient(baseURL, email, password), nil
}

func (c *Client) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	var out struct {
		Token string `json:"token"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": c.email, "password": c.password}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return "", fmt.Errorf("shiprocket login: %w", err)
	}
	if resp.IsError() || out.Token == "" {
		return "", &ExternalError{Op: "login", Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	c.token = out.Token
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// ShipmentItem is one order line in a carrier shipment request.
type ShipmentItem struct {
	Name   string  `json:"name"`
	SKU    string  `json:"sku"`
	Units  int     `json:"units"`
	Price  float64 `json:"selling_price"`
	Weight float64 `json:"weight,omitempty"`
}

// ShipmentRequest is the payload pushed to the carrier for one order.
type ShipmentRequest struct {
	OrderRef       string         `json:"order_id"`
	OrderDate      string         `json:"order_date"`
	BillingName    string         `json:"billing_customer_name"`
	BillingPhone   string         `json:"billing_phone"`
	BillingAddress string         `json:"billing_address"`
	BillingCity    string         `json:"billing_city"`
	BillingState   string         `json:"billing_state"`
	BillingPincode string         `json:"billing_pincode"`
	BillingCountry string         `json:"billing_country"`
	Items          []ShipmentItem `json:"order_items"`
	PaymentMethod  string         `json:"payment_method"` // "COD" or "Prepaid"
	SubTotal       float64        `json:"sub_total"`
	CourierID      string         `json:"courier_id,omitempty"`
	NotifyCustomer bool           `json:"notify_customer"`
	PickupLocation string         `json:"pickup_location,omitempty"`
}

// Shipment is the carrier's record of a pushed order.
type Shipment struct {
	ShipmentID string `json:"shipment_id"`
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	AWBCode    string `json:"awb_code"`
	Raw        []byte `json:"-"`
}

// CreateShipment pushes an order to the carrier and returns the shipment
// record. The caller is responsible for idempotency (see Dispatcher).
func (c *Client) CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	var out struct {
		ShipmentID any    `json:"shipment_id"`
		OrderID    any    `json:"order_id"`
		Status     string `json:"status"`
		AWBCode    string `json:"awb_code"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&out).
		Post("/orders/create/adhoc")
	if err != nil {
		return nil, fmt.Errorf("shiprocket create shipment: %w", err)
	}
	if resp.StatusCode() == 401 {
		c.invalidateToken()
	}
	if resp.IsError() {
		return nil, &ExternalError{Op: "create shipment", Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	shipmentID := fmt.Sprint(out.ShipmentID)
	if shipmentID == "" || shipmentID == "<nil>" {
		return nil, &ExternalError{Op: "create shipment", Status: resp.StatusCode(), Body: "missing shipment_id in response"}
	}
	return &Shipment{
		ShipmentID: shipmentID,
		OrderID:    fmt.Sprint(out.OrderID),
		Status:     out.Status,
		AWBCode:    out.AWBCode,
		Raw:        resp.Body(),
	}, nil
}

// Track fetches tracking state for a shipment.
func (c *Client) Track(ctx context.Context, shipmentID string) ([]byte, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get("/courier/track/shipment/" + shipmentID)
	if err != nil {
		return nil, fmt.Errorf("shiprocket track: %w", err)
	}
	if resp.IsError() {
		return nil, &ExternalError{Op: "track", Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return resp.Body(), nil
}

// Couriers lists the carrier's available couriers.
func (c *Client) Couriers(ctx context.Context) ([]byte, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get("/courier/courierListWithCounts")
	if err != nil {
		return nil, fmt.Errorf("shiprocket couriers: %w", err)
	}
	if resp.IsError() {
		return nil, &ExternalError{Op: "couriers", Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return resp.Body(), nil
}
