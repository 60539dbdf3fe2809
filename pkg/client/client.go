// Package client is a typed HTTP client for the storefront API. It
// remembers the session id the server issues, so one Client value
// behaves like one visitor.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coffeehouse/storefront/pkg/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	sessionID string
	initData  string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetInitData forwards a host-shell init payload with every request.
func (c *Client) SetInitData(initData string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initData = initData
}

// SessionID is the id the server assigned, empty before first contact.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) do(method, path string, body, out interface{}) (int, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}
	if c.initData != "" {
		req.Header.Set("X-Telegram-Init-Data", c.initData)
	}
	c.mu.Unlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if id := resp.Header.Get("X-Session-ID"); id != "" {
		c.mu.Lock()
		c.sessionID = id
		c.mu.Unlock()
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) get(path string, out interface{}) error {
	status, err := c.do(http.MethodGet, path, nil, out)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("storefront returned status %d for %s", status, path)
	}
	return nil
}

func (c *Client) Categories() ([]models.Category, error) {
	var out []models.Category
	return out, c.get("/api/catalog/categories", &out)
}

// Products lists the catalog, optionally filtered to one category.
func (c *Client) Products(categoryID string) ([]models.Product, error) {
	path := "/api/catalog/products"
	if categoryID != "" {
		path += "?category=" + categoryID
	}
	var out []models.Product
	return out, c.get(path, &out)
}

func (c *Client) Product(id string) (*models.Product, error) {
	var out models.Product
	status, err := c.do(http.MethodGet, "/api/catalog/products/"+id, nil, &out)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("product %s not found", id)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("storefront returned status %d", status)
	}
	return &out, nil
}

func (c *Client) Cart() (*models.Cart, error) {
	var out models.Cart
	return &out, c.get("/api/cart", &out)
}

func (c *Client) AddToCart(productID string, quantity int, selectedOptions map[string]string) (*models.Cart, error) {
	body := map[string]interface{}{
		"product_id":       productID,
		"quantity":         quantity,
		"selected_options": selectedOptions,
	}
	var out models.Cart
	status, err := c.do(http.MethodPost, "/api/cart/items", body, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("add to cart returned status %d", status)
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(itemID string, quantity int) (*models.Cart, error) {
	var out models.Cart
	status, err := c.do(http.MethodPatch, "/api/cart/items/"+itemID, map[string]int{"quantity": quantity}, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("update cart item returned status %d", status)
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(itemID string) (*models.Cart, error) {
	var out models.Cart
	status, err := c.do(http.MethodDelete, "/api/cart/items/"+itemID, nil, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("remove cart item returned status %d", status)
	}
	return &out, nil
}

func (c *Client) SetDelivery(deliveryType models.DeliveryType, address string) (*models.Cart, error) {
	body := map[string]interface{}{
		"delivery_type": deliveryType,
		"address":       address,
	}
	var out models.Cart
	status, err := c.do(http.MethodPut, "/api/cart/delivery", body, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("set delivery returned status %d", status)
	}
	return &out, nil
}

func (c *Client) ClearCart() error {
	status, err := c.do(http.MethodDelete, "/api/cart", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("clear cart returned status %d", status)
	}
	return nil
}

// CheckoutRequest mirrors the checkout form.
type CheckoutRequest struct {
	ContactName     string `json:"contact_name"`
	ContactPhone    string `json:"contact_phone"`
	PaymentMethod   string `json:"payment_method"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
}

type checkoutResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Order   *models.Order     `json:"order"`
	Errors  map[string]string `json:"errors"`
}

// Checkout submits the form. Validation failures come back as the field
// map with a nil order and a nil error.
func (c *Client) Checkout(req CheckoutRequest) (*models.Order, map[string]string, error) {
	var out checkoutResponse
	status, err := c.do(http.MethodPost, "/api/checkout", req, &out)
	if err != nil {
		return nil, nil, err
	}
	switch status {
	case http.StatusCreated:
		return out.Order, nil, nil
	case http.StatusUnprocessableEntity:
		return nil, out.Errors, nil
	default:
		return nil, nil, fmt.Errorf("checkout returned status %d: %s", status, out.Message)
	}
}

func (c *Client) Loyalty() (*models.LoyaltyAccount, error) {
	var out models.LoyaltyAccount
	return &out, c.get("/api/loyalty", &out)
}

type spendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Balance int64  `json:"balance"`
}

// SpendPoints reports false (with the unchanged balance) when the
// balance is insufficient.
func (c *Client) SpendPoints(points int64, description string) (bool, int64, error) {
	body := map[string]interface{}{
		"points":      points,
		"description": description,
	}
	var out spendResponse
	status, err := c.do(http.MethodPost, "/api/loyalty/spend", body, &out)
	if err != nil {
		return false, 0, err
	}
	switch status {
	case http.StatusOK:
		return true, out.Balance, nil
	case http.StatusConflict:
		return false, out.Balance, nil
	default:
		return false, 0, fmt.Errorf("spend returned status %d: %s", status, out.Message)
	}
}

func (c *Client) Orders() ([]models.Order, error) {
	var out []models.Order
	return out, c.get("/api/orders", &out)
}

func (c *Client) Order(id string) (*models.Order, error) {
	var out models.Order
	status, err := c.do(http.MethodGet, "/api/orders/"+id, nil, &out)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("order %s not found", id)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("storefront returned status %d", status)
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(id, orderStatus string) (*models.Order, error) {
	var out models.Order
	status, err := c.do(http.MethodPatch, "/api/orders/"+id+"/status", map[string]string{"status": orderStatus}, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("status update returned status %d", status)
	}
	return &out, nil
}

func (c *Client) ChatMessages() ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	return out, c.get("/api/chat/messages", &out)
}

func (c *Client) SendChatMessage(text string) (*models.ChatMessage, error) {
	var out models.ChatMessage
	status, err := c.do(http.MethodPost, "/api/chat/messages", map[string]string{"text": text}, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("send message returned status %d", status)
	}
	return &out, nil
}

// HostInfo is what the host shell provides for this session.
type HostInfo struct {
	SupportsBackButton bool         `json:"supports_back_button"`
	User               *models.User `json:"user"`
}

func (c *Client) Host() (*HostInfo, error) {
	var out HostInfo
	return &out, c.get("/api/host", &out)
}
