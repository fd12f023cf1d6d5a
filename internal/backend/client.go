// Package backend is the HTTP client for the remote shop API. It owns the
// wire formats, the tunnel bypass header and the normalization of backend
// payloads into the client's models; stores never touch HTTP themselves.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/liquorlane/liquorfront/internal/models"
)

// The deployment fronts the backend with an ngrok tunnel, which intercepts
// browser-looking requests with a warning page unless this header is set.
const (
	bypassHeader      = "ngrok-skip-browser-warning"
	bypassHeaderValue = "true"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// StatusError is a non-2xx backend response. Callers use it to tell a
// rejected request apart from a transport failure.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Code)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(bypassHeader, bypassHeaderValue)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// LoginResult is the public login response: the identity fields plus the
// issued credentials.
type LoginResult struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	Role         string `json:"role"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/public/api/v1/login", "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, profile models.Profile) error {
	return c.do(ctx, http.MethodPost, "/public/api/v1/signup", "", profile, nil)
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/public/api/v1/allLiquors", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/public/api/v1/liquor/"+strconv.Itoa(id), "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// productPayload is the admin mutation body. Price marshals as a decimal
// string, which is the form those endpoints accept.
type productPayload struct {
	Title       string       `json:"title"`
	Price       models.Price `json:"price"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Quantity    int          `json:"quantity"`
	ImageURL    string       `json:"imageUrl"`
}

func payloadFrom(p models.Product) productPayload {
	return productPayload{
		Title:       p.Title,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Quantity:    p.Quantity,
		ImageURL:    p.ImageURL,
	}
}

func (c *Client) AddProduct(ctx context.Context, token string, p models.Product) (*models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/admin/api/v1/addLiquor", token, payloadFrom(p), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id int, p models.Product) error {
	return c.do(ctx, http.MethodPut, "/admin/api/v1/updateLiquor/"+strconv.Itoa(id), token, payloadFrom(p), nil)
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, "/admin/api/v1/deleteLiquor/"+strconv.Itoa(id), token, nil, nil)
}

// cartLine is the wire shape of a cart entry: the product snapshot arrives
// as a one-element "liquors" array.
type cartLine struct {
	ID       int              `json:"id"`
	Quantity int              `json:"quantity"`
	Liquors  []models.Product `json:"liquors"`
}

func (c *Client) CartItems(ctx context.Context, token string) ([]models.CartItem, error) {
	var lines []cartLine
	if err := c.do(ctx, http.MethodGet, "/cart/api/v1/getCartItems", token, nil, &lines); err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(lines))
	for _, line := range lines {
		item := models.CartItem{ID: line.ID, Quantity: line.Quantity}
		if len(line.Liquors) > 0 {
			item.Product = line.Liquors[0]
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) AddToCart(ctx context.Context, token string, productID, quantity int) error {
	path := fmt.Sprintf("/cart/api/v1/addToCart?liquorId=%d&quantity=%d", productID, quantity)
	return c.do(ctx, http.MethodPost, path, token, nil, nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, token string, lineID int) error {
	return c.do(ctx, http.MethodDelete, "/cart/api/v1/removeFromCart/"+strconv.Itoa(lineID), token, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/cart/api/v1/clearCart", token, nil, nil)
}

// STKPush asks the backend to trigger a mobile-money payment prompt on the
// customer's phone. The amount travels as a number, not a string.
func (c *Client) STKPush(ctx context.Context, token, mobileNumber string, amount models.Price) error {
	body := map[string]any{
		"mobileNumber": mobileNumber,
		"amount":       amount.Float64(),
	}
	return c.do(ctx, http.MethodPost, "/payments/api/v1/stkPush", token, body, nil)
}
