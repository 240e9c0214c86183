// internal/commerce/auth.go
package commerce

import (
	"context"
	"fmt"
	"net/http"
)

// LoginRequest represents the credentials sent to the platform
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Customer represents a registered customer profile
type Customer struct {
	ID       int    `json:"id"`
	Code     string `json:"code"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Avatar   string `json:"avatar"`
}

// RegisterRequest represents a new customer registration
type RegisterRequest struct {
	Customer      RegisterCustomer `json:"customer"`
	RefCustomerID int              `json:"refCustomerId"`
}

// RegisterCustomer is the customer section of a registration request
type RegisterCustomer struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login authenticates a customer and returns the platform access token
func (c *Client) Login(ctx context.Context, phone, password string) (string, error) {
	var env envelope
	req := LoginRequest{Phone: phone, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, req, &env); err != nil {
		return "", err
	}
	if env.Token == "" {
		return "", fmt.Errorf("login response did not include a token")
	}
	return env.Token, nil
}

// Register creates a new customer account
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", "", nil, req, nil)
}

// GetProfile retrieves the authenticated customer's profile
func (c *Client) GetProfile(ctx context.Context, token string) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodGet, "/auth/profile", token, nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Logout invalidates the platform access token
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, struct{}{}, nil)
}
