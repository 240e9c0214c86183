// internal/commerce/order.go
package commerce

import (
	"context"
	"fmt"
	"net/http"
)

// OrderInfo is the recipient/payment section of an order request
type OrderInfo struct {
	PaymentMethod   string `json:"paymentMethod"`
	ReceiverName    string `json:"receiverName"`
	ReceiverPhone   string `json:"receiverPhone"`
	ReceiverAddress string `json:"receiverAddress"`
	IsFreeShip      bool   `json:"isFreeShip"`
	Note            string `json:"note"`
}

// OrderDetail is one product line of an order request
type OrderDetail struct {
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
}

// OrderRequest is the payload shared by the estimate and create endpoints
type OrderRequest struct {
	Order                OrderInfo     `json:"order"`
	Details              []OrderDetail `json:"details"`
	CityID               *int          `json:"cityId"`
	DistrictID           *int          `json:"districtId"`
	WardID               *int          `json:"wardId"`
	StoreID              int           `json:"storeId"`
	PromotionCampaignIDs []int         `json:"promotionCampaignIds"`
}

// Estimate is the platform-computed pricing for an order under construction
type Estimate struct {
	MoneyProduct  float64 `json:"moneyProduct"`
	ShipFee       float64 `json:"shipFee"`
	MoneyTax      float64 `json:"moneyTax"`
	MoneyVat      float64 `json:"moneyVat"`
	MoneyDiscount float64 `json:"moneyDiscount"`
	MoneyFinal    float64 `json:"moneyFinal"`
	TotalPoints   int     `json:"totalPoints"`
	PaymentMethod string  `json:"paymentMethod"`
	Status        string  `json:"status"`
}

// CreatedOrder is the platform's record of a successfully placed order
type CreatedOrder struct {
	ID                  int     `json:"id"`
	Code                string  `json:"code"`
	MoneyFinal          float64 `json:"moneyFinal"`
	Status              string  `json:"status"`
	PaymentMethod       string  `json:"paymentMethod"`
	EstimatedDeliveryAt string  `json:"estimatedDeliveryAt,omitempty"`
}

// OrderLine is one product line of a placed order
type OrderLine struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	FinalPrice float64 `json:"finalPrice"`
	Quantity   int     `json:"quantity"`
	ImageURL   string  `json:"imageUrl"`
}

// Order represents a placed order as returned by the history endpoints
type Order struct {
	ID                  int         `json:"id"`
	Code                string      `json:"code"`
	PaymentMethod       string      `json:"paymentMethod"`
	DeliveryType        string      `json:"deliveryType"`
	ReceiverName        string      `json:"receiverName"`
	ReceiverPhone       string      `json:"receiverPhone"`
	ReceiverAddress     string      `json:"receiverAddress"`
	Note                string      `json:"note"`
	IsFreeShip          bool        `json:"isFreeShip"`
	Status              string      `json:"status"`
	MoneyFinal          float64     `json:"moneyFinal"`
	EstimatedDeliveryAt string      `json:"estimatedDeliveryAt,omitempty"`
	CreatedAt           int64       `json:"createdAt"`
	Details             []OrderLine `json:"details"`
}

// EstimateOrder asks the platform to compute pricing for the given order and
// cart contents. Nothing is persisted on the platform side.
func (c *Client) EstimateOrder(ctx context.Context, token string, req OrderRequest) (*Estimate, error) {
	c.applyDefaults(&req)

	var estimate Estimate
	if err := c.do(ctx, http.MethodPost, "/order/estimate", token, nil, req, &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}

// CreateOrder places the order on the platform
func (c *Client) CreateOrder(ctx context.Context, token string, req OrderRequest) (*CreatedOrder, error) {
	c.applyDefaults(&req)

	var created CreatedOrder
	if err := c.do(ctx, http.MethodPost, "/order", token, nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetOrders retrieves the authenticated customer's order history
func (c *Client) GetOrders(ctx context.Context, token string) ([]Order, error) {
	var data struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/order", token, nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Orders, nil
}

// GetOrder retrieves one placed order by id
func (c *Client) GetOrder(ctx context.Context, token string, id int) (*Order, error) {
	var order Order
	path := fmt.Sprintf("/order/%d", id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// applyDefaults fills in the platform constants the request omits
func (c *Client) applyDefaults(req *OrderRequest) {
	if req.StoreID == 0 {
		req.StoreID = c.storeID
	}
	if req.PromotionCampaignIDs == nil {
		req.PromotionCampaignIDs = []int{}
	}
	if req.Details == nil {
		req.Details = []OrderDetail{}
	}
}
