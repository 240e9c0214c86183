// internal/commerce/address.go
package commerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// AddressUnit represents one level of the address hierarchy. Cities,
// districts and wards all share this shape; districts and wards are looked
// up relative to their parent's code.
type AddressUnit struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// GetCities retrieves all cities
func (c *Client) GetCities(ctx context.Context) ([]AddressUnit, error) {
	var data struct {
		Cities []AddressUnit `json:"cities"`
	}
	if err := c.do(ctx, http.MethodGet, "/city", "", nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Cities, nil
}

// GetDistricts retrieves the districts of a city
func (c *Client) GetDistricts(ctx context.Context, parentCode int) ([]AddressUnit, error) {
	query := url.Values{}
	query.Set("parentCode", strconv.Itoa(parentCode))

	var data struct {
		Districts []AddressUnit `json:"districts"`
	}
	if err := c.do(ctx, http.MethodGet, "/district", "", query, nil, &data); err != nil {
		return nil, err
	}
	return data.Districts, nil
}

// GetWards retrieves the wards of a district
func (c *Client) GetWards(ctx context.Context, parentCode int) ([]AddressUnit, error) {
	query := url.Values{}
	query.Set("parentCode", strconv.Itoa(parentCode))

	var data struct {
		Wards []AddressUnit `json:"wards"`
	}
	if err := c.do(ctx, http.MethodGet, "/ward", "", query, nil, &data); err != nil {
		return nil, err
	}
	return data.Wards, nil
}
