package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pageza/nutriplan/backend/internal/types"
)

// FoodFactsClient queries the public Open Food Facts database.
type FoodFactsClient struct {
	baseURL string
	client  *http.Client
}

func NewFoodFactsClient(baseURL string) *FoodFactsClient {
	return &FoodFactsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// maxFoodFactsBody caps how much of a response is read.
const maxFoodFactsBody = 4 << 20

// offNumber accepts a nutrient sent either as a JSON number or as a string.
type offNumber float64

func (n *offNumber) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		num = json.Number(strings.TrimSpace(s))
	}
	if num == "" {
		*n = 0
		return nil
	}
	f, err := num.Float64()
	if err != nil {
		return fmt.Errorf("invalid nutrient value %q", num)
	}
	*n = offNumber(f)
	return nil
}

type offNutriments struct {
	EnergyKcal100g offNumber `json:"energy-kcal_100g"`
	Proteins100g   offNumber `json:"proteins_100g"`
	Carbs100g      offNumber `json:"carbohydrates_100g"`
	Fat100g        offNumber `json:"fat_100g"`
}

type offProduct struct {
	Code        string        `json:"code"`
	ProductName string        `json:"product_name"`
	Brands      string        `json:"brands"`
	Nutriments  offNutriments `json:"nutriments"`
}

type offSearchResponse struct {
	Products []json.RawMessage `json:"products"`
}

type offProductResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

func (p offProduct) toExternal() (types.ExternalFood, bool) {
	name := strings.TrimSpace(p.ProductName)
	if name == "" {
		return types.ExternalFood{}, false
	}
	brand := strings.TrimSpace(strings.Split(p.Brands, ",")[0])
	return types.ExternalFood{
		Name:     name,
		Brand:    brand,
		Barcode:  p.Code,
		Calories: float64(p.Nutriments.EnergyKcal100g),
		ProteinG: float64(p.Nutriments.Proteins100g),
		CarbsG:   float64(p.Nutriments.Carbs100g),
		FatG:     float64(p.Nutriments.Fat100g),
	}, true
}

func (c *FoodFactsClient) get(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create food facts request: %w", err)
	}
	req.Header.Set("User-Agent", "nutriplan/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call food facts API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFoodFactsBody))
	if err != nil {
		return fmt.Errorf("failed to read food facts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("food facts API error %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse food facts JSON: %w", err)
	}
	return nil
}

// Search runs a full-text product search.
func (c *FoodFactsClient) Search(ctx context.Context, query string, limit int) ([]types.ExternalFood, error) {
	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", fmt.Sprint(limit))
	params.Set("fields", "code,product_name,brands,nutriments")

	var sr offSearchResponse
	if err := c.get(ctx, c.baseURL+"/cgi/search.pl?"+params.Encode(), &sr); err != nil {
		return nil, err
	}

	results := make([]types.ExternalFood, 0, len(sr.Products))
	for _, raw := range sr.Products {
		var p offProduct
		if err := json.Unmarshal(raw, &p); err != nil {
			log.Printf("[FoodFacts] skipping unreadable product: %v", err)
			continue
		}
		if f, ok := p.toExternal(); ok {
			results = append(results, f)
		}
	}
	return results, nil
}

// Lookup fetches one product by barcode. It returns nil when the product is unknown.
func (c *FoodFactsClient) Lookup(ctx context.Context, barcode string) (*types.ExternalFood, error) {
	var pr offProductResponse
	if err := c.get(ctx, c.baseURL+"/api/v2/product/"+url.PathEscape(barcode)+".json", &pr); err != nil {
		return nil, err
	}
	if pr.Status != 1 {
		return nil, nil
	}
	f, ok := pr.Product.toExternal()
	if !ok {
		return nil, nil
	}
	return &f, nil
}
