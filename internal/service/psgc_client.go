package service

import (
	"context"
	"fmt"

	"rbi-data/internal/config"
	"rbi-data/internal/domain"

	"github.com/go-resty/resty/v2"
)

// PSGCClient fetches geographic reference data from the PSA PSGC
// publication API (quarterly releases).
type PSGCClient interface {
	FetchRegions(ctx context.Context) ([]*domain.Region, error)
	FetchProvinces(ctx context.Context, regionCode string) ([]*domain.Province, error)
	FetchCities(ctx context.Context, provinceCode string) ([]*domain.City, error)
	FetchBarangays(ctx context.Context, cityCode string) ([]*domain.Barangay, error)
}

// psgcEntry wire shape of one PSGC API record. The same shape is used at
// every level; irrelevant fields are empty.
type psgcEntry struct {
	Code                 string `json:"code"`
	Name                 string `json:"name"`
	RegionCode           string `json:"regionCode"`
	ProvinceCode         string `json:"provinceCode"`
	CityCode             string `json:"cityCode"`
	MunicipalityCode     string `json:"municipalityCode"`
	CityClass            string `json:"cityClass"`
	IncomeClassification string `json:"incomeClassification"`
	UrbanRural           string `json:"urbanRural"`
}

type psgcClient struct {
	client *resty.Client
}

func NewPSGCClient(cfg config.PSGCConfig) PSGCClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2)
	return &psgcClient{client: client}
}

func (c *psgcClient) fetch(ctx context.Context, path string) ([]psgcEntry, error) {
	var entries []psgcEntry
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&entries).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("psgc request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("psgc request failed: %s returned %d", path, resp.StatusCode())
	}
	return entries, nil
}

func (c *psgcClient) FetchRegions(ctx context.Context) ([]*domain.Region, error) {
	entries, err := c.fetch(ctx, "/regions.json")
	if err != nil {
		return nil, err
	}
	regions := make([]*domain.Region, 0, len(entries))
	for _, e := range entries {
		regions = append(regions, &domain.Region{Code: e.Code, Name: e.Name})
	}
	return regions, nil
}

func (c *psgcClient) FetchProvinces(ctx context.Context, regionCode string) ([]*domain.Province, error) {
	entries, err := c.fetch(ctx, fmt.Sprintf("/regions/%s/provinces.json", regionCode))
	if err != nil {
		return nil, err
	}
	provinces := make([]*domain.Province, 0, len(entries))
	for _, e := range entries {
		provinces = append(provinces, &domain.Province{
			Code:       e.Code,
			RegionCode: regionCode,
			Name:       e.Name,
		})
	}
	return provinces, nil
}

func (c *psgcClient) FetchCities(ctx context.Context, provinceCode string) ([]*domain.City, error) {
	entries, err := c.fetch(ctx, fmt.Sprintf("/provinces/%s/cities-municipalities.json", provinceCode))
	if err != nil {
		return nil, err
	}
	cities := make([]*domain.City, 0, len(entries))
	for _, e := range entries {
		cities = append(cities, &domain.City{
			Code:         e.Code,
			ProvinceCode: provinceCode,
			Name:         e.Name,
			CityClass:    e.CityClass,
			IncomeClass:  e.IncomeClassification,
		})
	}
	return cities, nil
}

func (c *psgcClient) FetchBarangays(ctx context.Context, cityCode string) ([]*domain.Barangay, error) {
	entries, err := c.fetch(ctx, fmt.Sprintf("/cities-municipalities/%s/barangays.json", cityCode))
	if err != nil {
		return nil, err
	}
	barangays := make([]*domain.Barangay, 0, len(entries))
	for _, e := range entries {
		b := &domain.Barangay{
			Code:     e.Code,
			CityCode: cityCode,
			Name:     e.Name,
		}
		switch e.UrbanRural {
		case "Urban":
			v := true
			b.Urban = &v
		case "Rural":
			v := false
			b.Urban = &v
		}
		barangays = append(barangays, b)
	}
	return barangays, nil
}
