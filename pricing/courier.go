package pricing

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDivisor is the volumetric divisor used for unknown couriers.
const DefaultDivisor = 8000

// Courier names with special pricing policies.
const (
	// FlatRateCourier charges FlatRate for any weight within Jiangsu, Zhejiang and Shanghai.
	FlatRateCourier = "圆通"
	// BulkDiscountCourier discounts parcels above BulkThreshold kg.
	BulkDiscountCourier = "德邦"
)

// Pricing constants, in yuan and kg.
var (
	FlatRate          = decimal.NewFromInt(8)
	RemoteSurcharge   = decimal.NewFromInt(10)
	BulkThreshold     = 20
	BulkDiscountPerKg = decimal.NewFromFloat(0.5)
	BulkDiscountCap   = decimal.NewFromFloat(0.3)
)

// RateTable specifies the first-weight and additional-weight rates of a courier.
type RateTable struct {
	SameCity         decimal.Decimal `json:"sameCityRate" yaml:"same_city_rate"`
	SameProvince     decimal.Decimal `json:"sameProvinceRate" yaml:"same_province_rate"`
	CrossProvince    decimal.Decimal `json:"crossProvinceRate" yaml:"cross_province_rate"`
	AdditionalWeight decimal.Decimal `json:"additionalWeightRate" yaml:"additional_weight_rate"`
}

// Courier describes a courier known to the estimator.
type Courier struct {
	// Name is the human readable name
	Name string `json:"name" yaml:"name"`
	// Code is the company code used by the tracking API
	Code    string    `json:"code" yaml:"code"`
	Rates   RateTable `json:"rates" yaml:"rates"`
	Divisor float64   `json:"divisor" yaml:"divisor"`
}

func rates(sameCity, sameProvince, crossProvince, additional float64) RateTable {
	return RateTable{
		SameCity:         decimal.NewFromFloat(sameCity),
		SameProvince:     decimal.NewFromFloat(sameProvince),
		CrossProvince:    decimal.NewFromFloat(crossProvince),
		AdditionalWeight: decimal.NewFromFloat(additional),
	}
}

// couriers is the closed set of supported couriers, in comparison order.
var couriers = []Courier{
	{Name: "顺丰", Code: "shunfeng", Rates: rates(12, 14, 22, 8), Divisor: 6000},
	{Name: "京东", Code: "jd", Rates: rates(10, 12, 18, 6), Divisor: 8000},
	{Name: "中通", Code: "zhongtong", Rates: rates(6, 7, 10, 4), Divisor: 8000},
	{Name: "圆通", Code: "yuantong", Rates: rates(8, 9, 11, 4), Divisor: 8000},
	{Name: "韵达", Code: "yunda", Rates: rates(5, 6, 9, 4), Divisor: 8000},
	{Name: "申通", Code: "shentong", Rates: rates(5, 6, 9, 3.5), Divisor: 8000},
	{Name: "极兔", Code: "jtexpress", Rates: rates(5, 6, 8, 3), Divisor: 8000},
	{Name: "邮政", Code: "youzhengguonei", Rates: rates(8, 10, 12, 5), Divisor: 8000},
	{Name: "EMS", Code: "ems", Rates: rates(15, 18, 25, 10), Divisor: 6000},
	{Name: "德邦", Code: "debangkuaidi", Rates: rates(10, 12, 18, 3), Divisor: 6000},
}

// Couriers returns a copy of the courier table.
func Couriers() []Courier {
	return slices.Clone(couriers)
}

// CourierNames returns the courier names in comparison order.
func CourierNames() []string {
	names := make([]string, len(couriers))
	for i, c := range couriers {
		names[i] = c.Name
	}
	return names
}

// FindCourier returns the courier by name or by company code.
func FindCourier(nameOrCode string) (*Courier, bool) {
	for i := range couriers {
		c := &couriers[i]
		if c.Name == nameOrCode || strings.EqualFold(c.Code, nameOrCode) {
			cp := *c
			return &cp, true
		}
	}
	return nil, false
}

// Divisor returns the volumetric divisor of the courier,
// or DefaultDivisor if the courier is not known.
func Divisor(courier string) float64 {
	if c, ok := FindCourier(courier); ok && c.Divisor > 0 {
		return c.Divisor
	}
	return DefaultDivisor
}

// Card is the published rate card.
type Card struct {
	Couriers            []Courier       `json:"couriers" yaml:"couriers"`
	DefaultDivisor      float64         `json:"defaultDivisor" yaml:"default_divisor"`
	RemoteSurcharge     decimal.Decimal `json:"remoteSurcharge" yaml:"remote_surcharge"`
	FlatRateCourier     string          `json:"flatRateCourier" yaml:"flat_rate_courier"`
	FlatRate            decimal.Decimal `json:"flatRate" yaml:"flat_rate"`
	BulkDiscountCourier string          `json:"bulkDiscountCourier" yaml:"bulk_discount_courier"`
	BulkThreshold       int             `json:"bulkThreshold" yaml:"bulk_threshold"`
	BulkDiscountPerKg   decimal.Decimal `json:"bulkDiscountPerKg" yaml:"bulk_discount_per_kg"`
	BulkDiscountCap     decimal.Decimal `json:"bulkDiscountCap" yaml:"bulk_discount_cap"`
}

// RateCard returns the rate tables and the special policies.
func RateCard() *Card {
	return &Card{
		Couriers:            Couriers(),
		DefaultDivisor:      DefaultDivisor,
		RemoteSurcharge:     RemoteSurcharge,
		FlatRateCourier:     FlatRateCourier,
		FlatRate:            FlatRate,
		BulkDiscountCourier: BulkDiscountCourier,
		BulkThreshold:       BulkThreshold,
		BulkDiscountPerKg:   BulkDiscountPerKg,
		BulkDiscountCap:     BulkDiscountCap,
	}
}
