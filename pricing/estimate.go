// Package pricing estimates courier shipping prices from static rate tables,
// volumetric weight and the geography of the origin and destination.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/expressmcp/geo"
	"github.com/shopspring/decimal"
)

// ErrUnknownCourier is returned when the courier has no rate table.
var ErrUnknownCourier = errors.New("unknown courier")

// ErrWeightOutOfRange is returned when the weight is not a number
// or exceeds MaxChargeableWeight.
var ErrWeightOutOfRange = errors.New("weight out of range")

// PriceQuote is the estimated price of one courier.
type PriceQuote struct {
	Courier              string          `json:"courier" yaml:"courier" toml:"courier"`
	Code                 string          `json:"code" yaml:"code" toml:"code"`
	Price                decimal.Decimal `json:"price" yaml:"price" toml:"price"`
	FirstWeightRate      decimal.Decimal `json:"firstWeightRate" yaml:"first_weight_rate" toml:"first_weight_rate"`
	AdditionalWeightRate decimal.Decimal `json:"additionalWeightRate" yaml:"additional_weight_rate" toml:"additional_weight_rate"`
	VolumetricWeight     float64         `json:"volumetricWeight" yaml:"volumetric_weight" toml:"volumetric_weight"`
	ChargeableWeight     int             `json:"chargeableWeight" yaml:"chargeable_weight" toml:"chargeable_weight"`
	IsRemote             bool            `json:"isRemote" yaml:"is_remote" toml:"is_remote"`
	IsSameProvince       bool            `json:"isSameProvince" yaml:"is_same_province" toml:"is_same_province"`
	IsSameCity           bool            `json:"isSameCity" yaml:"is_same_city" toml:"is_same_city"`
	Description          string          `json:"description" yaml:"description" toml:"description"`
}

// estimation carries the state through the pricing steps
type estimation struct {
	courier          *Courier
	from, to         string
	actualWeight     float64
	volumetricWeight float64

	isSameCity     bool
	isSameProvince bool
	isRemote       bool
	flatRate       bool

	firstWeight decimal.Decimal
	chargeable  int
	price       decimal.Decimal
	discount    decimal.Decimal
}

type step func(e *estimation)

// steps are applied in order, each one may depend on the previous.
var steps = []step{
	resolveGeography,
	selectFirstWeightRate,
	applyFlatRate,
	applyRemoteSurcharge,
	computeChargeableWeight,
	computeWeightPrice,
	applyBulkDiscount,
	roundPrice,
}

// Estimate returns the price quote of the courier for a package.
func Estimate(courier string, actualWeight, volumetricWeight float64, from, to string) (*PriceQuote, error) {
	c, ok := FindCourier(courier)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCourier, "%q", courier)
	}
	if w := math.Max(actualWeight, volumetricWeight); math.IsNaN(w) || w > MaxChargeableWeight {
		return nil, errors.Wrapf(ErrWeightOutOfRange, "%g kg", w)
	}

	e := &estimation{
		courier:          c,
		from:             from,
		to:               to,
		actualWeight:     actualWeight,
		volumetricWeight: volumetricWeight,
	}
	for _, s := range steps {
		s(e)
	}

	return &PriceQuote{
		Courier:              c.Name,
		Code:                 c.Code,
		Price:                e.price,
		FirstWeightRate:      e.firstWeight,
		AdditionalWeightRate: c.Rates.AdditionalWeight,
		VolumetricWeight:     volumetricWeight,
		ChargeableWeight:     e.chargeable,
		IsRemote:             e.isRemote,
		IsSameProvince:       e.isSameProvince,
		IsSameCity:           e.isSameCity,
		Description:          e.describe(),
	}, nil
}

func resolveGeography(e *estimation) {
	e.isSameCity = e.from != "" && e.from == e.to
	e.isSameProvince = geo.IsSameProvince(e.from, e.to)
	e.isRemote = geo.IsRemoteArea(e.to)
}

func selectFirstWeightRate(e *estimation) {
	switch {
	case e.isSameCity:
		e.firstWeight = e.courier.Rates.SameCity
	case e.isSameProvince:
		e.firstWeight = e.courier.Rates.SameProvince
	default:
		e.firstWeight = e.courier.Rates.CrossProvince
	}
}

func applyFlatRate(e *estimation) {
	if e.courier.Name == FlatRateCourier && geo.IsSpecialRegionPair(e.from, e.to) {
		e.flatRate = true
		e.firstWeight = FlatRate
	}
}

func applyRemoteSurcharge(e *estimation) {
	if e.isRemote {
		e.firstWeight = e.firstWeight.Add(RemoteSurcharge)
	}
}

func computeChargeableWeight(e *estimation) {
	e.chargeable = ChargeableWeight(e.actualWeight, e.volumetricWeight)
}

func computeWeightPrice(e *estimation) {
	if e.flatRate || e.chargeable <= 1 {
		e.price = e.firstWeight
		return
	}
	extra := decimal.NewFromInt(int64(e.chargeable - 1)).Mul(e.courier.Rates.AdditionalWeight)
	e.price = e.firstWeight.Add(extra)
}

func applyBulkDiscount(e *estimation) {
	if e.courier.Name != BulkDiscountCourier || e.chargeable <= BulkThreshold {
		return
	}
	perKg := decimal.NewFromInt(int64(e.chargeable - BulkThreshold)).Mul(BulkDiscountPerKg)
	e.discount = decimal.Min(perKg, e.price.Mul(BulkDiscountCap))
	e.price = e.price.Sub(e.discount)
}

func roundPrice(e *estimation) {
	e.price = e.price.Round(2)
}

func (e *estimation) describe() string {
	parts := []string{fmt.Sprintf("首重%s元", e.firstWeight.String())}
	if e.chargeable > 1 && !e.flatRate {
		parts = append(parts, fmt.Sprintf("续重%s元/kg", e.courier.Rates.AdditionalWeight.String()))
	}

	switch {
	case e.isSameCity:
		parts = append(parts, "同城")
	case e.isSameProvince:
		parts = append(parts, "省内")
	default:
		parts = append(parts, "跨省")
	}
	if e.isRemote {
		parts = append(parts, fmt.Sprintf("偏远地区加收%s元", RemoteSurcharge.String()))
	}
	if e.volumetricWeight > e.actualWeight {
		parts = append(parts, fmt.Sprintf("按体积重%.1fkg计费", e.volumetricWeight))
	}
	if e.flatRate {
		parts = append(parts, fmt.Sprintf("江浙沪特惠%s元不限重", FlatRate.String()))
	}
	if e.discount.IsPositive() {
		parts = append(parts, fmt.Sprintf("大件优惠%s元", e.discount.Round(2).String()))
	}
	return strings.Join(parts, "，")
}
