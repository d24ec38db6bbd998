// Package geo resolves free-text Chinese addresses to provinces and regions,
// and provides the area predicates used by the price estimator.
package geo

import (
	"slices"
	"strings"
)

// Region is one of the seven macro-regions of mainland China.
type Region string

// Regions
const (
	RegionEast      Region = "华东"
	RegionNorth     Region = "华北"
	RegionCentral   Region = "华中"
	RegionSouth     Region = "华南"
	RegionSouthwest Region = "西南"
	RegionNorthwest Region = "西北"
	RegionNortheast Region = "东北"
)

// Province describes a province-level division.
type Province struct {
	Name   string `json:"name" yaml:"name"`
	Region Region `json:"region" yaml:"region"`
	// Code is the administrative division code, informational only.
	Code string `json:"code" yaml:"code"`
}

// provinces is scanned in order, the first prefix match wins.
var provinces = []Province{
	{Name: "上海", Region: RegionEast, Code: "310000"},
	{Name: "江苏", Region: RegionEast, Code: "320000"},
	{Name: "浙江", Region: RegionEast, Code: "330000"},
	{Name: "安徽", Region: RegionEast, Code: "340000"},
	{Name: "福建", Region: RegionEast, Code: "350000"},
	{Name: "江西", Region: RegionEast, Code: "360000"},
	{Name: "山东", Region: RegionEast, Code: "370000"},
	{Name: "台湾", Region: RegionEast, Code: "710000"},

	{Name: "北京", Region: RegionNorth, Code: "110000"},
	{Name: "天津", Region: RegionNorth, Code: "120000"},
	{Name: "河北", Region: RegionNorth, Code: "130000"},
	{Name: "山西", Region: RegionNorth, Code: "140000"},
	{Name: "内蒙古", Region: RegionNorth, Code: "150000"},

	{Name: "河南", Region: RegionCentral, Code: "410000"},
	{Name: "湖北", Region: RegionCentral, Code: "420000"},
	{Name: "湖南", Region: RegionCentral, Code: "430000"},

	{Name: "广东", Region: RegionSouth, Code: "440000"},
	{Name: "广西", Region: RegionSouth, Code: "450000"},
	{Name: "海南", Region: RegionSouth, Code: "460000"},
	{Name: "香港", Region: RegionSouth, Code: "810000"},
	{Name: "澳门", Region: RegionSouth, Code: "820000"},

	{Name: "重庆", Region: RegionSouthwest, Code: "500000"},
	{Name: "四川", Region: RegionSouthwest, Code: "510000"},
	{Name: "贵州", Region: RegionSouthwest, Code: "520000"},
	{Name: "云南", Region: RegionSouthwest, Code: "530000"},
	{Name: "西藏", Region: RegionSouthwest, Code: "540000"},

	{Name: "陕西", Region: RegionNorthwest, Code: "610000"},
	{Name: "甘肃", Region: RegionNorthwest, Code: "620000"},
	{Name: "青海", Region: RegionNorthwest, Code: "630000"},
	{Name: "宁夏", Region: RegionNorthwest, Code: "640000"},
	{Name: "新疆", Region: RegionNorthwest, Code: "650000"},

	{Name: "辽宁", Region: RegionNortheast, Code: "210000"},
	{Name: "吉林", Region: RegionNortheast, Code: "220000"},
	{Name: "黑龙江", Region: RegionNortheast, Code: "230000"},
}

// municipalities are checked before the province table.
var municipalities = []string{"北京", "上海", "天津", "重庆"}

type abbreviation struct {
	prefix   string
	province string
}

// abbreviations are checked last, in order.
var abbreviations = []abbreviation{
	{"浙", "浙江"},
	{"苏", "江苏"},
	{"粤", "广东"},
	{"鲁", "山东"},
	{"皖", "安徽"},
	{"闽", "福建"},
	{"赣", "江西"},
	{"冀", "河北"},
	{"豫", "河南"},
	{"鄂", "湖北"},
	{"湘", "湖南"},
	{"琼", "海南"},
	{"川", "四川"},
	{"蜀", "四川"},
	{"黔", "贵州"},
	{"滇", "云南"},
	{"陕", "陕西"},
	{"甘", "甘肃"},
	{"辽", "辽宁"},
	{"吉", "吉林"},
	{"黑", "黑龙江"},
}

var (
	remoteProvinces     = []string{"西藏", "新疆", "青海", "宁夏", "内蒙古"}
	jiangZheHuProvinces = []string{"江苏", "浙江", "上海"}
	provinceIndexByName = buildIndex()
)

func buildIndex() map[string]int {
	idx := make(map[string]int, len(provinces))
	for i, p := range provinces {
		idx[p.Name] = i
	}
	return idx
}

// Provinces returns a copy of the province table, in lookup order.
func Provinces() []Province {
	return slices.Clone(provinces)
}

// Lookup returns the province with the exact name.
func Lookup(name string) (*Province, bool) {
	i, ok := provinceIndexByName[name]
	if !ok {
		return nil, false
	}
	p := provinces[i]
	return &p, true
}

// ResolveProvince finds the province an address starts with.
// It returns false when the address cannot be resolved,
// callers should treat that as unknown geography.
func ResolveProvince(address string) (*Province, bool) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, false
	}

	for _, city := range municipalities {
		if strings.HasPrefix(address, city) {
			return Lookup(city)
		}
	}

	for i := range provinces {
		if strings.HasPrefix(address, provinces[i].Name) {
			p := provinces[i]
			return &p, true
		}
	}

	for _, a := range abbreviations {
		if strings.HasPrefix(address, a.prefix) {
			return Lookup(a.province)
		}
	}

	return nil, false
}

func resolveName(address string) string {
	if p, ok := ResolveProvince(address); ok {
		return p.Name
	}
	return ""
}

// IsSameProvince returns true if both addresses are equal,
// or resolve to the same province. Empty addresses never match.
func IsSameProvince(from, to string) bool {
	if from == "" || to == "" {
		return false
	}
	if from == to {
		return true
	}
	fp := resolveName(from)
	return fp != "" && fp == resolveName(to)
}

// IsSameRegion returns true if both addresses resolve to provinces in the same region.
func IsSameRegion(from, to string) bool {
	fp, ok := ResolveProvince(from)
	if !ok {
		return false
	}
	tp, ok := ResolveProvince(to)
	if !ok {
		return false
	}
	return fp.Region == tp.Region
}

// IsRemoteArea returns true if the address is in a remote province.
func IsRemoteArea(address string) bool {
	name := resolveName(address)
	return name != "" && slices.Contains(remoteProvinces, name)
}

// IsJiangZheHu returns true if the address is in Jiangsu, Zhejiang or Shanghai.
func IsJiangZheHu(address string) bool {
	name := resolveName(address)
	return name != "" && slices.Contains(jiangZheHuProvinces, name)
}

// IsSpecialRegionPair returns true if both addresses are in Jiangsu, Zhejiang or Shanghai.
func IsSpecialRegionPair(from, to string) bool {
	return IsJiangZheHu(from) && IsJiangZheHu(to)
}
