package tracking

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/expressmcp/utils"
)

// ErrUnsupportedCompany is returned for a Chinese company name
// that has no known company code.
var ErrUnsupportedCompany = errors.New("unsupported express company")

// Company maps a company name to the vendor company code.
type Company struct {
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}

// companies is matched in order
var companies = []Company{
	{Name: "中通", Code: "zhongtong"},
	{Name: "圆通", Code: "yuantong"},
	{Name: "韵达", Code: "yunda"},
	{Name: "申通", Code: "shentong"},
	{Name: "顺丰", Code: "shunfengkuaiyun"},
	{Name: "邮政", Code: "youzhengguonei"},
	{Name: "ems", Code: "ems"},
	{Name: "极兔", Code: "jtexpress"},
	{Name: "京东", Code: "jd"},
	{Name: "中通快递", Code: "zhongtong"},
	{Name: "圆通快递", Code: "yuantong"},
	{Name: "韵达快递", Code: "yunda"},
	{Name: "申通快递", Code: "shentong"},
	{Name: "顺丰快递", Code: "shunfengkuaiyun"},
	{Name: "邮政快递", Code: "youzhengguonei"},
	{Name: "极兔快递", Code: "jtexpress"},
	{Name: "京东快递", Code: "jd"},
}

// Companies returns the supported company names with their codes.
func Companies() []Company {
	res := make([]Company, len(companies))
	copy(res, companies)
	return res
}

// CompanyCode returns the vendor code for the company.
// A name written in Chinese must be one of the supported companies,
// any other value is treated as a company code and returned as is.
func CompanyCode(nameOrCode string) (string, error) {
	name := strings.TrimSpace(nameOrCode)
	if !utils.ContainsHan(name) {
		return name, nil
	}
	for _, c := range companies {
		if c.Name == name {
			return c.Code, nil
		}
	}
	return "", errors.Wrapf(ErrUnsupportedCompany, "%q", name)
}
