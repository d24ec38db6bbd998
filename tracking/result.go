package tracking

import (
	"fmt"
	"strings"
)

// QueryParams is the vendor query object.
// The field order is part of the signature and must not change.
type QueryParams struct {
	// Com is the company code
	Com string `json:"com" yaml:"com"`
	// Num is the tracking number
	Num string `json:"num" yaml:"num"`
	// Phone is required by some companies, e.g. SF
	Phone string `json:"phone" yaml:"phone"`
	// From is the origin city
	From string `json:"from" yaml:"from"`
	// To is the destination city
	To string `json:"to" yaml:"to"`
	// ResultV2 enables the area parsing of events
	ResultV2 string `json:"resultv2" yaml:"resultv2"`
	// Show is the response format, 0 for JSON
	Show string `json:"show" yaml:"show"`
	// Order of events: desc or asc
	Order string `json:"order" yaml:"order"`
}

// Event is one entry of the shipment history.
type Event struct {
	Context    string `json:"context" yaml:"context"`
	Time       string `json:"time" yaml:"time"`
	FTime      string `json:"ftime" yaml:"ftime"`
	Status     string `json:"status,omitempty" yaml:"status,omitempty"`
	StatusCode string `json:"statusCode,omitempty" yaml:"status_code,omitempty"`
	AreaCode   string `json:"areaCode,omitempty" yaml:"area_code,omitempty"`
	AreaName   string `json:"areaName,omitempty" yaml:"area_name,omitempty"`
	AreaCenter string `json:"areaCenter,omitempty" yaml:"area_center,omitempty"`
	Location   string `json:"location,omitempty" yaml:"location,omitempty"`
	AreaPinYin string `json:"areaPinYin,omitempty" yaml:"area_pinyin,omitempty"`
}

// QueryResult is the vendor response.
type QueryResult struct {
	Message   string  `json:"message" yaml:"message"`
	State     string  `json:"state" yaml:"state"`
	Status    string  `json:"status" yaml:"status"`
	Condition string  `json:"condition" yaml:"condition"`
	IsCheck   string  `json:"ischeck" yaml:"ischeck"`
	Com       string  `json:"com" yaml:"com"`
	Nu        string  `json:"nu" yaml:"nu"`
	Data      []Event `json:"data" yaml:"data"`

	// Result and ReturnCode are only set on rejected queries
	Result     *bool  `json:"result,omitempty" yaml:"result,omitempty"`
	ReturnCode string `json:"returnCode,omitempty" yaml:"return_code,omitempty"`
}

// Rejected returns true when the vendor refused the query.
func (r *QueryResult) Rejected() bool {
	return r.Result != nil && !*r.Result
}

// Response is the outcome of a query.
// Result is nil when the body could not be parsed,
// in this case Raw is the only content.
type Response struct {
	Result *QueryResult `json:"result,omitempty" yaml:"result,omitempty"`
	Raw    string       `json:"-" yaml:"-"`
}

var stateLabels = []struct {
	state string
	label string
}{
	{"0", "在途"},
	{"1", "揽收"},
	{"2", "疑难"},
	{"3", "签收"},
	{"4", "退签"},
	{"5", "派件"},
	{"6", "退回"},
	{"7", "转投"},
	{"8", "清关"},
	{"14", "拒签"},
}

// StateLabel returns the Chinese label of the shipment state,
// or empty string for unknown state.
func StateLabel(state string) string {
	for _, s := range stateLabels {
		if s.state == state {
			return s.label
		}
	}
	return ""
}

// String returns the event history, one block per event.
func (r *Response) String() string {
	if r.Result == nil {
		return r.Raw
	}
	if len(r.Result.Data) == 0 {
		msg := r.Result.Message
		if label := StateLabel(r.Result.State); label != "" {
			msg += "，状态：" + label
		}
		return msg
	}

	events := make([]string, len(r.Result.Data))
	for i, e := range r.Result.Data {
		events[i] = fmt.Sprintf("[%d] %s\n    详情：%s", i+1, e.FTime, e.Context)
	}
	return strings.Join(events, "\n\n")
}

// Summary returns the shipment headline followed by the event history.
func (r *Response) Summary() string {
	if r.Result == nil || len(r.Result.Data) == 0 {
		return r.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "快递单号：%s（%s）", r.Result.Nu, r.Result.Com)
	if label := StateLabel(r.Result.State); label != "" {
		fmt.Fprintf(&b, "，状态：%s", label)
	}
	b.WriteString("\n\n")
	b.WriteString(r.String())
	return b.String()
}
