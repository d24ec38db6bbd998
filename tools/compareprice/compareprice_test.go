package compareprice_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/expressmcp/tools"
	"github.com/effective-security/expressmcp/tools/compareprice"
	"github.com/effective-security/expressmcp/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTool(t *testing.T) {
	ctx := context.Background()
	tool := compareprice.New()

	assert.Equal(t, compareprice.ToolName, tool.Name())
	assert.NotEmpty(t, tool.Description())

	params := utils.ToJSONIndent(tool.Parameters())
	for _, name := range []string{"weight", "length", "width", "height", "from", "to", "format"} {
		assert.Contains(t, params, `"`+name+`"`)
	}

	res, err := tool.Run(ctx, &compareprice.Request{From: " 上海", To: "上海"})
	require.NoError(t, err)
	assert.Equal(t, "上海", res.From)
	assert.Equal(t, 1.0, res.Weight)
	require.Len(t, res.Quotes, 10)
	assert.Equal(t, "韵达", res.Quotes[0].Courier)
	assert.Equal(t, "EMS", res.Quotes[9].Courier)
}

func TestTool_Text(t *testing.T) {
	ctx := context.Background()
	tool := compareprice.New()

	text, err := tool.Call(ctx, `{"from":"上海","to":"上海"}`)
	require.NoError(t, err)

	exp := "上海 → 上海 快递价格比较（共10家，按价格从低到高）\n\n" +
		"1. 韵达：5.00元，计费重量1kg\n   首重5元，同城\n" +
		"2. 申通：5.00元，计费重量1kg\n   首重5元，同城\n"
	assert.True(t, strings.HasPrefix(text, exp), text)
	assert.Contains(t, text, "5. 圆通：8.00元，计费重量1kg\n   首重8元，同城，江浙沪特惠8元不限重\n")
	assert.True(t, strings.HasSuffix(text, "10. EMS：15.00元，计费重量1kg\n   首重15元，同城"), text)

	resp, err := tool.RunMCP(ctx, &compareprice.Request{From: "上海", To: "上海"})
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)
	require.NotNil(t, resp.Content[0].TextContent)
	assert.Equal(t, text, resp.Content[0].TextContent.Text)
}

func TestTool_Formats(t *testing.T) {
	ctx := context.Background()
	tool := compareprice.New()

	text, err := tool.Call(ctx, `{"weight":1,"length":30,"width":20,"height":15,"from":"上海","to":"北京","format":"json"}`)
	require.NoError(t, err)

	var res compareprice.Result
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	assert.Equal(t, "北京", res.To)
	require.Len(t, res.Quotes, 10)
	for _, q := range res.Quotes {
		if q.Courier == "中通" {
			assert.Equal(t, "14.00", q.Price.StringFixed(2))
			assert.Equal(t, 2, q.ChargeableWeight)
			assert.Equal(t, 1.2, q.VolumetricWeight)
		}
	}

	text, err = tool.Call(ctx, `{"from":"上海","to":"北京","format":"yaml"}`)
	require.NoError(t, err)
	assert.Contains(t, text, "from: 上海\n")
	assert.Contains(t, text, "courier: 极兔")

	text, err = tool.Call(ctx, `{"from":"上海","to":"北京","format":"toml"}`)
	require.NoError(t, err)
	assert.Contains(t, text, "[[quotes]]")
	assert.Contains(t, text, `courier = "极兔"`)
}

func TestTool_Bounds(t *testing.T) {
	res, err := compareprice.New().Run(context.Background(), &compareprice.Request{
		From:   "上海",
		To:     "北京",
		Weight: 10000,
		Length: 1000,
		Width:  1000,
		Height: 1000,
	})
	require.NoError(t, err)
	for _, q := range res.Quotes {
		assert.GreaterOrEqual(t, float64(q.ChargeableWeight), q.VolumetricWeight, q.Courier)
		assert.GreaterOrEqual(t, q.ChargeableWeight, 10000, q.Courier)
		assert.True(t, q.Price.GreaterThan(q.FirstWeightRate), q.Courier)
	}
}

func TestTool_Errors(t *testing.T) {
	ctx := context.Background()
	tool := compareprice.New()

	_, err := tool.Call(ctx, "上海 to 北京")
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

	tcases := []struct {
		input string
		exp   string
	}{
		{`{"to":"北京"}`, "invalid input: from is required"},
		{`{"from":"上海"}`, "invalid input: to is required"},
		{`{"from":"上海","to":"北京","weight":-1}`, "invalid input: weight must be greater than or equal to 0"},
		{`{"from":"上海","to":"北京","weight":1e19}`, "invalid input: weight must be less than or equal to 10000"},
		{`{"from":"上海","to":"北京","length":1e8,"width":1e8,"height":1e8}`, "invalid input: length must be less than or equal to 1000; width must be less than or equal to 1000; height must be less than or equal to 1000"},
		{`{"from":"上海","to":"北京","format":"xml"}`, "invalid input: format must be one of [text json yaml toml]"},
		{`{"from":" ","to":"北京"}`, "from and to are required"},
	}
	for _, tc := range tcases {
		_, err := tool.Call(ctx, tc.input)
		assert.EqualError(t, err, tc.exp, tc.input)
	}

	_, err = tool.RunMCP(ctx, &compareprice.Request{From: "上海"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
}
