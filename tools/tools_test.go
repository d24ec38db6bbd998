package tools_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/expressmcp/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name string
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake " + f.name }
func (f *fakeTool) Parameters() any     { return map[string]any{"type": "object"} }
func (f *fakeTool) Call(context.Context, string) (string, error) {
	return "", nil
}

type recorder struct {
	events []string
}

func (r *recorder) OnToolStart(_ context.Context, tool tools.ITool, input string) {
	r.events = append(r.events, "start:"+tool.Name()+":"+input)
}

func (r *recorder) OnToolEnd(_ context.Context, tool tools.ITool, _ string, output string) {
	r.events = append(r.events, "end:"+tool.Name()+":"+output)
}

func (r *recorder) OnToolError(_ context.Context, tool tools.ITool, _ string, err error) {
	r.events = append(r.events, "error:"+tool.Name()+":"+err.Error())
}

func TestRunner(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	runner := tools.NewRunner(&fakeTool{name: "t1"}).WithCallback(rec)

	res, err := runner.Run(ctx, "in", func(context.Context) (string, error) {
		return "out", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "out", res)

	_, err = runner.Run(ctx, "in2", func(context.Context) (string, error) {
		return "ignored", errors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	assert.Equal(t, []string{
		"start:t1:in",
		"end:t1:out",
		"start:t1:in2",
		"error:t1:boom",
	}, rec.events)

	// without callback
	res, err = tools.NewRunner(&fakeTool{name: "t2"}).Run(ctx, "", func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}

func TestValidate(t *testing.T) {
	type req struct {
		Com    string  `json:"com" validate:"required"`
		Num    string  `json:"num,omitempty" validate:"required"`
		Weight float64 `json:"weight" validate:"gte=0,lte=100"`
		Order  string  `json:"order" validate:"omitempty,oneof=asc desc"`
	}

	assert.NoError(t, tools.Validate(&req{Com: "jd", Num: "1"}))

	err := tools.Validate(&req{Weight: -1, Order: "up"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
	assert.EqualError(t, err, "invalid input: com is required; num is required; weight must be greater than or equal to 0; order must be one of [asc desc]")

	err = tools.Validate(&req{Com: "jd", Num: "1", Weight: 101})
	assert.EqualError(t, err, "invalid input: weight must be less than or equal to 100")
}

func TestGetDescriptions(t *testing.T) {
	d := tools.GetDescriptions(&fakeTool{name: "a"}, &fakeTool{name: "b"})
	assert.Contains(t, d, `"name": "a"`)
	assert.Contains(t, d, `"description": "fake b"`)
	assert.Contains(t, d, `"type": "object"`)
}
