package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/katemewow/arraylist/internal/engine/store"
)

func TestSimulateDefaultPolicy(t *testing.T) {
	g, err := Simulate(10, 40, store.DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, []Step{
		{Size: 11, OldCap: 10, NewCap: 15},
		{Size: 16, OldCap: 15, NewCap: 22},
		{Size: 23, OldCap: 22, NewCap: 33},
		{Size: 34, OldCap: 33, NewCap: 49},
	}, g.Steps)
	assert.Equal(t, 40, g.Appended)
	assert.False(t, g.Exhausted)
	assert.Equal(t, 49, g.FinalCap)
	assert.Equal(t, 9, g.Slack())
	assert.Equal(t, 10+15+22+33, g.Copied())
	assert.Equal(t, []float64{10, 15, 22, 33, 49}, g.Capacities())
}

func TestSimulateFromZero(t *testing.T) {
	g, err := Simulate(0, 5, store.GrowthPolicy{Factor: 2})
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{Size: 1, OldCap: 0, NewCap: 1},
		{Size: 2, OldCap: 1, NewCap: 2},
		{Size: 3, OldCap: 2, NewCap: 4},
		{Size: 5, OldCap: 4, NewCap: 8},
	}, g.Steps)
	assert.Equal(t, 2.0, g.Policy.Factor)
	assert.Equal(t, store.MaxCapacity, g.Policy.Max)
}

func TestSimulateExhausted(t *testing.T) {
	g, err := Simulate(2, 10, store.GrowthPolicy{Factor: 2, Max: 5})
	require.NoError(t, err)
	assert.True(t, g.Exhausted)
	assert.Equal(t, 5, g.Appended)
	assert.Equal(t, 5, g.FinalCap)
	assert.Equal(t, []Step{
		{Size: 3, OldCap: 2, NewCap: 4},
		{Size: 5, OldCap: 4, NewCap: 5},
	}, g.Steps)
}

func TestSimulateErrors(t *testing.T) {
	_, err := Simulate(1, -1, store.DefaultPolicy())
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = Simulate(-1, 1, store.DefaultPolicy())
	assert.Error(t, err)
}

func TestChart(t *testing.T) {
	g, err := Simulate(4, 100, store.DefaultPolicy())
	require.NoError(t, err)
	out := Chart(g, ChartOptions{Width: 40, Height: 5})
	assert.Contains(t, out, "factor 1.50")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 5)

	flat, err := Simulate(10, 3, store.DefaultPolicy())
	require.NoError(t, err)
	assert.NotPanics(t, func() { Chart(flat, ChartOptions{}) })
}

func TestTablePlain(t *testing.T) {
	g, err := Simulate(2, 10, store.GrowthPolicy{Factor: 2, Max: 5})
	require.NoError(t, err)

	out := Table(g, lipgloss.NewRenderer(&bytes.Buffer{}))
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "new cap")
	assert.Contains(t, out, "5/10 appended, 2 reallocations")
	assert.Contains(t, out, "maximum capacity 5 reached")
}

func TestJSON(t *testing.T) {
	g, err := Simulate(10, 16, store.DefaultPolicy())
	require.NoError(t, err)

	data, err := JSON(g)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data))

	doc := gjson.ParseBytes(data)
	assert.Equal(t, int64(10), doc.Get("initial").Int())
	assert.Equal(t, 1.5, doc.Get("policy.factor").Float())
	assert.Equal(t, int64(store.MaxCapacity), doc.Get("policy.max").Int())
	assert.Equal(t, int64(22), doc.Get("final_capacity").Int())
	assert.False(t, doc.Get("exhausted").Bool())
	assert.Equal(t, int64(2), doc.Get("steps.#").Int())
	assert.Equal(t, int64(15), doc.Get("steps.0.new_cap").Int())
	assert.Equal(t, []int64{11, 16}, []int64{doc.Get("steps.0.size").Int(), doc.Get("steps.1.size").Int()})
}

func TestJSONNoSteps(t *testing.T) {
	g, err := Simulate(10, 0, store.DefaultPolicy())
	require.NoError(t, err)
	data, err := JSON(g)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(data, "steps").IsArray())
	assert.Equal(t, int64(0), gjson.GetBytes(data, "steps.#").Int())
}
