package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/formgate/formgate/internal/domain"
)

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{2.5, 2.5, true},
		{3, 3, true},
		{int64(7), 7, true},
		{"2.5", 2.5, true},
		{"  3 ", 3, true},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
		{[]any{1}, 0, false},
	}
	for _, c := range cases {
		got, ok := domain.ToFloat(c.in)
		assert.Equal(t, c.ok, ok, "input %#v", c.in)
		assert.Equal(t, c.want, got, "input %#v", c.in)
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, domain.IsEmpty(nil))
	assert.True(t, domain.IsEmpty(""))
	assert.True(t, domain.IsEmpty("   "))
	assert.True(t, domain.IsEmpty([]any{}))
	assert.True(t, domain.IsEmpty([]string{}))

	assert.False(t, domain.IsEmpty(0), "zero is an answered score, not an empty value")
	assert.False(t, domain.IsEmpty(false))
	assert.False(t, domain.IsEmpty("x"))
	assert.False(t, domain.IsEmpty([]any{"a"}))
}

func TestTruthy(t *testing.T) {
	assert.True(t, domain.Truthy(true))
	assert.True(t, domain.Truthy("yes"))
	assert.True(t, domain.Truthy(" TRUE "))
	assert.True(t, domain.Truthy("1"))
	assert.True(t, domain.Truthy(1))

	assert.False(t, domain.Truthy(false))
	assert.False(t, domain.Truthy("no"))
	assert.False(t, domain.Truthy(0))
	assert.False(t, domain.Truthy(nil))
	assert.False(t, domain.Truthy("maybe"))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", domain.Stringify(nil))
	assert.Equal(t, "x", domain.Stringify("x"))
	assert.Equal(t, "3", domain.Stringify(3))
	assert.Equal(t, "true", domain.Stringify(true))
}

func TestParseInfoBox(t *testing.T) {
	assert.Equal(t, domain.InfoBox{}, domain.ParseInfoBox(nil))
	assert.Equal(t, domain.InfoBox{Enabled: true, Style: "info"}, domain.ParseInfoBox(true))
	assert.Equal(t, domain.InfoBox{}, domain.ParseInfoBox(false))
	assert.Equal(t, domain.InfoBox{Enabled: true, Style: "warning"}, domain.ParseInfoBox("warning"))
	assert.Equal(t, domain.InfoBox{Enabled: true, Style: "info"}, domain.ParseInfoBox("neon"), "unknown styles fall back to info")

	box := domain.ParseInfoBox(map[string]any{"enabled": true, "style": "note"})
	assert.Equal(t, domain.InfoBox{Enabled: true, Style: "note"}, box)

	box = domain.ParseInfoBox(map[string]any{"show": true})
	assert.True(t, box.Enabled, "legacy show key recognized")

	box = domain.ParseInfoBox(`{"enabled": true, "style": "success"}`)
	assert.Equal(t, domain.InfoBox{Enabled: true, Style: "success"}, box)

	assert.Equal(t, domain.InfoBox{}, domain.ParseInfoBox("{broken json"))
	assert.Equal(t, domain.InfoBox{}, domain.ParseInfoBox(42))
}
