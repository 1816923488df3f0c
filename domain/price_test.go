package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{100, "100"},
		{42000.5, "42000.5"},
		{0, "0"},
		{0.000123, "0.000123"},
		{3021.17, "3021.17"},
		{1e21, "1000000000000000000000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.price))
	}
}

func TestDefaultAssets(t *testing.T) {
	assets := DefaultAssets("")

	assert.Len(t, assets, 3)
	assert.Equal(t, "Bitcoin", assets[0].Name)
	assert.Equal(t, DefaultBaseURL+"?ids=bitcoin&vs_currencies=usd", assets[0].Endpoint)
	assert.Equal(t, []string{"bitcoin", "usd"}, assets[0].Path)
	assert.Equal(t, "Ethereum", assets[1].Name)
	assert.Equal(t, []string{"ethereum", "usd"}, assets[1].Path)
	assert.Equal(t, "SP500", assets[2].Name)
	assert.Equal(t, DefaultBaseURL+"?ids=sp-500&vs_currencies=usd", assets[2].Endpoint)
	assert.Equal(t, []string{"sp-500", "usd"}, assets[2].Path)

	assert.Equal(t, "Bitcoin: 100", assets[0].Line(100))
	assert.Equal(t, "Ethereum: 200", assets[1].Line(200))
	assert.Equal(t, "SP500: 300", assets[2].Line(300))
}

func TestDefaultAssetsKeepBaseQuery(t *testing.T) {
	assets := DefaultAssets("https://api.coingecko.com/api/v3/simple/price?x_cg_demo_api_key=k")

	assert.Equal(t,
		"https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd&x_cg_demo_api_key=k",
		assets[0].Endpoint)
	assert.Equal(t,
		"https://api.coingecko.com/api/v3/simple/price?ids=sp-500&vs_currencies=usd&x_cg_demo_api_key=k",
		assets[2].Endpoint)
}

func TestAssetLine(t *testing.T) {
	custom := Asset{Name: "Gold", Format: func(p float64) string { return "XAU=" + FormatPrice(p) }}
	assert.Equal(t, "XAU=1900.5", custom.Line(1900.5))

	plain := Asset{Name: "Silver"}
	assert.Equal(t, "Silver: 24", plain.Line(24))

	assert.Len(t, Separator, 16)
}
