package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneFromHost(t *testing.T) {
	tests := []struct {
		host string
		zone string
	}{
		{"www.uniqlo.jp", "JP"},
		{"store.example.co.uk", "UK"},
		{"shop.example.uk", "UK"},
		{"oliveyoung.kr", "KR"},
		{"tmall.cn", "CN"},
		{"croma.in", "IN"},
		{"zalando.de", "EU"},
		{"fnac.fr", "EU"},
		{"bol.nl", "EU"},
		{"shop.example.dk", "EU"},
		{"bhphotovideo.com", "US"},
		{"example.org", "US"},
		{"", "US"},
		{"UNIQLO.JP", "JP"},
		{"uniqlo.jp.", "JP"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.zone, ZoneFromHost(tt.host))
		})
	}
}

func TestWeightFromTitle(t *testing.T) {
	tests := []struct {
		title    string
		weight   float64
		category string
	}{
		{"Studio Headphones X100", 0.8, "headphones"},
		{"Limited sneakers drop", 1.3, "footwear"},
		{"14-inch laptop stand... with Laptop sleeve", 2.8, "laptops"},
		{"Mirrorless camera body", 1.6, "cameras"},
		{"Tokyo street-jakke", 1.4, "outerwear"},
		{"Vintage band tee", 0.3, "tshirts"},
		{"Leather tote bag", 0.9, "bags"},
		{"Glass skin serum", 0.35, "beauty"},
		{"Ceramic vase set", DefaultWeightKg, ""},
		{"", DefaultWeightKg, ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			weight, category := WeightFromTitle(tt.title)
			assert.Equal(t, tt.weight, weight)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestWeightFromTitleFirstMatchWins(t *testing.T) {
	// Footwear is listed before t-shirts, so a combined title resolves
	// to the footwear weight.
	weight, category := WeightFromTitle("Sneaker + tee bundle")
	assert.Equal(t, 1.3, weight)
	assert.Equal(t, "footwear", category)
}

func TestWeightForCategory(t *testing.T) {
	weight, ok := WeightForCategory("headphones")
	assert.True(t, ok)
	assert.Equal(t, 0.8, weight)

	weight, ok = WeightForCategory("unknown")
	assert.False(t, ok)
	assert.Equal(t, DefaultWeightKg, weight)
}

func TestStoreFromHost(t *testing.T) {
	assert.Equal(t, "uniqlo.jp", StoreFromHost("www.uniqlo.jp"))
	assert.Equal(t, "bhphotovideo.com", StoreFromHost("bhphotovideo.com"))
}
