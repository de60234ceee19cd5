package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0,always=100%,never=0%,junk=maybe,pct=abc%")

	tests := []struct {
		flag string
		want bool
	}{
		{"a", true}, {"b", false}, {"c", true}, {"d", false}, {"e", true}, {"f", false},
		{"always", true}, {"never", false}, {"junk", false}, {"pct", false},
		{"missing", false}, {" A ", true},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Enabled(tt.flag, 7))
		})
	}
}

func TestEnabled_PercentageRollout(t *testing.T) {
	m := NewManager("canary=25%")

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42))
	}
	assert.False(t, m.Enabled("canary", 0))

	on := 0
	for id := uint(1); id <= 1000; id++ {
		if m.Enabled("canary", id) {
			on++
		}
	}
	assert.InDelta(t, 250, on, 60)
}

func TestDefaultsAndOverrides(t *testing.T) {
	m := NewManager("")
	assert.True(t, m.Enabled(NutriScan, 1))
	assert.True(t, m.Enabled(SummarySocket, 1))

	m = NewManager(" nutriscan = off , bad ,=on,x= ")
	assert.False(t, m.Enabled(NutriScan, 1))
	assert.True(t, m.Enabled(SummarySocket, 1))
	assert.Equal(t, map[string]string{NutriScan: "off", SummarySocket: "on"}, m.Values())
	assert.Equal(t, map[string]bool{NutriScan: false, SummarySocket: true}, m.ForUser(9))

	// Values hands out a copy.
	m.Values()[NutriScan] = "on"
	assert.False(t, m.Enabled(NutriScan, 1))

	var nilManager *Manager
	assert.False(t, nilManager.Enabled(NutriScan, 1))
}
