package modules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-modular/framework/modules"
)

func TestFlagKey(t *testing.T) {
	assert.Equal(t, "Services:app/services.MemoryEventBus:Enabled", modules.FlagKey("app/services.MemoryEventBus"))
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want modules.Flag
	}{
		{"nil", nil, modules.Unset},
		{"empty", "", modules.Unset},
		{"blank", "   ", modules.Unset},
		{"bool true", true, modules.Enabled},
		{"bool false", false, modules.Disabled},
		{"string true", "true", modules.Enabled},
		{"string TRUE", "TRUE", modules.Enabled},
		{"string false", "false", modules.Disabled},
		{"string 1", "1", modules.Enabled},
		{"string 0", "0", modules.Disabled},
		{"int 1", 1, modules.Enabled},
		{"int 0", 0, modules.Disabled},
		{"malformed", "maybe", modules.Unset},
		{"struct", struct{}{}, modules.Unset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, modules.ParseFlag(tt.in))
		})
	}
}

func TestFlag_String(t *testing.T) {
	assert.Equal(t, "unset", modules.Unset.String())
	assert.Equal(t, "enabled", modules.Enabled.String())
	assert.Equal(t, "disabled", modules.Disabled.String())
}

func TestStaticFlags_CaseInsensitiveFallback(t *testing.T) {
	f := modules.StaticFlags{"services:a.B:enabled": "true"}

	assert.Equal(t, modules.Enabled, f.Flag("Services:a.B:Enabled"))
	assert.Equal(t, modules.Unset, f.Flag("Services:a.C:Enabled"))
}

func TestStaticFlags_CaseCollisionIsDeterministic(t *testing.T) {
	f := modules.StaticFlags{
		"services:a.b:enabled": "false",
		"Services:A.B:Enabled": "true",
		"SERVICES:A.B:ENABLED": "false",
	}

	for range 50 {
		// "SERVICES..." sorts first
		assert.Equal(t, modules.Disabled, f.Flag("Services:a.B:ENABLED"))
	}
	assert.Equal(t, modules.Enabled, f.Flag("Services:A.B:Enabled"), "exact key wins")
}
