package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlertIsLive(t *testing.T) {
	tests := []struct {
		status AlertStatus
		live   bool
	}{
		{AlertStatusPending, true},
		{AlertStatusRead, true},
		{AlertStatusDismissed, true},
		{AlertStatusResolved, false},
	}
	for _, tt := range tests {
		a := &Alert{Status: tt.status}
		assert.Equal(t, tt.live, a.IsLive(), "status %s", tt.status)
	}
}

func TestEffectiveReminderDays(t *testing.T) {
	override := 10
	withOverride := &FarmAlertPreference{
		AlertPreference: AlertPreference{ReminderDays: &override},
	}
	assert.Equal(t, 10, withOverride.EffectiveReminderDays(7))

	withoutOverride := &FarmAlertPreference{}
	assert.Equal(t, 7, withoutOverride.EffectiveReminderDays(7))
}

func TestAnimalHasIdentifier(t *testing.T) {
	assert.False(t, (&Animal{}).HasIdentifier())
	assert.True(t, (&Animal{EID: "FR123"}).HasIdentifier())
	assert.True(t, (&Animal{OfficialNumber: "42"}).HasIdentifier())
}
