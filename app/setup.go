package app

import (
	"ember/emberos/control"
	"ember/emberos/io"
	"ember/emberos/periodic"
	"ember/emberos/settings"
)

// setupOpen runs every module open in dependency order. Called once from
// the open task before the barrier releases the others.
func setupOpen() {
	io.Open()
	settings.Init()
	control.Open()

	periodic.Create(periodic.Heartbeat, heartbeatPeriodMs, heartbeat)
	periodic.Create(periodic.AdcPoll, adcPollPeriodMs, adcPoll)
	periodic.Start(periodic.Heartbeat)
	periodic.Start(periodic.AdcPoll)
}

const (
	heartbeatPeriodMs = 1000
	adcPollPeriodMs   = 100
)

var heartbeatLevel bool

// heartbeat blinks the status LED as a liveness indicator.
func heartbeat(nowMs uint32) {
	heartbeatLevel = !heartbeatLevel
	io.Set(statusLED, heartbeatLevel)
}

// adcPoll keeps conversions flowing so reads always see fresh data.
func adcPoll(nowMs uint32) {
	io.HAL().ADC().StartConversion()
}
