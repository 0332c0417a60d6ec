package world

import "testing"

func TestCounterDoesNotDisturbOtherBits(t *testing.T) {
	var c Cell
	c.markUpdated()
	c.SetFlowRight(true)
	c.SetLifetime(42)

	if !c.Updated() || !c.FlowRight() || c.Lifetime() != 42 {
		t.Fatalf("bit fields interfere: %08b", c.Flags)
	}
	c.SetLifetime(0)
	if !c.Updated() || !c.FlowRight() {
		t.Fatalf("clearing the counter touched other bits: %08b", c.Flags)
	}
	c.clearUpdated()
	if c.Updated() || !c.FlowRight() {
		t.Fatalf("clearing updated touched direction: %08b", c.Flags)
	}
}

func TestCounterClamps(t *testing.T) {
	var c Cell
	c.SetCooldown(200)
	if c.Cooldown() != CounterMax {
		t.Fatalf("cooldown = %d, want %d", c.Cooldown(), CounterMax)
	}
}

func TestHealthPacking(t *testing.T) {
	var c Cell
	c.SetHealth(250)
	if c.Health() != HealthMax {
		t.Fatalf("health = %d, want clamp to %d", c.Health(), HealthMax)
	}
	c.SetHealth(0)
	if c.Health() != 0 {
		t.Fatal("health should reach zero")
	}
	c.VelY = -5
	if c.Health() != 0 {
		t.Fatal("negative packed values read as dead")
	}
}
