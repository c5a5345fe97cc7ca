package interview

import (
	"fmt"
	"time"
)

type Config struct {
	// Interviewer background profile (zero value => broadsheet defaults).
	Profile ApproachProfile

	// Cooldowns between escalation bursts (0 => defaults).
	RapidFireCooldown time.Duration
	GotchaCooldown    time.Duration

	// RNG seed (0 => time-based).
	Seed int64

	// Clock source (nil => time.Now). Tests advance virtual time here.
	Now func() time.Time

	// Optional copy override; nil keeps the built-in line pack.
	Lines *LinePack
}

const (
	defaultRapidFireCooldown = 90 * time.Second
	defaultGotchaCooldown    = 45 * time.Second
)

func (c Config) validate() error {
	if c.RapidFireCooldown < 0 {
		return fmt.Errorf("RapidFireCooldown must be >= 0")
	}
	if c.GotchaCooldown < 0 {
		return fmt.Errorf("GotchaCooldown must be >= 0")
	}
	if c.Profile.ID != "" {
		if err := c.Profile.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Profile.ID == "" {
		c.Profile = DefaultProfiles()["broadsheet"]
	}
	if c.RapidFireCooldown == 0 {
		c.RapidFireCooldown = defaultRapidFireCooldown
	}
	if c.GotchaCooldown == 0 {
		c.GotchaCooldown = defaultGotchaCooldown
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Lines == nil {
		c.Lines = DefaultLinePack()
	}
	return c
}
