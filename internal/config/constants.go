package config

import "lifeexp/pkg/contracts"

// Application constants
const (
	AppName    = "lifeexp"
	AppVersion = contracts.Version

	// DefaultRegionFilter is the region kept when no other is configured
	DefaultRegionFilter = "PT"
)
