package main

import "github.com/aryapratama/duittui/viewstate"

// Config holds the runtime configuration assembled from flags, the
// duittui.toml config file, and environment variables.
type Config struct {
	Debug    bool               `mapstructure:"debug"`
	Token    string             `mapstructure:"token"`
	BaseURL  string             `mapstructure:"base_url"`
	Timezone string             `mapstructure:"timezone"`
	Colors   Colors             `mapstructure:"colors"`
	Presets  []viewstate.Preset `mapstructure:"presets"`
}

// Colors allows overriding the default theme from the config file.
type Colors struct {
	Primary       string `mapstructure:"primary"`
	Error         string `mapstructure:"error"`
	Success       string `mapstructure:"success"`
	Warning       string `mapstructure:"warning"`
	Muted         string `mapstructure:"muted"`
	Border        string `mapstructure:"border"`
	Text          string `mapstructure:"text"`
	SecondaryText string `mapstructure:"secondary_text"`
}
