package config

import "sort"

// Profiles are named server setups selectable with --profile. Only the
// fields they set differ from DefaultConfig.
var Profiles = map[string]func(*Config){
	"default": func(c *Config) {},
	"dev": func(c *Config) {
		c.Server.Host = "127.0.0.1"
		c.Server.Port = 8050
		c.Server.Debug = true
		c.Log.Level = "debug"
	},
	"kiosk": func(c *Config) {
		c.Server.SessionTTL = 4 * DefaultSessionTTL
		c.Server.FrameAncestors = []string{"'self'"}
		c.Chart.DimOpacity = 0.2
		c.Log.Format = "json"
	},
}

// GetProfile returns DefaultConfig with the named profile applied, or nil.
func GetProfile(name string) *Config {
	apply, ok := Profiles[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListProfiles() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
