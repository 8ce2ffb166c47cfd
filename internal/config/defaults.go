package config

import (
	"github.com/spf13/viper"
)

// setDefaults registers the lowest-precedence configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("platform.url", "")
	v.SetDefault("platform.token", "")
	v.SetDefault("platform.token_type", "Bearer")

	v.SetDefault("proxy.mode", "no-proxy")
	v.SetDefault("proxy.host", "")
	v.SetDefault("proxy.port", 0)
	v.SetDefault("proxy.no_proxy", "")

	v.SetDefault("logging.level", "INFO")
}
