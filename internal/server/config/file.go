package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/ccsafarmai/farmai/internal/flagx"
)

const envPrefix = "FARMAI"

// parseFile overlays values from the optional config file and from the
// environment. The file is located through the -c or -config flags; its
// format (JSON, YAML, TOML) follows the extension. Environment variables
// are named FARMAI_<KEY>, e.g. FARMAI_DATABASE_DSN, and win over the file.
// Keys absent from both sources keep their current value.
func parseFile(config *Config, args []string) error {
	v := viper.New()

	if path := flagx.ConfigFileFlag(args); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range configKeys() {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// configKeys lists the mapstructure keys of Config.
func configKeys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("mapstructure"); tag != "" {
			keys = append(keys, tag)
		}
	}
	return keys
}
