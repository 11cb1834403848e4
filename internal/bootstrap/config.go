// Package bootstrap wires configuration, a storage backend and a
// resourcemanager.Manager into a runnable service — the Go analogue of
// original_source/opendut-carl/src/resources/manager.rs's
// ResourcesManager::create(storage_options). Deliberately NOT grounded on
// the teacher's v3 components/ledger/internal/bootstrap/config.go
// (multi-tenant, circuit-breaker, env-struct-tag, fiber "unified server"
// pattern) since this system has no multi-tenant or HTTP-facade concept;
// grounded instead on the original source's config::Config.get_bool/
// get_string key-lookup shape, using the teacher's own configuration
// library (viper).
package bootstrap

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/opendut/carl/internal/core/storage"
)

// LoadOptions reads persistence.* keys from v, following spec §6 exactly:
// `persistence.enabled` (bool), `persistence.database.{url,username,password}`.
func LoadOptions(v *viper.Viper) storage.Options {
	return storage.Options{
		Enabled: v.GetBool("persistence.enabled"),
		Database: storage.ConnectInfo{
			URL:      v.GetString("persistence.database.url"),
			Username: v.GetString("persistence.database.username"),
			Password: storage.NewPassword(v.GetString("persistence.database.password")),
		},
	}
}

// NewViper builds a Viper instance that reads from the environment
// (CARL_PERSISTENCE_ENABLED etc.) and an optional config file, matching the
// source-agnostic key/value configuration spec §6 calls for.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("carl")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("carl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/carl")
	v.SetDefault("persistence.enabled", false)
	return v
}
