package api

import (
	"sync"

	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	MediaConfig
	ServerConfig
}

type StorageConfig struct {
	TableNameEvents       string
	TableNameMembers      string
	TableNameStoreNumbers string
	TableNameCheckIns     string
	TableNameCandidates   string
	TableNamePolicy       string
}

type MediaConfig struct {
	MediaBucket string
	MediaRegion string
}

type ServerConfig struct {
	Port int
}

var settingsOnce sync.Once

func ReadConfig() *Config {

	var conf = &Config{
		StorageConfig: StorageConfig{
			TableNameEvents:       viper.GetString("storage.TableNameEvents"),
			TableNameMembers:      viper.GetString("storage.TableNameMembers"),
			TableNameStoreNumbers: viper.GetString("storage.TableNameStoreNumbers"),
			TableNameCheckIns:     viper.GetString("storage.TableNameCheckIns"),
			TableNameCandidates:   viper.GetString("storage.TableNameCandidates"),
			TableNamePolicy:       viper.GetString("storage.TableNamePolicy"),
		},
		MediaConfig: MediaConfig{
			MediaBucket: viper.GetString("media.Bucket"),
			MediaRegion: getStringOrDefault("media.Region", "us-east-1"),
		},
		ServerConfig: ServerConfig{
			Port: getIntOrDefault("server.port", 8080),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
