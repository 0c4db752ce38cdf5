package main

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/viper"
)

const (
	configFileName = "stypc"
	configFileType = "yaml"

	cfgKeyRootSelector = "root_selector"
	cfgKeyTraceLevel   = "tracelevel"
	cfgKeyFormat       = "format"
	cfgKeyUnits        = "units"
)

// loadConfig reads the configuration file, if any. A missing default
// configuration file is not an error, a missing file named by the user is.
func loadConfig(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyRootSelector, "body")
	v.SetDefault(cfgKeyTraceLevel, "Error")
	v.SetDefault(cfgKeyFormat, "css")
	v.SetDefault(cfgKeyUnits, "css")
	v.SetEnvPrefix("STYPC")
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// setupTracing routes all tracers to a Go standard logger.
func setupTracing(level string) {
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	for _, key := range []string{"stypro.value", "stypro.ns", "stypro.rules", "stypro.cssom", "stypro.producer"} {
		tracing.Select(key).SetTraceLevel(tracing.TraceLevelFromString(level))
	}
}
