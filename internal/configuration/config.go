package configuration

import (
	"os"
	"time"

	"github.com/eggbot/eggbot/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	SensorPollingRate       time.Duration `json:"sensorPollingRate" yaml:"sensorPollingRate"`
	SensorRollingWindowSize int           `json:"sensorRollingWindowSize" yaml:"sensorRollingWindowSize"`

	ControllerTickRate time.Duration `json:"controllerTickRate" yaml:"controllerTickRate"`

	Statistics StatisticsConfig `json:"statistics" yaml:"statistics"`

	Sensors     []SensorConfig     `json:"sensors" yaml:"sensors"`
	Controllers []ControllerConfig `json:"controllers" yaml:"controllers"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("eggbot")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/eggbot/")
	}

	viper.SetEnvPrefix("eggbot")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("SensorPollingRate", 1*time.Second)
	viper.SetDefault("SensorRollingWindowSize", 10)
	viper.SetDefault("ControllerTickRate", 250*time.Millisecond)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("sensors", []SensorConfig{})
	viper.SetDefault("controllers", []ControllerConfig{})
}

// DetectAndReadConfigFile detects the path of the first existing config file
// and reads it. Returns the path of the file used.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

// LoadConfig decodes the configuration read by viper into CurrentConfig.
func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(decodeHook()))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		coefficientsHookFunc(),
	)
}
