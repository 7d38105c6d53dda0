package configs

import (
	"context"
	"encoding/json"
	"log"
	"os"

	custerror "github.com/axfleet/eventwatch/internal/error"

	"gopkg.in/yaml.v3"
)

const ENV_CONFIG_FILE_PATH = "EVENT_WATCHER_CONFIG_FILE"

var globalConfigs *Configs

type Configs struct {
	Camera    CameraConfigs     `json:"camera,omitempty" yaml:"camera,omitempty"`
	Logger    LoggerConfigs     `json:"logger,omitempty" yaml:"logger,omitempty"`
	MqttStore EventStoreConfigs `json:"mqttStore,omitempty" yaml:"mqttStore,omitempty"`
}

func (c Configs) String() string {
	configBytes, _ := json.Marshal(c)
	return string(configBytes)
}

func Init(ctx context.Context) {
	configs, err := readConfig()
	if err != nil {
		log.Fatal(err)
		return
	}
	configs.applyDefaults()
	globalConfigs = configs
}

func Get() *Configs {
	return globalConfigs
}

type CameraConfigs struct {
	Ip                    string `json:"ip,omitempty" yaml:"ip,omitempty"`
	Username              string `json:"username,omitempty" yaml:"username,omitempty"`
	Password              string `json:"password,omitempty" yaml:"password,omitempty"`
	EventFilter           string `json:"eventFilter,omitempty" yaml:"eventFilter,omitempty"`
	ConnectTimeoutSeconds int    `json:"connectTimeoutSeconds,omitempty" yaml:"connectTimeoutSeconds,omitempty"`
}

type LoggerConfigs struct {
	Level    string `json:"level,omitempty" yaml:"level,omitempty"`
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

type EventStoreConfigs struct {
	Tls      TlsConfig `json:"tls,omitempty" yaml:"tls,omitempty"`
	Host     string    `json:"host,omitempty" yaml:"host,omitempty"`
	Port     int       `json:"port,omitempty" yaml:"port,omitempty"`
	Topic    string    `json:"topic,omitempty" yaml:"topic,omitempty"`
	Enabled  bool      `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Username string    `json:"username,omitempty" yaml:"username,omitempty"`
	Password string    `json:"password,omitempty" yaml:"password,omitempty"`
}

type TlsConfig struct {
	Cert      string `json:"cert,omitempty" yaml:"cert,omitempty"`
	Key       string `json:"key,omitempty" yaml:"key,omitempty"`
	Authority string `json:"authority,omitempty" yaml:"authority,omitempty"`
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

func (c TlsConfig) IsEnabled() bool {
	if len(c.Cert) > 0 && len(c.Key) > 0 {
		return true
	}
	if c.Enabled {
		return true
	}
	return false
}

func (c *EventStoreConfigs) HasAuth() bool {
	return len(c.Username) > 0 && len(c.Password) > 0
}

func (c *Configs) applyDefaults() {
	if c.Camera.Username == "" {
		c.Camera.Username = "root"
	}
	if c.Camera.Password == "" {
		c.Camera.Password = "pass"
	}
	if c.Camera.EventFilter == "" {
		c.Camera.EventFilter = "tns1:VideoAnalytics/*"
	}
	if c.Camera.ConnectTimeoutSeconds <= 0 {
		c.Camera.ConnectTimeoutSeconds = 60
	}
	if c.MqttStore.Topic == "" {
		c.MqttStore.Topic = "eventwatch/detections"
	}
}

func readConfig() (*Configs, error) {
	path, err := getConfigFilePath()
	if err != nil {
		return nil, err
	}
	configFile, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	configs, err := parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	return configs, nil
}

func getConfigFilePath() (string, error) {
	path := os.Getenv(ENV_CONFIG_FILE_PATH)
	if len(path) == 0 {
		return "", custerror.FormatNotFound("%s not found, unable to read configurations", ENV_CONFIG_FILE_PATH)
	}
	return path, nil
}

func readConfigFile(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, custerror.FormatNotFound("readConfigFile: file not found")
		}
		return nil, custerror.FormatInternalError("readConfigFile: err = %s", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, custerror.FormatInternalError("readConfigFile: err = %s", err)
	}

	return contents, nil
}

func parseConfig(contents []byte) (*Configs, error) {
	configs := &Configs{}
	if jsonErr := json.Unmarshal(contents, configs); jsonErr != nil {
		if yamlErr := yaml.Unmarshal(contents, configs); yamlErr != nil {
			return nil, custerror.FormatInvalidArgument("parseConfig: config parse JSON err = %s YAML err = %s", jsonErr, yamlErr)
		}
	}
	return configs, nil
}
