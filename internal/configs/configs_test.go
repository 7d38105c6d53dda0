package configs

import "testing"

func TestParseConfig_YAML(t *testing.T) {
	contents := []byte(`
camera:
  ip: 169.254.118.229
  username: operator
logger:
  level: debug
mqttStore:
  enabled: true
  host: broker.local
  port: 1883
`)
	configs, err := parseConfig(contents)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if configs.Camera.Ip != "169.254.118.229" {
		t.Errorf("Camera.Ip = %q", configs.Camera.Ip)
	}
	if configs.Camera.Username != "operator" {
		t.Errorf("Camera.Username = %q", configs.Camera.Username)
	}
	if !configs.MqttStore.Enabled {
		t.Error("MqttStore.Enabled should be true")
	}
}

func TestParseConfig_JSON(t *testing.T) {
	contents := []byte(`{"camera":{"ip":"10.0.0.9","password":"secret"}}`)
	configs, err := parseConfig(contents)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if configs.Camera.Ip != "10.0.0.9" {
		t.Errorf("Camera.Ip = %q", configs.Camera.Ip)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	if _, err := parseConfig([]byte("not: [valid: yaml{")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyDefaults(t *testing.T) {
	configs := &Configs{}
	configs.applyDefaults()

	if configs.Camera.Username != "root" {
		t.Errorf("default username = %q, want root", configs.Camera.Username)
	}
	if configs.Camera.Password != "pass" {
		t.Errorf("default password = %q, want pass", configs.Camera.Password)
	}
	if configs.Camera.EventFilter != "tns1:VideoAnalytics/*" {
		t.Errorf("default filter = %q", configs.Camera.EventFilter)
	}
	if configs.Camera.ConnectTimeoutSeconds != 60 {
		t.Errorf("default timeout = %d, want 60", configs.Camera.ConnectTimeoutSeconds)
	}
}
