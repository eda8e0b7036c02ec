package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig
	Gateway   GatewayConfig
	Assistant AssistantConfig
	Signing   SigningConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr        string
	MetricsAddr string
}

// GatewayConfig holds the simulated remote-call latencies.
type GatewayConfig struct {
	TransferDelay    time.Duration
	DepositDelay     time.Duration
	ApplicationDelay time.Duration
	LoanDelay        time.Duration
}

// AssistantConfig holds AI assistant provider settings.
type AssistantConfig struct {
	Provider  string
	APIKeyEnv string
	Model     string
}

// SigningConfig holds the confirmation-signing secret.
type SigningConfig struct {
	Secret string
}

// Load reads configuration from file and env. Env var overrides use prefix
// KATALIAN_ (e.g. KATALIAN_SERVER_ADDR).
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metricsaddr", ":9090")
	v.SetDefault("gateway.transferdelay", 800*time.Millisecond)
	v.SetDefault("gateway.depositdelay", 1200*time.Millisecond)
	v.SetDefault("gateway.applicationdelay", 1500*time.Millisecond)
	v.SetDefault("gateway.loandelay", 2*time.Second)
	v.SetDefault("assistant.provider", "simulated")
	v.SetDefault("assistant.apikeyenv", "GEMINI_API_KEY")
	v.SetDefault("assistant.model", "gemini-2.5-flash")
	v.SetDefault("signing.secret", "katalian-demo-secret")

	v.SetConfigType("toml")
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/katalian_bank")

	v.SetEnvPrefix("KATALIAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
