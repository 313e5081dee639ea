package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderOption customizes Load.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load reads configuration for a service into cfg: YAML config first, then a
// .env file, then process environment variables, later sources winning.
// Defaults and validation are the caller's responsibility.
func Load(serviceName string, cfg any, opts ...LoaderOption) error {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.configFile == "" {
		lc.configFile = findFirst(configSearchPaths(serviceName))
	}
	if lc.envFile == "" {
		lc.envFile = findFirst(envSearchPaths(serviceName))
	}

	v := viper.New()

	if lc.configFile != "" {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			fmt.Printf("[config] warning: failed to load config file %s: %v\n", lc.configFile, err)
		}
	}

	if lc.envFile != "" {
		if err := godotenv.Load(lc.envFile); err != nil {
			fmt.Printf("[config] warning: failed to load .env file %s: %v\n", lc.envFile, err)
		}
	}

	v.AutomaticEnv()
	autoBindEnvVars(v)

	// The language-model key conventionally lives in OPENAI_API_KEY.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		v.Set("llm.api_key", key)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func configSearchPaths(serviceName string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
}

func envSearchPaths(serviceName string) []string {
	return []string{
		fmt.Sprintf(".env.%s", serviceName),
		".env",
		"../.env",
	}
}

func findFirst(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// autoBindEnvVars maps UPPER_SNAKE environment variables onto nested viper
// keys so e.g. SERVER_PORT reaches server.port and LLM_API_KEY reaches
// llm.api_key.
func autoBindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		for _, variant := range envKeyVariants(pair[0]) {
			v.Set(variant, pair[1])
		}
	}
}

// envKeyVariants generates the nested key spellings an environment variable
// may correspond to:
//
//	LLM_API_KEY -> [llm_api_key, llm.api.key, llm.api_key, llm.api.key]
func envKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}

	seen := make(map[string]bool, len(variants))
	out := make([]string, 0, len(variants))
	for _, item := range variants {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
