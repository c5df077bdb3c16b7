package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		Host            string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`

	LLM struct {
		Provider          string        `yaml:"provider" default:"openai"`
		Model             string        `yaml:"model"`
		MaxTokens         int           `yaml:"max_tokens" default:"8192"`
		Temperature       float32       `yaml:"temperature" default:"0.1"`
		RequestTimeout    time.Duration `yaml:"request_timeout" default:"120s"`
		RequestsPerMinute int           `yaml:"requests_per_minute" default:"0"` // 0 disables outbound throttling

		OpenAI struct {
			APIKey  string `yaml:"api_key"`
			Model   string `yaml:"model" default:"gpt-4o-mini"`
			BaseURL string `yaml:"base_url" default:"https://api.openai.com/v1"`
		} `yaml:"openai"`

		Gemini struct {
			APIKey string `yaml:"api_key"`
			Model  string `yaml:"model" default:"gemini-2.0-flash"`
		} `yaml:"gemini"`
	} `yaml:"llm"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	// Expand ${VAR} syntax
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	// Expand $VAR syntax (but avoid replacing ${VAR} that was already processed)
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.ShutdownTimeout = 10 * time.Second

	config.LLM.Provider = "openai"
	config.LLM.MaxTokens = 8192
	config.LLM.Temperature = 0.1
	config.LLM.RequestTimeout = 120 * time.Second
	config.LLM.RequestsPerMinute = 0

	config.LLM.OpenAI.Model = "gpt-4o-mini"
	config.LLM.OpenAI.BaseURL = "https://api.openai.com/v1"
	config.LLM.Gemini.Model = "gemini-2.0-flash"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if maxTokens := os.Getenv("LLM_MAX_TOKENS"); maxTokens != "" {
		if tokens, err := strconv.Atoi(maxTokens); err == nil {
			c.LLM.MaxTokens = tokens
		}
	}

	if temperature := os.Getenv("LLM_TEMPERATURE"); temperature != "" {
		if temp, err := strconv.ParseFloat(temperature, 32); err == nil {
			c.LLM.Temperature = float32(temp)
		}
	}

	if timeout := os.Getenv("LLM_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.LLM.RequestTimeout = d
		}
	}

	if rpm := os.Getenv("LLM_REQUESTS_PER_MINUTE"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			c.LLM.RequestsPerMinute = n
		}
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		c.LLM.OpenAI.APIKey = apiKey
	}

	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		c.LLM.OpenAI.Model = model
	}

	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		c.LLM.OpenAI.BaseURL = baseURL
	}

	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		c.LLM.Gemini.APIKey = apiKey
	}

	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.LLM.Gemini.Model = model
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if logFile := os.Getenv("LOG_FILE_PATH"); logFile != "" {
		for i := range c.Logging.Adapters {
			if c.Logging.Adapters[i].Type == "file" {
				if c.Logging.Adapters[i].Options == nil {
					c.Logging.Adapters[i].Options = make(map[string]interface{})
				}
				c.Logging.Adapters[i].Options["file_path"] = logFile
			}
		}
	}
}
