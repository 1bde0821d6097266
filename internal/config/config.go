package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "STOREFRONT"
	configFileEnvName = envPrefix + "_CONFIG_FILE"
)

type Upstream struct {
	ProductsURL string        `mapstructure:"products_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

type Tracing struct {
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type Broker struct {
	SeedBrokers      []string `mapstructure:"seed_brokers"`
	OrderEventsTopic string   `mapstructure:"order_events_topic"`
}

type Mail struct {
	SMTPAddr string `mapstructure:"smtp_addr"`
	From     string `mapstructure:"from"`
}

type Config struct {
	LogLevel       string   `mapstructure:"log_level"`
	LogPretty      bool     `mapstructure:"log_pretty"`
	HTTPServerAddr string   `mapstructure:"http_server_addr"`
	Upstream       Upstream `mapstructure:"upstream"`
	Tracing        Tracing  `mapstructure:"tracing"`
	Broker         Broker   `mapstructure:"broker"`
	Mail           Mail     `mapstructure:"mail"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("upstream.products_url", "https://fakestoreapi.com/products")
	v.SetDefault("upstream.timeout", 10*time.Second)
	v.SetDefault("upstream.max_attempts", 1)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.order_events_topic", "storefront.orders")
	v.SetDefault("mail.smtp_addr", "")
	v.SetDefault("mail.from", "orders@storefront.local")
}

// Load reads the configuration from defaults, an optional YAML file and
// STOREFRONT_* environment variables, in increasing precedence. The file is
// taken from STOREFRONT_CONFIG_FILE or the --config flag in args.
func Load(args []string) (Config, error) {
	const op = "config.Load"

	path, err := configFilepath(args)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: read %q: %w", op, path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

func configFilepath(args []string) (string, error) {
	cmdLine := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	arg := cmdLine.String("config", "", "config file")
	if err := cmdLine.Parse(args); err != nil {
		return "", err
	}
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env, nil
	}
	return *arg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.HTTPServerAddr == "" {
		errs = append(errs, errors.New("http_server_addr is required"))
	}
	if c.Upstream.ProductsURL == "" {
		errs = append(errs, errors.New("upstream.products_url is required"))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, errors.New("upstream.timeout must be positive"))
	}
	if c.Upstream.MaxAttempts < 1 {
		errs = append(errs, errors.New("upstream.max_attempts must be at least 1"))
	}
	return errors.Join(errs...)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q

	Upstream:
	ProductsURL=%q
	Timeout=%s
	MaxAttempts=%d

	Tracing:
	JaegerEndpoint=%q

	Broker:
	SeedBrokers=%q
	OrderEventsTopic=%q

	Mail:
	SMTPAddr=%q
	From=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.Upstream.ProductsURL,
		c.Upstream.Timeout,
		c.Upstream.MaxAttempts,
		c.Tracing.JaegerEndpoint,
		c.Broker.SeedBrokers,
		c.Broker.OrderEventsTopic,
		c.Mail.SMTPAddr,
		c.Mail.From,
	)
}
