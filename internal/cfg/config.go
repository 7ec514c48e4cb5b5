package cfg

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/peter-kozarec/knockout/internal/dbg"
	"github.com/peter-kozarec/knockout/pkg/simulation"
)

const EnvPrefix = "KNOCKOUT"

type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Run        RunConfig        `mapstructure:"run"`
	Export     ExportConfig     `mapstructure:"export"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Feed       FeedConfig       `mapstructure:"feed"`
	Log        LogConfig        `mapstructure:"log"`
}

type SimulationConfig struct {
	InitialPrice float64 `mapstructure:"initial_price"`
	Drift        float64 `mapstructure:"drift"`
	Volatility   float64 `mapstructure:"volatility"`
	HorizonSteps int     `mapstructure:"horizon_steps"`
	Barrier      float64 `mapstructure:"barrier"`
	Strike       float64 `mapstructure:"strike"`
	Iterations   int     `mapstructure:"iterations"`
	DiscountRate float64 `mapstructure:"discount_rate"`
}

type RunConfig struct {
	Seed    uint64 `mapstructure:"seed"`
	Seeded  bool   `mapstructure:"-"`
	Workers int    `mapstructure:"workers"`
}

type ExportConfig struct {
	PathFile   string `mapstructure:"path_file"`
	PayoffFile string `mapstructure:"payoff_file"`
	DuckDB     string `mapstructure:"duckdb"`
	WithPaths  bool   `mapstructure:"with_paths"`
}

type PostgresConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type FeedConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

type LogConfig struct {
	Mode    string   `mapstructure:"mode"`
	Level   string   `mapstructure:"level"`
	Monitor []string `mapstructure:"monitor"`
}

func (c SimulationConfig) Parameters() simulation.Parameters {
	return simulation.Parameters{
		InitialPrice:   c.InitialPrice,
		Drift:          c.Drift,
		Volatility:     c.Volatility,
		HorizonSteps:   c.HorizonSteps,
		BarrierLevel:   c.Barrier,
		StrikePrice:    c.Strike,
		IterationCount: c.Iterations,
		DiscountRate:   c.DiscountRate,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.initial_price", 100.0)
	v.SetDefault("simulation.drift", 0.05)
	v.SetDefault("simulation.volatility", 0.2)
	v.SetDefault("simulation.horizon_steps", 365)
	v.SetDefault("simulation.barrier", 130.0)
	v.SetDefault("simulation.strike", 110.0)
	v.SetDefault("simulation.iterations", 100)
	v.SetDefault("simulation.discount_rate", 0.05)

	v.SetDefault("run.workers", 1)

	v.SetDefault("export.path_file", "")
	v.SetDefault("export.payoff_file", "")
	v.SetDefault("export.duckdb", "")
	v.SetDefault("export.with_paths", false)

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "")

	v.SetDefault("feed.listen_addr", "")

	v.SetDefault("log.mode", dbg.ModeDev)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.monitor", []string{})
}

// Load reads configPath when it is not empty and applies KNOCKOUT_ prefixed environment
// overrides, e.g. KNOCKOUT_SIMULATION_ITERATIONS.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %q: %w", configPath, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// seed has no default, an unset seed means a clock seeded run
	if v.IsSet("run.seed") {
		config.Run.Seed = v.GetUint64("run.seed")
		config.Run.Seeded = true
	}

	return &config, nil
}

func (c *Config) ExecutorOptions() []simulation.Option {
	options := []simulation.Option{simulation.WithWorkers(c.Run.Workers)}
	if c.Run.Seeded {
		options = append(options, simulation.WithSeed(c.Run.Seed))
	}
	return options
}
