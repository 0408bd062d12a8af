package config

import (
	"errors"
	"fmt"
	"net"
	"runtime"
	"strings"
	"time"

	"irwake/internal/models"

	"github.com/spf13/viper"
)

// Config is loaded once at startup and passed by value to every component.
type Config struct {
	Log       Log       `mapstructure:"log"`
	Input     Input     `mapstructure:"input"`
	Remote    Remote    `mapstructure:"remote"`
	Probe     Probe     `mapstructure:"probe"`
	Projector Projector `mapstructure:"projector"`
	Buzzer    Buzzer    `mapstructure:"buzzer"`
	Sequence  Sequence  `mapstructure:"sequence"`
	Journal   Journal   `mapstructure:"journal"`
	Metrics   Metrics   `mapstructure:"metrics"`
	Listener  Listener  `mapstructure:"listener"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Input struct {
	Keyword     string `mapstructure:"keyword"`
	DefaultPath string `mapstructure:"default_path"`
	TriggerCode uint16 `mapstructure:"trigger_code"`
}

type Remote struct {
	Host           string `mapstructure:"host"`
	MAC            string `mapstructure:"mac"`
	Broadcast      string `mapstructure:"broadcast"`
	WakePort       int    `mapstructure:"wake_port"`
	ShutdownPort   int    `mapstructure:"shutdown_port"`
	ShutdownMarker string `mapstructure:"shutdown_marker"`
}

// Probe tunes the liveness check; Alive needs Threshold replies out of Count.
type Probe struct {
	Method     string        `mapstructure:"method"` // icmp | exec
	Count      int           `mapstructure:"count"`
	Interval   time.Duration `mapstructure:"interval"`
	Threshold  int           `mapstructure:"threshold"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Privileged bool          `mapstructure:"privileged"`
}

type Projector struct {
	Keyword     string        `mapstructure:"keyword"`
	DefaultPort string        `mapstructure:"default_port"`
	Baud        int           `mapstructure:"baud"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	Settle      time.Duration `mapstructure:"settle"`
	ReadSize    int           `mapstructure:"read_size"`
	PowerOnHex  string        `mapstructure:"power_on"`
	PowerOffHex string        `mapstructure:"power_off"`

	PowerOn  models.SerialCommand `mapstructure:"-"`
	PowerOff models.SerialCommand `mapstructure:"-"`
}

type Buzzer struct {
	Keyword     string        `mapstructure:"keyword"`
	DefaultPort string        `mapstructure:"default_port"`
	Pulse       time.Duration `mapstructure:"pulse"`
}

type Sequence struct {
	ShutdownSettle time.Duration `mapstructure:"shutdown_settle"`
}

type Journal struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type Metrics struct {
	Textfile string `mapstructure:"textfile"`
}

type Listener struct {
	Addr     string   `mapstructure:"addr"`
	Marker   string   `mapstructure:"marker"`
	PowerOff []string `mapstructure:"poweroff"`
}

const envPrefix = "IRWAKE"

var (
	errEmptyMarker     = errors.New("shutdown marker must not be empty")
	errBadThreshold    = errors.New("probe threshold must be between 1 and probe count")
	errUnknownProbe    = errors.New("probe method must be icmp or exec")
	errEmptyRemoteHost = errors.New("remote host must not be empty")
)

// setDefaults registers every key so the binary runs without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "/var/log/wake_on_ir.log")

	v.SetDefault("input.keyword", "flirc")
	v.SetDefault("input.default_path", "/dev/input/event5")
	v.SetDefault("input.trigger_code", 99)

	v.SetDefault("remote.host", "172.16.0.2")
	v.SetDefault("remote.mac", "48:21:0B:71:2C:32")
	v.SetDefault("remote.broadcast", "172.16.0.255")
	v.SetDefault("remote.wake_port", 9)
	v.SetDefault("remote.shutdown_port", 4000)
	v.SetDefault("remote.shutdown_marker", "shutdowntangguo")

	v.SetDefault("probe.method", "icmp")
	v.SetDefault("probe.count", 5)
	v.SetDefault("probe.interval", "200ms")
	v.SetDefault("probe.threshold", 3)
	v.SetDefault("probe.timeout", "3s")
	v.SetDefault("probe.privileged", false)

	v.SetDefault("projector.keyword", "067B")
	v.SetDefault("projector.default_port", "/dev/ttyUSB0")
	v.SetDefault("projector.baud", 9600)
	v.SetDefault("projector.read_timeout", "1s")
	v.SetDefault("projector.settle", "100ms")
	v.SetDefault("projector.read_size", 16)
	v.SetDefault("projector.power_on", "7E 30 30 30 30 20 31 0D")
	v.SetDefault("projector.power_off", "7E 30 30 30 30 20 30 0D")

	v.SetDefault("buzzer.keyword", "1A86")
	v.SetDefault("buzzer.default_port", "/dev/ttyUSB2")
	v.SetDefault("buzzer.pulse", "500ms")

	v.SetDefault("sequence.shutdown_settle", "10s")

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", "/var/lib/irwake/journal.db")

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("listener.addr", "0.0.0.0:4000")
	v.SetDefault("listener.marker", "shutdowntangguo")
	v.SetDefault("listener.poweroff", []string{})
}

// Load reads configs/config.yml, or the file at path when non-empty.
// A missing default file is not an error; defaults and IRWAKE_* env apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// finalize validates the decoded values and derives the parsed fields.
func (c *Config) finalize() error {
	if c.Remote.Host == "" {
		return errEmptyRemoteHost
	}
	if _, err := net.ParseMAC(c.Remote.MAC); err != nil {
		return fmt.Errorf("remote.mac: %w", err)
	}
	for name, port := range map[string]int{
		"remote.wake_port":     c.Remote.WakePort,
		"remote.shutdown_port": c.Remote.ShutdownPort,
	} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("%s: port %d out of range", name, port)
		}
	}
	if c.Remote.ShutdownMarker == "" || c.Listener.Marker == "" {
		return errEmptyMarker
	}

	switch c.Probe.Method {
	case "icmp", "exec":
	default:
		return fmt.Errorf("probe.method %q: %w", c.Probe.Method, errUnknownProbe)
	}
	if c.Probe.Threshold < 1 || c.Probe.Threshold > c.Probe.Count {
		return fmt.Errorf("threshold %d of %d: %w", c.Probe.Threshold, c.Probe.Count, errBadThreshold)
	}

	var err error
	if c.Projector.PowerOn, err = models.ParseSerialCommand("POWER_ON", c.Projector.PowerOnHex); err != nil {
		return err
	}
	if c.Projector.PowerOff, err = models.ParseSerialCommand("POWER_OFF", c.Projector.PowerOffHex); err != nil {
		return err
	}
	if c.Projector.ReadSize <= 0 {
		c.Projector.ReadSize = 16
	}

	if len(c.Listener.PowerOff) == 0 {
		c.Listener.PowerOff = DefaultPowerOff(runtime.GOOS)
	}
	return nil
}

// DefaultPowerOff returns the immediate power-off command line for goos.
func DefaultPowerOff(goos string) []string {
	if goos == "windows" {
		return []string{"shutdown", "/s", "/t", "0"}
	}
	return []string{"shutdown", "-h", "now"}
}
