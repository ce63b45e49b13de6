package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BasisPointsTotal is 100% expressed in basis points.
const BasisPointsTotal int64 = 10_000

type FinanceConfig struct {
	BusinessName string            `mapstructure:"businessName"`
	ProfitShare  ProfitShareConfig `mapstructure:"profitShare"`
}

// ProfitShareConfig splits combined gross revenue between Wasa and Kantor.
type ProfitShareConfig struct {
	WasaBasisPoints   int64 `mapstructure:"wasaBasisPoints"`
	OfficeBasisPoints int64 `mapstructure:"officeBasisPoints"`
}

func DefaultFinanceConfig() FinanceConfig {
	return FinanceConfig{
		BusinessName: "Wasa Finance",
		ProfitShare: ProfitShareConfig{
			WasaBasisPoints:   4000,
			OfficeBasisPoints: 6000,
		},
	}
}

type FinanceConfigHolder struct {
	current atomic.Value // holds FinanceConfig
}

// NewFinanceConfigHolder reads finance.yml from the usual locations and
// keeps watching it. A missing file yields the defaults.
func NewFinanceConfigHolder(log *zap.Logger) (*FinanceConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("finance")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/wasafinance/config")
	v.AddConfigPath("/etc/wasafinance")
	v.AddConfigPath(".")

	return newFinanceConfigHolder(v, log)
}

// LoadFinanceConfigFile watches a specific file instead of the search paths.
func LoadFinanceConfigFile(path string, log *zap.Logger) (*FinanceConfigHolder, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return newFinanceConfigHolder(v, log)
}

// NewStaticFinanceConfigHolder never reloads.
func NewStaticFinanceConfigHolder(cfg FinanceConfig) *FinanceConfigHolder {
	holder := &FinanceConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func newFinanceConfigHolder(v *viper.Viper, log *zap.Logger) (*FinanceConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.finance")

	v.SetEnvPrefix("WASAFINANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultFinanceConfig()
	v.SetDefault("finance.businessName", defaults.BusinessName)
	v.SetDefault("finance.profitShare.wasaBasisPoints", defaults.ProfitShare.WasaBasisPoints)
	v.SetDefault("finance.profitShare.officeBasisPoints", defaults.ProfitShare.OfficeBasisPoints)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read finance config: %w", err)
		}
		watch = false
	}

	cfg, err := decodeFinanceConfig(v)
	if err != nil {
		return nil, err
	}

	holder := &FinanceConfigHolder{}
	holder.current.Store(cfg)

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeFinanceConfig(v)
			if err != nil {
				log.Warn("finance config reload ignored", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("finance config reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return holder, nil
}

func (h *FinanceConfigHolder) Get() FinanceConfig {
	return h.current.Load().(FinanceConfig)
}

func decodeFinanceConfig(v *viper.Viper) (FinanceConfig, error) {
	var cfg FinanceConfig
	if err := v.UnmarshalKey("finance", &cfg); err != nil {
		return FinanceConfig{}, err
	}
	cfg.BusinessName = strings.TrimSpace(cfg.BusinessName)
	if cfg.BusinessName == "" {
		cfg.BusinessName = DefaultFinanceConfig().BusinessName
	}
	if err := ValidateFinanceConfig(cfg); err != nil {
		return FinanceConfig{}, err
	}
	return cfg, nil
}

func ValidateFinanceConfig(cfg FinanceConfig) error {
	share := cfg.ProfitShare
	if share.WasaBasisPoints < 0 || share.OfficeBasisPoints < 0 {
		return errors.New("finance.profitShare cannot be negative")
	}
	if share.WasaBasisPoints+share.OfficeBasisPoints != BasisPointsTotal {
		return fmt.Errorf("finance.profitShare must sum to %d basis points, got %d",
			BasisPointsTotal, share.WasaBasisPoints+share.OfficeBasisPoints)
	}
	return nil
}
