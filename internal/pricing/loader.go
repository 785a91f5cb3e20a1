package pricing

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaultTable []byte

type fileTable struct {
	Version  string     `mapstructure:"version"`
	Currency string     `mapstructure:"currency"`
	Plans    []filePlan `mapstructure:"plans"`
}

type filePlan struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Price    string `mapstructure:"price"`
	Currency string `mapstructure:"currency"`
}

// Default returns the built-in price list shipped with the binary.
func Default() (*Table, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultTable)); err != nil {
		return nil, fmt.Errorf("read built-in pricing: %w", err)
	}
	return fromViper(v)
}

// Load reads a pricing file, or returns the built-in table when path is empty.
// A new price list means a new file and a restart; nothing reloads at runtime.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read pricing file %s: %w", path, err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Table, error) {
	var raw fileTable
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decode pricing table: %w", err)
	}

	plans := make([]Plan, 0, len(raw.Plans))
	for _, fp := range raw.Plans {
		price, err := decimal.NewFromString(strings.TrimSpace(fp.Price))
		if err != nil {
			return nil, fmt.Errorf("plan %q: invalid price %q: %w", fp.ID, fp.Price, err)
		}

		currency := fp.Currency
		if currency == "" {
			currency = raw.Currency
		}

		plans = append(plans, Plan{
			ID:       fp.ID,
			Name:     fp.Name,
			Price:    price,
			Currency: currency,
		})
	}

	return NewTable(raw.Version, plans)
}
