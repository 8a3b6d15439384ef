package config

import "ordenar/internal/category"

const (
	defaultDataDir       = "~/.local/share/ordenar"
	defaultLogDir        = "~/.local/share/ordenar/logs"
	defaultMonthLanguage = "es"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	rules := category.DefaultRules()
	categories := make([]CategoryRule, 0, len(rules))
	for _, rule := range rules {
		categories = append(categories, CategoryRule{
			Name:        rule.Name,
			Extensions:  rule.Extensions,
			DateBuckets: rule.DateBuckets,
		})
	}

	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Organize: Organize{
			FallbackCategory: category.DefaultFallback,
			MonthLanguage:    defaultMonthLanguage,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Categories: categories,
	}
}
