package config

import "strings"

// normalize fills defaulted fields and expands path values in place.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(defaulted(c.Paths.DataDir, defaultDataDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(defaulted(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}

	c.Organize.FallbackCategory = strings.TrimSpace(c.Organize.FallbackCategory)
	if c.Organize.FallbackCategory == "" {
		c.Organize.FallbackCategory = Default().Organize.FallbackCategory
	}
	c.Organize.MonthLanguage = strings.TrimSpace(c.Organize.MonthLanguage)
	if c.Organize.MonthLanguage == "" {
		c.Organize.MonthLanguage = defaultMonthLanguage
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(defaulted(c.Logging.Level, defaultLogLevel)))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(defaulted(c.Logging.Format, defaultLogFormat)))

	if len(c.Categories) == 0 {
		c.Categories = Default().Categories
	}
	return nil
}

func defaulted(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
