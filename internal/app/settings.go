package app

import (
	"time"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// GetSettingsStringValue retrieves a string configuration value. Returns ""
// when the key is missing or the embedded backend is active (which carries
// no settings table).
func (a *Application) GetSettingsStringValue(category, key string) string {
	if a.gormDB == nil {
		return ""
	}
	var cfg domain.SysConfig
	err := a.gormDB.Where("type = ? and name = ?", category, key).First(&cfg).Error
	if err != nil {
		return ""
	}
	return cfg.Value
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return cast.ToInt64(a.GetSettingsStringValue(category, key))
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return cast.ToBool(a.GetSettingsStringValue(category, key))
}

// LogOpr records an admin panel action. Best effort: on the embedded
// backend the entry only goes to the log stream.
func (a *Application) LogOpr(oprName, oprIP, action, desc string) {
	zap.L().Info("admin action",
		zap.String("opr", oprName),
		zap.String("action", action),
		zap.String("desc", desc))
	if a.gormDB == nil {
		return
	}
	a.gormDB.Create(&domain.SysOprLog{
		OprName:   oprName,
		OprIp:     oprIP,
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}
