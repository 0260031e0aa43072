package models

import (
	"strconv"

	"gorm.io/gorm"
)

type SettingType string

const (
	SettingActivateGateway SettingType = "activate_gateway"
	SettingGatewayToken    SettingType = "gateway_token"
	SettingReservePrice    SettingType = "reserve_price"
	SettingTermsContent    SettingType = "terms_content"
	SettingUseRedisCache   SettingType = "use_redis_cache"
)

// Setting is a typed key/value row read at request time. A missing row
// always means "use the default", never an error.
type Setting struct {
	Base
	Type  SettingType `json:"type" gorm:"size:32;uniqueIndex"`
	Value string      `json:"value" gorm:"type:text"`
}

// GetSetting returns the stored value for t, or fallback when no row
// exists.
func GetSetting(db *gorm.DB, t SettingType, fallback string) string {
	var setting Setting
	if err := db.Where("type = ?", t).First(&setting).Error; err != nil {
		return fallback
	}
	return setting.Value
}

// GetBoolSetting parses the stored value as a bool, returning fallback
// when the row is missing or unparsable.
func GetBoolSetting(db *gorm.DB, t SettingType, fallback bool) bool {
	value := GetSetting(db, t, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
