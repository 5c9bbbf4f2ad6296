package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ==================== 辅助函数 ====================

// GetEnvOrDefault 从环境变量获取配置，如果不存在则返回默认值
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ==================== 配置验证器 ====================

// Source 可被校验的配置源（*viper.Viper 满足该接口）
type Source interface {
	IsSet(key string) bool
	GetString(key string) string
}

// Validator 配置验证器
type Validator struct {
	rules []ValidationRule
}

// ValidationRule 验证规则
type ValidationRule struct {
	Key       string
	Required  bool
	Validator func(value string) error
}

// NewValidator 创建验证器
func NewValidator() *Validator {
	return &Validator{
		rules: make([]ValidationRule, 0),
	}
}

// AddRule 添加验证规则
func (v *Validator) AddRule(key string, required bool, validator func(value string) error) *Validator {
	v.rules = append(v.rules, ValidationRule{
		Key:       key,
		Required:  required,
		Validator: validator,
	})
	return v
}

// Validate 验证配置
func (v *Validator) Validate(source Source) error {
	for _, rule := range v.rules {
		if rule.Required && !source.IsSet(rule.Key) {
			return fmt.Errorf("required config key '%s' is not set", rule.Key)
		}

		if source.IsSet(rule.Key) && rule.Validator != nil {
			if err := rule.Validator(source.GetString(rule.Key)); err != nil {
				return fmt.Errorf("validation failed for key '%s': %w", rule.Key, err)
			}
		}
	}
	return nil
}

// ==================== 常用验证器 ====================

// ValidatePort 验证端口号
func ValidatePort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", value)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port number out of range: %d", port)
	}
	return nil
}

// ValidateNotEmpty 验证非空
func ValidateNotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}

// ValidateOneOf 验证取值在给定集合内
func ValidateOneOf(allowed ...string) func(string) error {
	return func(value string) error {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return fmt.Errorf("value %q must be one of %v", value, allowed)
	}
}
