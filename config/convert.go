package config

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值，JSON 格式与 Config 结构体一一对应。
//
// 示例 JSON:
//
//	{
//	  "task": {"arena_limit_bytes": 8388608},
//	  "workers": {"pool_size": 32},
//	  "session": {"keep_alive_interval": "15s"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ToJSON 将配置序列化为 JSON 数据
//
// 输出带缩进，适合写入配置文件。
func (c *Config) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// ApplyPreset 应用预设配置
//
// Preset 提供了针对不同场景优化的配置组合。
// 该函数将预设应用到配置上。
//
// 支持的预设：
//   - "server": 高并发服务器优化
//   - "minimal": 最小资源占用
func ApplyPreset(cfg *Config, presetName string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch presetName {
	case "server":
		applyServerPreset(cfg)
		return nil
	case "minimal":
		applyMinimalPreset(cfg)
		return nil
	case "":
		// 空预设，不做任何操作
		return nil
	default:
		return fmt.Errorf("unknown preset: %s", presetName)
	}
}
