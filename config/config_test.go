package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	// 验证默认配置有效
	err := cfg.Validate()
	assert.NoError(t, err)

	t.Log("✅ NewConfig 测试通过")
}

// TestTaskConfig 测试流任务配置
func TestTaskConfig(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		cfg := DefaultTaskConfig()
		assert.Equal(t, int64(4*1024*1024), cfg.ArenaLimitBytes)
		assert.Equal(t, 16*1024, cfg.ReadChunkSize)
		assert.Equal(t, 16*1024, cfg.WriteChunkSize)
	})

	t.Run("Validate_Valid", func(t *testing.T) {
		cfg := DefaultTaskConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Validate_NegativeArenaLimit", func(t *testing.T) {
		cfg := DefaultTaskConfig()
		cfg.ArenaLimitBytes = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("Validate_ZeroReadChunk", func(t *testing.T) {
		cfg := DefaultTaskConfig()
		cfg.ReadChunkSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("Validate_ZeroWriteChunk", func(t *testing.T) {
		cfg := DefaultTaskConfig()
		cfg.WriteChunkSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Log("✅ TaskConfig 测试通过")
}

// TestMplxConfig 测试多路复用器配置
func TestMplxConfig(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		cfg := DefaultMplxConfig()
		assert.Equal(t, 256*1024, cfg.MaxStreamBufferBytes)
	})

	t.Run("Validate_Unbounded", func(t *testing.T) {
		cfg := DefaultMplxConfig()
		cfg.MaxStreamBufferBytes = 0
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Validate_Negative", func(t *testing.T) {
		cfg := DefaultMplxConfig()
		cfg.MaxStreamBufferBytes = -1
		assert.Error(t, cfg.Validate())
	})

	t.Log("✅ MplxConfig 测试通过")
}

// TestWorkersConfig 测试执行器池配置
func TestWorkersConfig(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		cfg := DefaultWorkersConfig()
		assert.Equal(t, 16, cfg.PoolSize)
	})

	t.Run("Validate_ZeroPool", func(t *testing.T) {
		cfg := DefaultWorkersConfig()
		cfg.PoolSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Log("✅ WorkersConfig 测试通过")
}

// TestSessionConfig 测试会话驱动配置
func TestSessionConfig(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		cfg := DefaultSessionConfig()
		assert.Equal(t, 16*1024, cfg.ReadChunkSize)
		assert.Equal(t, uint32(16*1024*1024), cfg.MaxStreamWindowBytes)
		assert.True(t, cfg.EnableKeepAlive)
		assert.Equal(t, 30*time.Second, cfg.KeepAliveInterval.Duration())
	})

	t.Run("Validate_SmallWindow", func(t *testing.T) {
		cfg := DefaultSessionConfig()
		cfg.MaxStreamWindowBytes = 1024
		assert.Error(t, cfg.Validate())
	})

	t.Run("Validate_KeepAliveWithoutInterval", func(t *testing.T) {
		cfg := DefaultSessionConfig()
		cfg.KeepAliveInterval = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("Validate_KeepAliveDisabled", func(t *testing.T) {
		cfg := DefaultSessionConfig()
		cfg.EnableKeepAlive = false
		cfg.KeepAliveInterval = 0
		assert.NoError(t, cfg.Validate())
	})

	t.Log("✅ SessionConfig 测试通过")
}

// TestDuration 测试 Duration JSON 编解码
func TestDuration(t *testing.T) {
	t.Run("UnmarshalString", func(t *testing.T) {
		var d Duration
		err := d.UnmarshalJSON([]byte(`"30s"`))
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, d.Duration())
	})

	t.Run("UnmarshalNanos", func(t *testing.T) {
		var d Duration
		err := d.UnmarshalJSON([]byte(`1000000000`))
		require.NoError(t, err)
		assert.Equal(t, time.Second, d.Duration())
	})

	t.Run("UnmarshalInvalid", func(t *testing.T) {
		var d Duration
		err := d.UnmarshalJSON([]byte(`"not-a-duration"`))
		assert.Error(t, err)
	})

	t.Run("Marshal", func(t *testing.T) {
		d := Duration(90 * time.Second)
		data, err := d.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `"1m30s"`, string(data))
	})

	t.Log("✅ Duration 测试通过")
}

// TestFromJSON 测试从 JSON 加载配置
func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"task": {"arena_limit_bytes": 8388608, "read_chunk_size": 4096, "write_chunk_size": 4096},
		"workers": {"pool_size": 32},
		"session": {"keep_alive_interval": "15s"}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, int64(8388608), cfg.Task.ArenaLimitBytes)
	assert.Equal(t, 4096, cfg.Task.ReadChunkSize)
	assert.Equal(t, 32, cfg.Workers.PoolSize)
	assert.Equal(t, 15*time.Second, cfg.Session.KeepAliveInterval.Duration())

	// 未出现的字段保留默认值
	assert.Equal(t, 256*1024, cfg.Mplx.MaxStreamBufferBytes)

	t.Log("✅ FromJSON 测试通过")
}

// TestFromJSON_Invalid 测试无效 JSON
func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{not json`))
	assert.Error(t, err)
}

// TestToJSON 测试配置序列化回环
func TestToJSON(t *testing.T) {
	cfg := NewConfig()
	cfg.Workers.PoolSize = 7

	data, err := cfg.ToJSON()
	require.NoError(t, err)

	loaded, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Workers.PoolSize)
	assert.Equal(t, cfg.Session.KeepAliveInterval, loaded.Session.KeepAliveInterval)
}

// TestApplyPreset 测试预设应用
func TestApplyPreset(t *testing.T) {
	t.Run("Server", func(t *testing.T) {
		cfg := NewConfig()
		require.NoError(t, ApplyPreset(cfg, "server"))
		assert.Equal(t, 64, cfg.Workers.PoolSize)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Minimal", func(t *testing.T) {
		cfg := NewConfig()
		require.NoError(t, ApplyPreset(cfg, "minimal"))
		assert.Equal(t, 1, cfg.Workers.PoolSize)
		assert.False(t, cfg.Session.EnableKeepAlive)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Empty", func(t *testing.T) {
		cfg := NewConfig()
		require.NoError(t, ApplyPreset(cfg, ""))
		assert.Equal(t, 16, cfg.Workers.PoolSize)
	})

	t.Run("Unknown", func(t *testing.T) {
		cfg := NewConfig()
		assert.Error(t, ApplyPreset(cfg, "turbo"))
	})

	t.Run("NilConfig", func(t *testing.T) {
		assert.Error(t, ApplyPreset(nil, "server"))
	})

	t.Log("✅ ApplyPreset 测试通过")
}
