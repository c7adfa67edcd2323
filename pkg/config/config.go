// Package config는 애플리케이션 설정을 관리하는 패키지입니다.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config 인터페이스는 설정 값에 액세스하기 위한 메서드를 정의합니다.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	IsSet(key string) bool
	// Unmarshal은 yaml 태그를 기준으로 전체 설정을 구조체에 디코딩합니다.
	Unmarshal(out interface{}) error
}

// viperConfig는 viper를 사용하여 Config 인터페이스를 구현합니다.
type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string { return c.v.GetString(key) }
func (c *viperConfig) GetInt(key string) int { return c.v.GetInt(key) }
func (c *viperConfig) GetBool(key string) bool { return c.v.GetBool(key) }
func (c *viperConfig) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }
func (c *viperConfig) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *viperConfig) GetStringSlice(key string) []string { return c.v.GetStringSlice(key) }
func (c *viperConfig) IsSet(key string) bool { return c.v.IsSet(key) }

// Unmarshal은 yaml 태그와 time.Duration 문자열("30s")을 지원합니다.
func (c *viperConfig) Unmarshal(out interface{}) error {
	return c.v.Unmarshal(out, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
}

// 설정 디렉토리 경로
const configDir = "configs"

// Load는 지정된 서비스 이름에 해당하는 설정 파일을 로드합니다.
//
// 탐색 순서: $CONFIG_PATH/{service}.yaml → configs/{APP_ENV}/{service}.yaml → configs/example/{service}.yaml
// 환경 변수는 {SERVICE}_ 접두사로 모든 키를 덮어쓸 수 있습니다 (예: FLEET_DATABASE_HOST).
func Load(serviceName string, defaults map[string]interface{}) (Config, error) {
	v := newViper(serviceName, defaults)

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(configDir, env)
	}

	v.SetConfigName(serviceName)
	v.AddConfigPath(configPath)

	if err := v.ReadInConfig(); err != nil {
		// configs/example 디렉토리에서 예제 설정 파일 시도
		v.AddConfigPath(filepath.Join(configDir, "example"))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
	}

	return &viperConfig{v: v}, nil
}

// LoadFile은 명시적인 파일 경로에서 설정을 로드합니다. CLI의 --config 플래그에서 사용합니다.
func LoadFile(serviceName, path string, defaults map[string]interface{}) (Config, error) {
	v := newViper(serviceName, defaults)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("설정 파일 로드 실패 (%s): %w", path, err)
	}
	return &viperConfig{v: v}, nil
}

func newViper(serviceName string, defaults map[string]interface{}) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
