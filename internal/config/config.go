package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	OrderPaid string `mapstructure:"order_paid"`
}

// GatewayConfig PhonePe 支付网关配置
//
// 【注意】salt_key 是和 PhonePe 共享的签名密钥，必须从配置注入，
// 硬编码在代码里就没法轮换了
type GatewayConfig struct {
	MerchantID      string `mapstructure:"merchant_id"`
	SaltKey         string `mapstructure:"salt_key"`
	SaltIndex       int    `mapstructure:"salt_index"`
	BaseURL         string `mapstructure:"base_url"`
	PayPath         string `mapstructure:"pay_path"`
	RedirectBaseURL string `mapstructure:"redirect_base_url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

type BusinessConfig struct {
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes"`
	PayLockTTLSeconds int `mapstructure:"pay_lock_ttl_seconds"`
	MaxRetryCount     int `mapstructure:"max_retry_count"`
}

var GlobalConfig *Config

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	GlobalConfig = config
	return config
}
