// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Database      DatabaseConfig      `yaml:"database" mapstructure:"database"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Vector        VectorConfig        `yaml:"vector" mapstructure:"vector"`
	TextIndex     TextIndexConfig     `yaml:"text_index" mapstructure:"text_index"`
	Embedding     EmbeddingConfig     `yaml:"embedding" mapstructure:"embedding"`
	Translation   TranslationConfig   `yaml:"translation" mapstructure:"translation"`
	Search        SearchConfig        `yaml:"search" mapstructure:"search"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// VectorConfig 向量数据库配置
type VectorConfig struct {
	Milvus MilvusConfig `yaml:"milvus" mapstructure:"milvus"`
}

// MilvusConfig Milvus 配置
type MilvusConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	CollectionPrefix   string `yaml:"collection_prefix" mapstructure:"collection_prefix"`
	IndexType          string `yaml:"index_type" mapstructure:"index_type"`
	MetricType         string `yaml:"metric_type" mapstructure:"metric_type"`
	HNSWM              int    `yaml:"hnsw_m" mapstructure:"hnsw_m"`
	HNSWEfConstruction int    `yaml:"hnsw_ef_construction" mapstructure:"hnsw_ef_construction"`
}

// TextIndexConfig 全文索引 (RediSearch) 配置
type TextIndexConfig struct {
	Host        string        `yaml:"host" mapstructure:"host"`
	Port        int           `yaml:"port" mapstructure:"port"`
	Password    string        `yaml:"password" mapstructure:"password"`
	IndexName   string        `yaml:"index_name" mapstructure:"index_name"`
	KeyPrefix   string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
}

// EmbeddingConfig Embedding 配置
type EmbeddingConfig struct {
	APIKey    string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Model     string        `yaml:"model" mapstructure:"model"`
	Dimension int           `yaml:"dimension" mapstructure:"dimension"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// TranslationConfig 查询翻译配置
type TranslationConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	APIKey         string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	Model          string        `yaml:"model" mapstructure:"model"`
	TargetLanguage string        `yaml:"target_language" mapstructure:"target_language"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SearchConfig 混合检索调优配置，进程启动时加载一次，请求期间视为不可变
type SearchConfig struct {
	Analyzer AnalyzerConfig     `yaml:"analyzer" mapstructure:"analyzer"`
	Vector   VectorSearchConfig `yaml:"vector" mapstructure:"vector"`
	Semantic SemanticConfig     `yaml:"semantic" mapstructure:"semantic"`
	Cache    SearchCacheConfig  `yaml:"cache" mapstructure:"cache"`
}

// AnalyzerConfig 查询分析器词表与模式配置
type AnalyzerConfig struct {
	// GenderTerms 词项到规范性别值的映射（双语）
	GenderTerms map[string]string `yaml:"gender_terms" mapstructure:"gender_terms"`
	// HealthTerms 健康词表
	HealthTerms []string `yaml:"health_terms" mapstructure:"health_terms"`
	// AgeYearPatterns / AgeMonthPatterns 年龄表达式（捕获组 1 为数值）
	AgeYearPatterns  []string `yaml:"age_year_patterns" mapstructure:"age_year_patterns"`
	AgeMonthPatterns []string `yaml:"age_month_patterns" mapstructure:"age_month_patterns"`
	// WeightKgPatterns / WeightLbPatterns 体重表达式（捕获组 1 为数值）
	WeightKgPatterns []string `yaml:"weight_kg_patterns" mapstructure:"weight_kg_patterns"`
	WeightLbPatterns []string `yaml:"weight_lb_patterns" mapstructure:"weight_lb_patterns"`
	// MonthsPerYear 月→年换算因子
	MonthsPerYear float64 `yaml:"months_per_year" mapstructure:"months_per_year"`
	// PoundsPerKg 磅→千克换算因子
	PoundsPerKg float64 `yaml:"pounds_per_kg" mapstructure:"pounds_per_kg"`
}

// VectorSearchConfig 向量检索调优
type VectorSearchConfig struct {
	// MinCandidates 候选数下限（candidates = clamp(limit*10, MinCandidates, 10000)）
	MinCandidates int `yaml:"min_candidates" mapstructure:"min_candidates"`
	// MinTopK 返回数下限（limit = clamp(requested*3, MinTopK, 1000)）
	MinTopK int `yaml:"min_top_k" mapstructure:"min_top_k"`
	// SimilarityFloor 相似度下限，低于该值的候选被丢弃
	SimilarityFloor float64 `yaml:"similarity_floor" mapstructure:"similarity_floor"`
}

// SemanticConfig 语义检索调优
type SemanticConfig struct {
	Boosts    BoostConfig     `yaml:"boosts" mapstructure:"boosts"`
	Threshold ThresholdConfig `yaml:"threshold" mapstructure:"threshold"`
	// Synonyms 同义词扩展表
	Synonyms map[string][]string `yaml:"synonyms" mapstructure:"synonyms"`
	// MaxExpectedScore 各匹配类型的归一化分数上限
	MaxExpectedScore map[string]float64 `yaml:"max_expected_score" mapstructure:"max_expected_score"`
	// AgeTolerances / WeightTolerances 数值范围容差分桶（值越大容差越宽）
	AgeTolerances    []ToleranceBucket `yaml:"age_tolerances" mapstructure:"age_tolerances"`
	WeightTolerances []ToleranceBucket `yaml:"weight_tolerances" mapstructure:"weight_tolerances"`
}

// BoostConfig 各子查询的权重
type BoostConfig struct {
	Phrase          float64 `yaml:"phrase" mapstructure:"phrase"`
	Text            float64 `yaml:"text" mapstructure:"text"`
	Synonym         float64 `yaml:"synonym" mapstructure:"synonym"`
	Description     float64 `yaml:"description" mapstructure:"description"`
	Fuzzy           float64 `yaml:"fuzzy" mapstructure:"fuzzy"`
	GenderCanonical float64 `yaml:"gender_canonical" mapstructure:"gender_canonical"`
	GenderRaw       float64 `yaml:"gender_raw" mapstructure:"gender_raw"`
	Numeric         float64 `yaml:"numeric" mapstructure:"numeric"`
}

// ThresholdConfig 动态分数阈值调整
type ThresholdConfig struct {
	Base             float64            `yaml:"base" mapstructure:"base"`
	MatchTypeFactor  map[string]float64 `yaml:"match_type_factor" mapstructure:"match_type_factor"`
	SingleWordFactor float64            `yaml:"single_word_factor" mapstructure:"single_word_factor"`
	LongQueryFactor  float64            `yaml:"long_query_factor" mapstructure:"long_query_factor"`
	GenderFactor     float64            `yaml:"gender_factor" mapstructure:"gender_factor"`
	NumericFactor    float64            `yaml:"numeric_factor" mapstructure:"numeric_factor"`
}

// ToleranceBucket 数值容差分桶：值 <= UpTo 时使用 Tolerance
type ToleranceBucket struct {
	UpTo      float64 `yaml:"up_to" mapstructure:"up_to"`
	Tolerance float64 `yaml:"tolerance" mapstructure:"tolerance"`
}

// SearchCacheConfig 检索结果缓存配置
type SearchCacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	JWT       JWTConfig       `yaml:"jwt" mapstructure:"jwt"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret            string        `yaml:"secret" mapstructure:"secret"`
	Issuer            string        `yaml:"issuer" mapstructure:"issuer"`
	Expiration        time.Duration `yaml:"expiration" mapstructure:"expiration"`
	RefreshExpiration time.Duration `yaml:"refresh_expiration" mapstructure:"refresh_expiration"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}
