package config

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/purpose168/forge-cn/internal/artifact"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	appName              = "forge"
	defaultDataDirectory = ".forge"
	defaultInferenceURL  = "https://forge.purpose168.dev/api/generate"
	defaultCatalogURL    = "https://forge.purpose168.dev/api/templates"
)

// InferenceConfig 推理端点的连接配置
type InferenceConfig struct {
	BaseURL string `json:"base_url,omitempty" jsonschema:"description=Inference endpoint URL. Supports $VAR and ${VAR} references,format=uri,example=https://forge.purpose168.dev/api/generate"`
}

// TemplateConfig 起始模板的发现配置
type TemplateConfig struct {
	Dirs       []string `json:"dirs,omitempty" jsonschema:"description=Directories to discover starter templates in,example=~/.config/forge/templates,example=./templates"`
	CatalogURL string   `json:"catalog_url,omitempty" jsonschema:"description=URL of the remote template catalog,format=uri"`
}

// ArtifactConfig 产物提取的配置
type ArtifactConfig struct {
	CollisionPolicy string `json:"collision_policy,omitempty" jsonschema:"description=How artifacts extracted with the same file name are resolved,enum=first-wins,enum=last-wins,enum=auto-suffix,default=auto-suffix"`
}

type Options struct {
	Debug                     bool   `json:"debug,omitempty" jsonschema:"description=Enable debug logging,default=false"`
	DataDirectory             string `json:"data_directory,omitempty" jsonschema:"description=Directory for storing application data,example=~/.local/share/forge"`
	DisableMetrics            bool   `json:"disable_metrics,omitempty" jsonschema:"description=Disable sending metrics,default=false"`
	DisableTemplateAutoUpdate bool   `json:"disable_template_auto_update,omitempty" jsonschema:"description=Disable fetching the remote template catalog,default=false"`
	DisableUpdateCheck        bool   `json:"disable_update_check,omitempty" jsonschema:"description=Disable checking for new releases at startup,default=false"`
}

// Config 保存 forge 的配置。
type Config struct {
	Schema string `json:"$schema,omitempty"`

	Inference *InferenceConfig `json:"inference,omitempty" jsonschema:"description=Inference endpoint configuration"`

	Templates *TemplateConfig `json:"templates,omitempty" jsonschema:"description=Starter template configuration"`

	Artifacts *ArtifactConfig `json:"artifacts,omitempty" jsonschema:"description=Artifact extraction configuration"`

	Options *Options `json:"options,omitempty" jsonschema:"description=General application options"`

	// 内部字段
	workingDir    string `json:"-"`
	dataConfigDir string `json:"-"`
	resolver      VariableResolver
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// InferenceBaseURL 返回解析变量引用后的推理端点地址
func (c *Config) InferenceBaseURL() (string, error) {
	raw := cmp.Or(c.Inference.BaseURL, defaultInferenceURL)
	resolved, err := c.Resolve(raw)
	if err != nil {
		return "", fmt.Errorf("解析推理端点地址失败: %w", err)
	}
	return resolved, nil
}

// CollisionPolicy 返回同名产物的冲突解决策略
// 字段值在 Load 阶段已经过校验
func (c *Config) CollisionPolicy() artifact.CollisionPolicy {
	policy, err := artifact.ParseCollisionPolicy(c.Artifacts.CollisionPolicy)
	if err != nil {
		return artifact.DefaultCollisionPolicy
	}
	return policy
}

// TemplateCatalogURL 返回远程模板目录的地址
// 禁用模板自动更新时返回空串，表示只使用本地模板
func (c *Config) TemplateCatalogURL() string {
	if c.Options.DisableTemplateAutoUpdate {
		return ""
	}
	return cmp.Or(c.Templates.CatalogURL, defaultCatalogURL)
}

// TemplateCachePath 返回远程模板目录的磁盘缓存路径
func (c *Config) TemplateCachePath() string {
	return filepath.Join(c.Options.DataDirectory, "templates.json")
}

func (c *Config) Resolver() VariableResolver {
	return c.resolver
}

func (c *Config) Resolve(key string) (string, error) {
	if c.resolver == nil {
		return "", fmt.Errorf("未配置变量解析器")
	}
	return c.resolver.ResolveValue(key)
}

func (c *Config) HasConfigField(key string) bool {
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		return false
	}
	return gjson.Get(string(data), key).Exists()
}

// GetConfigField 返回合并后生效配置中指定字段的值
// 对象和数组返回原始 JSON，标量返回其字符串形式
func (c *Config) GetConfigField(key string) (string, bool) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", false
	}
	result := gjson.GetBytes(data, key)
	if !result.Exists() {
		return "", false
	}
	return result.String(), true
}

func (c *Config) SetConfigField(key string, value any) error {
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("设置配置字段 %s 失败: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.dataConfigDir), 0o755); err != nil {
		return fmt.Errorf("创建配置目录 %q 失败: %w", c.dataConfigDir, err)
	}
	if err := os.WriteFile(c.dataConfigDir, []byte(newValue), 0o600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}

func (c *Config) RemoveConfigField(key string) error {
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	newValue, err := sjson.Delete(string(data), key)
	if err != nil {
		return fmt.Errorf("删除配置字段 %s 失败: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.dataConfigDir), 0o755); err != nil {
		return fmt.Errorf("创建配置目录 %q 失败: %w", c.dataConfigDir, err)
	}
	if err := os.WriteFile(c.dataConfigDir, []byte(newValue), 0o600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
