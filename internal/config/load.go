package config

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"

	"github.com/purpose168/forge-cn/internal/artifact"
	"github.com/purpose168/forge-cn/internal/env"
	"github.com/purpose168/forge-cn/internal/fsext"
	"github.com/purpose168/forge-cn/internal/home"
	"github.com/purpose168/forge-cn/internal/log"
	"github.com/qjebbs/go-jsons"
)

// Load 从默认路径加载配置
func Load(workingDir, dataDir string, debug bool) (*Config, error) {
	configPaths := lookupConfigs(workingDir)

	cfg, err := loadFromConfigPaths(configPaths)
	if err != nil {
		return nil, fmt.Errorf("从路径 %v 加载配置失败: %w", configPaths, err)
	}

	cfg.dataConfigDir = GlobalConfigData()

	cfg.setDefaults(workingDir, dataDir)

	if debug {
		cfg.Options.Debug = true
	}

	// 设置日志
	log.Setup(
		filepath.Join(cfg.Options.DataDirectory, "logs", fmt.Sprintf("%s.log", appName)),
		cfg.Options.Debug,
	)

	if _, err := artifact.ParseCollisionPolicy(cfg.Artifacts.CollisionPolicy); err != nil {
		return nil, fmt.Errorf("校验产物冲突策略失败: %w", err)
	}

	cfg.resolver = NewEnvironmentVariableResolver(env.New())
	return cfg, nil
}

// setDefaults 填充缺失的配置段和默认值
func (c *Config) setDefaults(workingDir, dataDir string) {
	c.workingDir = workingDir
	if c.Inference == nil {
		c.Inference = &InferenceConfig{}
	}
	if c.Templates == nil {
		c.Templates = &TemplateConfig{}
	}
	if c.Artifacts == nil {
		c.Artifacts = &ArtifactConfig{}
	}
	if c.Options == nil {
		c.Options = &Options{}
	}
	if dataDir != "" {
		c.Options.DataDirectory = dataDir
	} else if c.Options.DataDirectory == "" {
		// 工作目录或其上层带有 .forge 目录时就近使用，否则落到全局数据目录
		if path, ok := fsext.LookupClosest(workingDir, defaultDataDirectory); ok {
			c.Options.DataDirectory = path
		} else {
			c.Options.DataDirectory = GlobalDataDir()
		}
	}

	// 把模板目录中的 ~ 展开，并补上默认的全局模板目录
	for i, dir := range c.Templates.Dirs {
		c.Templates.Dirs[i] = home.Long(dir)
	}
	for _, dir := range GlobalTemplateDirs() {
		if !slices.Contains(c.Templates.Dirs, dir) {
			c.Templates.Dirs = append(c.Templates.Dirs, dir)
		}
	}

	if str, ok := os.LookupEnv("FORGE_DISABLE_TEMPLATE_AUTO_UPDATE"); ok {
		c.Options.DisableTemplateAutoUpdate, _ = strconv.ParseBool(str)
	}

	if str, ok := os.LookupEnv("FORGE_DISABLE_METRICS"); ok {
		c.Options.DisableMetrics, _ = strconv.ParseBool(str)
	}

	// DO_NOT_TRACK 只增加限制，不放开已有配置
	if str, ok := os.LookupEnv("DO_NOT_TRACK"); ok {
		if disabled, _ := strconv.ParseBool(str); disabled {
			c.Options.DisableMetrics = true
		}
	}
}

func lookupConfigs(cwd string) []string {
	// 在前面添加默认配置路径
	configPaths := []string{
		GlobalConfig(),
		GlobalConfigData(),
	}

	configNames := []string{appName + ".json", "." + appName + ".json"}

	foundConfigs, err := fsext.Lookup(cwd, configNames...)
	if err != nil {
		// 至少返回默认配置
		return configPaths
	}

	// 反转顺序，使最后一个配置具有更高优先级
	slices.Reverse(foundConfigs)

	return append(configPaths, foundConfigs...)
}

func loadFromConfigPaths(configPaths []string) (*Config, error) {
	var configs [][]byte

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("打开配置文件 %s 失败: %w", path, err)
		}
		if len(data) == 0 {
			continue
		}
		configs = append(configs, data)
	}

	return loadFromBytes(configs)
}

func loadFromBytes(configs [][]byte) (*Config, error) {
	if len(configs) == 0 {
		return &Config{}, nil
	}

	data, err := jsons.Merge(configs)
	if err != nil {
		return nil, err
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// GlobalConfig 返回应用程序的全局配置文件路径
func GlobalConfig() string {
	if forgeGlobal := os.Getenv("FORGE_GLOBAL_CONFIG"); forgeGlobal != "" {
		return filepath.Join(forgeGlobal, fmt.Sprintf("%s.json", appName))
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, fmt.Sprintf("%s.json", appName))
	}
	return filepath.Join(home.Dir(), ".config", appName, fmt.Sprintf("%s.json", appName))
}

// GlobalConfigData 返回数据目录中的配置文件路径
// 应用自身写配置时写这份，而不是更新全局配置
func GlobalConfigData() string {
	if forgeData := os.Getenv("FORGE_GLOBAL_DATA"); forgeData != "" {
		return filepath.Join(forgeData, fmt.Sprintf("%s.json", appName))
	}
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName, fmt.Sprintf("%s.json", appName))
	}

	// Windows 下位于 `%LOCALAPPDATA%/forge/`
	// Linux 和 macOS 下位于 `$HOME/.local/share/forge/`
	if runtime.GOOS == "windows" {
		localAppData := cmp.Or(
			os.Getenv("LOCALAPPDATA"),
			filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local"),
		)
		return filepath.Join(localAppData, appName, fmt.Sprintf("%s.json", appName))
	}

	return filepath.Join(home.Dir(), ".local", "share", appName, fmt.Sprintf("%s.json", appName))
}

// GlobalDataDir 返回应用程序的全局数据目录
// 主数据文件、认证凭据和各项目的沙箱数据库都存放在这里
func GlobalDataDir() string {
	return filepath.Dir(GlobalConfigData())
}

// GlobalTemplateDirs 返回起始模板的默认目录
// 这些目录中的模板清单会被自动发现
func GlobalTemplateDirs() []string {
	if forgeTemplates := os.Getenv("FORGE_TEMPLATES_DIR"); forgeTemplates != "" {
		return []string{forgeTemplates}
	}

	// 确定基础配置目录
	var configBase string
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		configBase = xdgConfigHome
	} else if runtime.GOOS == "windows" {
		configBase = cmp.Or(
			os.Getenv("LOCALAPPDATA"),
			filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local"),
		)
	} else {
		configBase = filepath.Join(home.Dir(), ".config")
	}

	return []string{
		filepath.Join(configBase, appName, "templates"),
	}
}
